// Package bayes holds conjugate-prior updates.
package bayes

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

// Posterior Beta(A, B) 后验
type Posterior struct {
	A float64
	B float64
}

// ConjugateBetaBinomial updates a Beta(priorA, priorB) prior with the outcome
// of `trials` Bernoulli trials of which `successes` succeeded.
func ConjugateBetaBinomial(priorA, priorB float64, successes, trials int) (Posterior, error) {
	if !(priorA > 0) || !(priorB > 0) || math.IsInf(priorA, 0) || math.IsInf(priorB, 0) {
		return Posterior{}, errorx.Newf(errCode.INVALID_VALUE, "prior parameters must be finite and > 0: a=%v b=%v", priorA, priorB)
	}
	if trials < 0 || successes < 0 || successes > trials {
		return Posterior{}, errorx.Newf(errCode.INVALID_VALUE, "need 0 <= successes <= trials: successes=%d trials=%d", successes, trials)
	}
	return Posterior{
		A: priorA + float64(successes),
		B: priorB + float64(trials-successes),
	}, nil
}

func (p Posterior) dist() distuv.Beta {
	return distuv.Beta{Alpha: p.A, Beta: p.B}
}

func (p Posterior) Mean() float64 {
	return p.dist().Mean()
}

// CredibleInterval 等尾可信区间，level 取 (0, 1)
func (p Posterior) CredibleInterval(level float64) (lo, hi float64, err error) {
	if !(level > 0 && level < 1) {
		return 0, 0, errorx.Newf(errCode.INVALID_VALUE, "level must be in (0, 1): %v", level)
	}
	d := p.dist()
	tail := (1 - level) / 2
	return d.Quantile(tail), d.Quantile(1 - tail), nil
}
