// Package rulesClf is a multi-label text classifier driven by hand-written
// regex rules. Each matching rule adds its weights to the labels it names.
package rulesClf

import (
	"context"
	"math/rand"
	"regexp"
	"sort"

	"toolbox/concurrency/parallel"
	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

type Rule struct {
	Pattern string             `yaml:"pattern"`
	Scores  map[string]float64 `yaml:"scores"`
}

type LabelScore struct {
	Label string
	Score float64
}

// TieMode 决定最高分并列时 Predict 返回哪些标签
type TieMode int

const (
	TIE_FIRST  TieMode = iota // 按标签顺序取第一个
	TIE_ALL                   // 返回全部并列标签
	TIE_RANDOM                // 随机取一个
)

func (m TieMode) String() string {
	switch m {
	case TIE_FIRST:
		return "first"
	case TIE_ALL:
		return "all"
	case TIE_RANDOM:
		return "random"
	default:
		return "unknown"
	}
}

func ParseTieMode(s string) (TieMode, error) {
	for _, m := range []TieMode{TIE_FIRST, TIE_ALL, TIE_RANDOM} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, errorx.Newf(errCode.INVALID_VALUE, "tie mode must be one of first, all, random: %q", s)
}

type compiledRule struct {
	re     *regexp.Regexp
	scores []LabelScore
}

type Classifier struct {
	rules  []compiledRule
	labels []string
	rng    *rand.Rand
}

type Option func(*Classifier)

// WithRand 注入随机源，TIE_RANDOM 使用
func WithRand(rng *rand.Rand) Option {
	return func(c *Classifier) { c.rng = rng }
}

// New compiles the rules. Labels are ordered by first appearance across
// rules, alphabetically within a single rule.
func New(rules []Rule, tr *trace.Log, opts ...Option) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	seen := make(map[string]bool)
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "rule %d: bad pattern %q: %v", i, r.Pattern, err)
		}
		labels := make([]string, 0, len(r.Scores))
		for label := range r.Scores {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		cr := compiledRule{re: re, scores: make([]LabelScore, 0, len(labels))}
		for _, label := range labels {
			cr.scores = append(cr.scores, LabelScore{Label: label, Score: r.Scores[label]})
			if !seen[label] {
				seen[label] = true
				c.labels = append(c.labels, label)
			}
		}
		c.rules = append(c.rules, cr)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	tr.Add("define_rules", "rules", len(c.rules), "labels", len(c.labels))
	return c, nil
}

func (c *Classifier) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Scores 每个标签的累计分数，顺序同 Labels
func (c *Classifier) Scores(text string) []LabelScore {
	idx := make(map[string]int, len(c.labels))
	out := make([]LabelScore, len(c.labels))
	for i, label := range c.labels {
		idx[label] = i
		out[i].Label = label
	}
	for _, r := range c.rules {
		if !r.re.MatchString(text) {
			continue
		}
		for _, s := range r.scores {
			out[idx[s.Label]].Score += s.Score
		}
	}
	return out
}

func (c *Classifier) Predict(text string, mode TieMode) ([]string, error) {
	if len(c.labels) == 0 {
		return nil, errorx.New(errCode.EMPTY_VALUE, "no labels defined")
	}
	scores := c.Scores(text)
	best := scores[0].Score
	for _, s := range scores[1:] {
		if s.Score > best {
			best = s.Score
		}
	}
	var top []string
	for _, s := range scores {
		if s.Score == best {
			top = append(top, s.Label)
		}
	}

	switch mode {
	case TIE_FIRST:
		return top[:1], nil
	case TIE_ALL:
		return top, nil
	case TIE_RANDOM:
		return []string{top[c.rng.Intn(len(top))]}, nil
	default:
		return nil, errorx.Newf(errCode.INVALID_VALUE, "unknown tie mode %d", int(mode))
	}
}

// Proba 分数归一化，总分为 0 时报错
func (c *Classifier) Proba(text string) ([]LabelScore, error) {
	scores := c.Scores(text)
	total := 0.0
	for _, s := range scores {
		total += s.Score
	}
	if total == 0 {
		return nil, errorx.New(errCode.EMPTY_VALUE, "total score is zero, no rule matched")
	}
	for i := range scores {
		scores[i].Score /= total
	}
	return scores, nil
}

// PredictBatch classifies texts concurrently. TIE_RANDOM is not allowed here
// because the shared random source is not safe for concurrent use.
func (c *Classifier) PredictBatch(ctx context.Context, texts []string, mode TieMode, workers int) ([][]string, error) {
	if mode == TIE_RANDOM {
		return nil, errorx.New(errCode.INVALID_VALUE, "random tie mode is not supported in batch")
	}
	return parallel.Map(ctx, texts, func(_ context.Context, text string) ([]string, error) {
		return c.Predict(text, mode)
	}, parallel.Options{MaxWorkers: workers})
}
