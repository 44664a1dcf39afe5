// Package hist bins numeric samples into equal-width intervals and draws the
// result as a text bar chart.
package hist

import (
	"math"

	gstat "github.com/gonum/stat"
	"gonum.org/v1/gonum/floats"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

var (
	// ErrInvalidInput 参数非法，所有校验错误都能用 errors.Is 匹配到它
	ErrInvalidInput = errorx.New(errCode.INVALID_VALUE, "invalid input")
	// ErrDegenerateRange 所有样本相同，分箱宽度为 0
	ErrDegenerateRange = errorx.New(errCode.INVALID_VALUE, "degenerate range: max == min")
)

// DegeneratePolicy 决定 max == min 时的处理方式
type DegeneratePolicy int

const (
	DEGENERATE_REJECT     DegeneratePolicy = iota // 返回 ErrDegenerateRange
	DEGENERATE_SINGLE_BIN                         // 单个闭区间 [v, v] 装下全部样本
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DEGENERATE_REJECT:
		return "reject"
	case DEGENERATE_SINGLE_BIN:
		return "single_bin"
	default:
		return "unknown"
	}
}

// HistogramBin 每个分箱的结构, [From, To)，最后一个为 [From, To]
type HistogramBin struct {
	From  float64
	To    float64
	Count int
}

type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64 // 样本标准差，N == 1 时为 NaN
}

// Histogram is immutable once built.
type Histogram struct {
	bins    []HistogramBin
	summary Summary
}

type buildConfig struct {
	policy DegeneratePolicy
	trace  *trace.Log
}

type BuildOption func(*buildConfig)

func WithDegeneratePolicy(p DegeneratePolicy) BuildOption {
	return func(c *buildConfig) { c.policy = p }
}

func WithTrace(tr *trace.Log) BuildOption {
	return func(c *buildConfig) { c.trace = tr }
}

// Build 按指定 nBins 对 samples 做等宽分箱统计
func Build(samples []float64, nBins int, opts ...BuildOption) (*Histogram, error) {
	cfg := buildConfig{policy: DEGENERATE_REJECT}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(samples) == 0 {
		return nil, errorx.New(errCode.INVALID_VALUE, "sample set is empty")
	}
	if nBins < 1 {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "n_bins must be >= 1, got %d", nBins)
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "sample %d is not finite: %v", i, v)
		}
	}

	// 1. 求最小值最大值
	minV, maxV := floats.Min(samples), floats.Max(samples)
	summary := Summary{
		N:      len(samples),
		Min:    minV,
		Max:    maxV,
		Mean:   gstat.Mean(samples, nil),
		StdDev: gstat.StdDev(samples, nil),
	}
	cfg.trace.Add("scan", "n", len(samples), "min", minV, "max", maxV)

	if maxV == minV {
		if cfg.policy != DEGENERATE_SINGLE_BIN {
			return nil, ErrDegenerateRange
		}
		cfg.trace.Add("bin", "policy", cfg.policy.String(), "n_bins", 1, "width", 0.0)
		return &Histogram{
			bins:    []HistogramBin{{From: minV, To: maxV, Count: len(samples)}},
			summary: summary,
		}, nil
	}

	// 2. 分箱宽度
	width := (maxV - minV) / float64(nBins)
	if math.IsInf(maxV-minV, 0) || width == 0 {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "range [%v, %v] cannot be split into %d bins", minV, maxV, nBins)
	}

	// 3. 初始化 bins，最后一个上界直接取 maxV
	bins := make([]HistogramBin, nBins)
	for i := 0; i < nBins; i++ {
		bins[i] = HistogramBin{
			From: minV + float64(i)*width,
			To:   minV + float64(i+1)*width,
		}
	}
	bins[nBins-1].To = maxV

	// 量级过大时 minV+i*width 会被舍入成同一个值
	for i, b := range bins {
		if !(b.From < b.To) {
			return nil, errorx.Newf(errCode.INVALID_VALUE, "range [%v, %v] cannot be split into %d bins: bin %d is [%v, %v)", minV, maxV, nBins, i, b.From, b.To)
		}
	}

	// 4. 遍历数据并统计
	for _, v := range samples {
		bins[binIndex(v, minV, width, bins)].Count++
	}
	cfg.trace.Add("bin", "policy", cfg.policy.String(), "n_bins", nBins, "width", width)

	return &Histogram{bins: bins, summary: summary}, nil
}

// binIndex 先用 floor((v-min)/width) 估计，再按存储的边界校正，
// 保证 From <= v < To（最后一个箱 v <= To）
func binIndex(v, minV, width float64, bins []HistogramBin) int {
	nBins := len(bins)
	q := math.Floor((v - minV) / width)
	idx := nBins - 1
	if q < float64(nBins) {
		idx = int(q)
	}
	if idx < 0 {
		idx = 0
	}
	for idx < nBins-1 && v >= bins[idx].To {
		idx++
	}
	for idx > 0 && v < bins[idx].From {
		idx--
	}
	return idx
}

// Bins returns a copy of the bins in ascending order.
func (h *Histogram) Bins() []HistogramBin {
	out := make([]HistogramBin, len(h.bins))
	copy(out, h.bins)
	return out
}

func (h *Histogram) Len() int { return len(h.bins) }

func (h *Histogram) Total() int { return h.summary.N }

func (h *Histogram) Summary() Summary { return h.summary }
