package hist

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

const (
	DEFAULT_SYMBOL             = "|"
	DEFAULT_DENSITY_PER_SYMBOL = 0.005 // 每 0.5% 的样本画一个符号
	DEFAULT_LABEL_PLACES       = 2

	// MAX_BAR_SYMBOLS 一个箱最多画的符号数，密度为 1 时 1/DensityPerSymbol 不能超过它
	MAX_BAR_SYMBOLS = 100_000
)

type RenderOptions struct {
	Symbol           string
	DensityPerSymbol float64
	LabelPlaces      int
	Trace            *trace.Log
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Symbol:           DEFAULT_SYMBOL,
		DensityPerSymbol: DEFAULT_DENSITY_PER_SYMBOL,
		LabelPlaces:      DEFAULT_LABEL_PLACES,
	}
}

func (o RenderOptions) validate() error {
	if o.LabelPlaces <= 0 {
		return errorx.Newf(errCode.INVALID_VALUE, "label places must be a positive integer, got %d", o.LabelPlaces)
	}
	if o.Symbol == "" {
		return errorx.New(errCode.INVALID_VALUE, "draw symbol is empty")
	}
	if !(o.DensityPerSymbol > 0) || math.IsInf(o.DensityPerSymbol, 0) {
		return errorx.Newf(errCode.INVALID_VALUE, "density per symbol must be > 0, got %v", o.DensityPerSymbol)
	}
	if 1/o.DensityPerSymbol > MAX_BAR_SYMBOLS {
		return errorx.Newf(errCode.INVALID_VALUE, "density per symbol %v would draw more than %d symbols per bin", o.DensityPerSymbol, MAX_BAR_SYMBOLS)
	}
	return nil
}

// Render draws one line per bin, each line starting with "\n".
// Labels are rounded for display only.
func (h *Histogram) Render(opts RenderOptions) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	labelWidth := max(intLabelLen(h.summary.Min), intLabelLen(h.summary.Max)) + opts.LabelPlaces + 1
	total := float64(h.summary.N)

	var sb strings.Builder
	for i, b := range h.bins {
		closing := ")"
		if i == len(h.bins)-1 {
			closing = "]"
		}
		density := float64(b.Count) / total
		nSymbols := int(min(math.Floor(density/opts.DensityPerSymbol), MAX_BAR_SYMBOLS))

		fmt.Fprintf(&sb, "\n[%*s, %*s%s %s",
			labelWidth, formatLabel(b.From, opts.LabelPlaces),
			labelWidth, formatLabel(b.To, opts.LabelPlaces),
			closing,
			strings.Repeat(opts.Symbol, nSymbols),
		)
	}
	opts.Trace.Add("render", "lines", len(h.bins), "label_width", labelWidth, "density_per_symbol", opts.DensityPerSymbol)

	return sb.String(), nil
}

// Draw 分箱并渲染
func Draw(samples []float64, nBins int, opts RenderOptions, buildOpts ...BuildOption) (string, error) {
	// 先校验渲染参数，避免做完分箱才报错
	if err := opts.validate(); err != nil {
		return "", err
	}
	if opts.Trace != nil {
		buildOpts = append(buildOpts, WithTrace(opts.Trace))
	}
	h, err := Build(samples, nBins, buildOpts...)
	if err != nil {
		return "", err
	}
	return h.Render(opts)
}

// 整数部分位数（含负号），四舍六入五成双
func intLabelLen(v float64) int {
	r := math.RoundToEven(v)
	if r == 0 {
		r = 0 // -0 -> 0
	}
	return len(strconv.FormatFloat(r, 'f', 0, 64))
}

// formatLabel 保留 places 位小数后取最短表示，至少保留一位小数: 5.50 -> "5.5", 10 -> "10.0"
func formatLabel(v float64, places int) string {
	s := strconv.FormatFloat(v, 'f', places, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
