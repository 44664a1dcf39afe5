package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
	"toolbox/stats/hist"
)

var histFlags struct {
	bins        int
	symbol      string
	density     float64
	places      int
	degenerate  string
	showSummary bool
}

var histCmd = &cobra.Command{
	Use:   "hist [file...]",
	Short: "Draw a text density histogram of numbers read from files or stdin",
	Long: `Reads numbers separated by whitespace or commas and prints one line per bin:

  [  1.0,   5.5) ||||||||||
  [  5.5,  10.0] ||||||||||

Each symbol stands for --density of the samples (0.005 = 0.5%).`,
	RunE: runHist,
}

func init() {
	d := cfg.Histogram
	histCmd.Flags().IntVarP(&histFlags.bins, "bins", "b", d.Bins, "number of bins")
	histCmd.Flags().StringVar(&histFlags.symbol, "symbol", d.Symbol, "bar symbol")
	histCmd.Flags().Float64Var(&histFlags.density, "density", d.DensityPerSymbol, "sample share drawn by one symbol")
	histCmd.Flags().IntVar(&histFlags.places, "places", d.LabelPlaces, "decimal places of bin labels")
	histCmd.Flags().StringVar(&histFlags.degenerate, "degenerate", d.Degenerate, "when all samples are equal: reject or single_bin")
	histCmd.Flags().BoolVar(&histFlags.showSummary, "summary", false, "print n/min/max/mean/stddev after the chart")
}

// 未显式传入的参数取配置文件中的值
func histSettings(cmd *cobra.Command) (int, hist.RenderOptions, hist.DegeneratePolicy, error) {
	f := cmd.Flags()
	c := cfg.Histogram
	if !f.Changed("bins") {
		histFlags.bins = c.Bins
	}
	if !f.Changed("symbol") {
		histFlags.symbol = c.Symbol
	}
	if !f.Changed("density") {
		histFlags.density = c.DensityPerSymbol
	}
	if !f.Changed("places") {
		histFlags.places = c.LabelPlaces
	}
	if !f.Changed("degenerate") {
		histFlags.degenerate = c.Degenerate
	}

	var policy hist.DegeneratePolicy
	switch histFlags.degenerate {
	case hist.DEGENERATE_REJECT.String():
		policy = hist.DEGENERATE_REJECT
	case hist.DEGENERATE_SINGLE_BIN.String():
		policy = hist.DEGENERATE_SINGLE_BIN
	default:
		return 0, hist.RenderOptions{}, 0, errorx.Newf(errCode.INVALID_VALUE, "--degenerate must be reject or single_bin: %q", histFlags.degenerate)
	}

	opts := hist.RenderOptions{
		Symbol:           histFlags.symbol,
		DensityPerSymbol: histFlags.density,
		LabelPlaces:      histFlags.places,
	}
	return histFlags.bins, opts, policy, nil
}

func runHist(cmd *cobra.Command, args []string) error {
	nBins, opts, policy, err := histSettings(cmd)
	if err != nil {
		return err
	}

	var samples []float64
	if len(args) == 0 {
		samples, err = parseNumbers(cmd.InOrStdin())
	} else {
		samples, err = readNumberFiles(cmd.Context(), args)
	}
	if err != nil {
		return err
	}

	tr := trace.New()
	opts.Trace = tr
	defer emit(tr, "hist")

	h, err := hist.Build(samples, nBins, hist.WithDegeneratePolicy(policy), hist.WithTrace(tr))
	if err != nil {
		return err
	}
	out, err := h.Render(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	if histFlags.showSummary {
		s := h.Summary()
		fmt.Fprintf(cmd.OutOrStdout(), "n=%d min=%g max=%g mean=%g stddev=%g\n", s.N, s.Min, s.Max, s.Mean, s.StdDev)
	}
	return nil
}
