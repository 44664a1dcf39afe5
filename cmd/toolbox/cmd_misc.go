package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbox/stats/bayes"
	"toolbox/structView"
)

var viewFlags struct {
	tab     int
	preview int
}

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Print the key tree of a YAML document with short value previews",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc []byte
		if len(args) == 1 {
			s, err := readFile(args[0])
			if err != nil {
				return err
			}
			doc = []byte(s)
		} else {
			lines, err := readLines(cmd.InOrStdin())
			if err != nil {
				return err
			}
			for _, l := range lines {
				doc = append(doc, l...)
				doc = append(doc, '\n')
			}
		}
		out, err := structView.RenderYAML(doc, structView.Options{TabWidth: viewFlags.tab, PreviewLen: viewFlags.preview})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var bayesFlags struct {
	a, b      float64
	successes int
	trials    int
	level     float64
}

var bayesCmd = &cobra.Command{
	Use:     "bayes",
	Short:   "Update a Beta prior with binomial data and print the posterior",
	Example: `  toolbox bayes --a 1 --b 1 --successes 7 --trials 10 --level 0.9`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := bayes.ConjugateBetaBinomial(bayesFlags.a, bayesFlags.b, bayesFlags.successes, bayesFlags.trials)
		if err != nil {
			return err
		}
		lo, hi, err := p.CredibleInterval(bayesFlags.level)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "posterior Beta(%g, %g) mean=%.6g %.4g%% interval=[%.6g, %.6g]\n",
			p.A, p.B, p.Mean(), bayesFlags.level*100, lo, hi)
		return nil
	},
}

func init() {
	d := structView.DefaultOptions()
	viewCmd.Flags().IntVar(&viewFlags.tab, "tab", d.TabWidth, "spaces per nesting level")
	viewCmd.Flags().IntVar(&viewFlags.preview, "preview", d.PreviewLen, "characters of each value to show")

	bayesCmd.Flags().Float64Var(&bayesFlags.a, "a", 1, "prior alpha")
	bayesCmd.Flags().Float64Var(&bayesFlags.b, "b", 1, "prior beta")
	bayesCmd.Flags().IntVar(&bayesFlags.successes, "successes", 0, "observed successes")
	bayesCmd.Flags().IntVar(&bayesFlags.trials, "trials", 0, "observed trials")
	bayesCmd.Flags().Float64Var(&bayesFlags.level, "level", 0.95, "credible interval mass")
}
