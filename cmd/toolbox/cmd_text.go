package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
	"toolbox/text/rulesClf"
	"toolbox/text/strClean"
	"toolbox/text/textMatch"
)

// ---------------- clean ----------------

var cleanFlags struct {
	ops        []string
	words      []string
	boundaries bool
	pipeline   string
	list       bool
}

var cleanCmd = &cobra.Command{
	Use:     "clean [text...]",
	Short:   "Apply string-cleaning operations to text from args or stdin (one line at a time)",
	Example: `  toolbox clean --op to_lowercase --op remove_punctuation "J!o@e IS #1"
  toolbox clean --op remove_specific_words --words NOT --words . "j.o.e is NOT here"
  toolbox clean --pipeline basic < input.txt`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringArrayVar(&cleanFlags.ops, "op", nil, "operation to apply, repeatable, applied in order")
	cleanCmd.Flags().StringArrayVar(&cleanFlags.words, "words", nil, "words removed by remove_specific_words")
	cleanCmd.Flags().BoolVar(&cleanFlags.boundaries, "word-boundaries", false, "remove_specific_words only removes whole words")
	cleanCmd.Flags().StringVar(&cleanFlags.pipeline, "pipeline", "", "named pipeline from the config file, runs before --op")
	cleanCmd.Flags().BoolVar(&cleanFlags.list, "list", false, "list the available operations")
}

func cleanOps() ([]strClean.Op, error) {
	var ops []strClean.Op
	if cleanFlags.pipeline != "" {
		steps, ok := cfg.Cleaner(cleanFlags.pipeline)
		if !ok {
			return nil, errorx.Newf(errCode.NOT_FOUND, "no cleaner pipeline named %q", cleanFlags.pipeline)
		}
		for _, s := range steps {
			op, err := strClean.ParseOp(s.Op, s.Words)
			if err != nil {
				return nil, err
			}
			ops = append(ops, wordBoundaries(op, s.WordBoundaries))
		}
	}
	for _, name := range cleanFlags.ops {
		op, err := strClean.ParseOp(name, cleanFlags.words)
		if err != nil {
			return nil, err
		}
		ops = append(ops, wordBoundaries(op, cleanFlags.boundaries))
	}
	if len(ops) == 0 {
		return nil, errorx.New(errCode.INVALID_VALUE, "no operations given, use --op or --pipeline")
	}
	return ops, nil
}

func wordBoundaries(op strClean.Op, on bool) strClean.Op {
	if rw, ok := op.(strClean.RemoveSpecificWords); ok {
		rw.WordBoundaries = on
		return rw
	}
	return op
}

func runClean(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if cleanFlags.list {
		for _, k := range strClean.Kinds() {
			fmt.Fprintln(out, k)
		}
		return nil
	}

	ops, err := cleanOps()
	if err != nil {
		return err
	}
	lines, err := textInput(cmd, args)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, strClean.Apply(line, ops...))
	}
	logger.WithField("ops", len(ops)).WithField("lines", len(lines)).Debug("clean done")
	return nil
}

// textInput 有参数时把参数拼成一行，否则按行读 stdin
func textInput(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}
	return readLines(cmd.InOrStdin())
}

// ---------------- classify ----------------

var classifyFlags struct {
	rulesFile string
	ties      string
	proba     bool
	workers   int
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Label text with weighted regex rules",
	Long: `Rules come from --rules (a YAML list) or the "rules" section of the config:

  - pattern: '\bmen'
    scores: {mens: 10}
  - pattern: '\bgirls?\b'
    scores: {ladies: 5, childrens: 5}`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFlags.rulesFile, "rules", "r", "", "YAML file with the rules")
	classifyCmd.Flags().StringVar(&classifyFlags.ties, "ties", rulesClf.TIE_FIRST.String(), "tie handling: first, all or random")
	classifyCmd.Flags().BoolVar(&classifyFlags.proba, "proba", false, "print normalised scores instead of labels")
	classifyCmd.Flags().IntVar(&classifyFlags.workers, "workers", 4, "parallel workers for stdin batches")
}

func loadRules() ([]rulesClf.Rule, error) {
	if classifyFlags.rulesFile != "" {
		b, err := os.ReadFile(classifyFlags.rulesFile)
		if err != nil {
			return nil, errorx.Wrap(errorx.Newf(errCode.IO_FAILURE, "%v", err), "read rules")
		}
		var rules []rulesClf.Rule
		if err := yaml.Unmarshal(b, &rules); err != nil {
			return nil, errorx.Wrap(errorx.Newf(errCode.INVALID_VALUE, "%v", err), "parse rules")
		}
		return rules, nil
	}
	rules := make([]rulesClf.Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, rulesClf.Rule{Pattern: r.Pattern, Scores: r.Scores})
	}
	if len(rules) == 0 {
		return nil, errorx.New(errCode.EMPTY_VALUE, "no rules: pass --rules or add a rules section to the config")
	}
	return rules, nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	mode, err := rulesClf.ParseTieMode(classifyFlags.ties)
	if err != nil {
		return err
	}
	rules, err := loadRules()
	if err != nil {
		return err
	}
	tr := trace.New()
	defer emit(tr, "classify")
	clf, err := rulesClf.New(rules, tr)
	if err != nil {
		return err
	}
	texts, err := textInput(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if classifyFlags.proba {
		for _, text := range texts {
			scores, err := clf.Proba(text)
			if err != nil {
				fmt.Fprintf(out, "%s\t-\n", text)
				continue
			}
			parts := make([]string, len(scores))
			for i, s := range scores {
				parts[i] = fmt.Sprintf("%s=%.4g", s.Label, s.Score)
			}
			fmt.Fprintf(out, "%s\t%s\n", text, strings.Join(parts, " "))
		}
		return nil
	}

	var labels [][]string
	if mode == rulesClf.TIE_RANDOM {
		for _, text := range texts {
			l, err := clf.Predict(text, mode)
			if err != nil {
				return err
			}
			labels = append(labels, l)
		}
	} else {
		labels, err = clf.PredictBatch(cmd.Context(), texts, mode, classifyFlags.workers)
		if err != nil {
			return err
		}
	}
	for i, text := range texts {
		fmt.Fprintf(out, "%s\t%s\n", text, strings.Join(labels[i], ","))
	}
	return nil
}

// ---------------- match ----------------

var matchFlags struct {
	n int
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find word sequences shared between texts",
}

var matchRunsCmd = &cobra.Command{
	Use:   "runs <ref-file> <lookup-file>",
	Short: "List the longest word runs of the lookup text that also appear in the reference text",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := readFile(args[0])
		if err != nil {
			return err
		}
		lookup, err := readFile(args[1])
		if err != nil {
			return err
		}
		tr := trace.New()
		defer emit(tr, "match runs")
		runs, err := textMatch.SharedRuns(ref, lookup, matchFlags.n, tr)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
		return nil
	},
}

var matchPhraseCmd = &cobra.Command{
	Use:   "phrase <phrase> <search>",
	Short: "Print the longest part of a phrase found in a search string",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		got, err := textMatch.LongestPhrasePortion(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), got)
		return nil
	},
}

func init() {
	matchRunsCmd.Flags().IntVarP(&matchFlags.n, "top", "n", 10, "number of runs to print")
	matchCmd.AddCommand(matchRunsCmd, matchPhraseCmd)
}
