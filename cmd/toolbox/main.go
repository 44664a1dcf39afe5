// Command toolbox exposes the toolbox packages on the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"toolbox/config"
	"toolbox/infra/logx"
	"toolbox/infra/trace"
)

var (
	cfgPath  string
	logLevel string

	cfg    = config.Default()
	logger = logx.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "toolbox",
	Short: "A grab bag of text, statistics and scraping helpers",
	Long: `toolbox bundles small independent helpers:

  hist      draw a text density histogram of numbers
  clean     run string-cleaning pipelines
  classify  score text with regex rules
  match     find word runs shared between texts
  view      print the shape of a nested YAML document
  bayes     beta-binomial conjugate update
  ddg       DuckDuckGo lite search
  linkedin  fetch public LinkedIn pages through a headless browser`,
	SilenceUsage:      true,
	SilenceErrors:     true, // main 统一输出错误
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(histCmd, cleanCmd, classifyCmd, matchCmd, viewCmd, bayesCmd, ddgCmd, linkedinCmd)
}

// setup 加载配置并初始化日志
func setup(cmd *cobra.Command, _ []string) error {
	if cfgPath != "" {
		if err := config.Init(cfgPath); err != nil {
			return err
		}
	}
	cfg = config.Get()

	opts := logx.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
	if logLevel != "" {
		opts.Level = logLevel
	}
	l, err := logx.New(opts)
	if err != nil {
		return err
	}
	logger = l
	logger.WithField("command", cmd.Name()).Debug("start")
	return nil
}

func emit(tr *trace.Log, command string) {
	tr.Emit(logger.WithField("command", command))
}

func main() {
	// Ctrl-C 取消正在进行的请求和浏览器操作
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.WithError(err).Debug("command failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

