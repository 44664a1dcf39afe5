package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"toolbox/concurrency/parallel"
	"toolbox/infra/trace"
	"toolbox/web/ddgSearch"
	"toolbox/web/linkedin"
)

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// ---------------- ddg ----------------

var ddgFlags struct {
	site   string
	pages  int
	region string
	asJSON bool
}

var ddgCmd = &cobra.Command{
	Use:     "ddg <query...>",
	Short:   "Search DuckDuckGo lite and print the hits",
	Example: `  toolbox ddg --site https://www.linkedin.com/in --pages 2 "data engineer"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region := cfg.DDG.Region
		if cmd.Flags().Changed("region") {
			region = ddgFlags.region
		}
		client := ddgSearch.NewClient(
			ddgSearch.WithHTTPClient(&http.Client{Timeout: secs(cfg.DDG.TimeoutSecs)}),
			ddgSearch.WithBaseURL(cfg.DDG.BaseURL),
			ddgSearch.WithUserAgent(cfg.DDG.UserAgent),
			ddgSearch.WithRegion(region),
			ddgSearch.WithWait(secs(cfg.DDG.WaitMinSecs), secs(cfg.DDG.WaitMaxSecs)),
		)

		tr := trace.New()
		defer emit(tr, "ddg")
		res, err := client.Search(cmd.Context(), ddgSearch.Query{
			Text:  strings.Join(args, " "),
			Site:  ddgFlags.site,
			Pages: ddgFlags.pages,
		}, tr)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if ddgFlags.asJSON {
			b, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		for _, h := range res.Hits {
			fmt.Fprintf(out, "%d\t%s\t%s\n", h.Page, h.Title, h.Link)
		}
		logger.WithField("pages", len(res.Pages)).WithField("hits", len(res.Hits)).Info("ddg search done")
		return nil
	},
}

// ---------------- linkedin ----------------

var linkedinFlags struct {
	workers int
}

var linkedinCmd = &cobra.Command{
	Use:   "linkedin <url...>",
	Short: "Fetch public LinkedIn pages and print their HTML length",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := cfg.LinkedIn.Workers
		if cmd.Flags().Changed("workers") {
			workers = linkedinFlags.workers
		}
		v := linkedin.NewViewer(cfg.LinkedIn.Headless, secs(cfg.LinkedIn.PauseSecs), cfg.LinkedIn.VerifyPopupClosed)
		v.FindTimeout = secs(cfg.LinkedIn.FindTimeoutSecs)

		// 每个页面单独一份 trace，避免并发写同一个 Log
		type viewed struct {
			html string
			tr   *trace.Log
		}
		pages, err := parallel.Map(cmd.Context(), args, func(ctx context.Context, target string) (viewed, error) {
			tr := trace.New()
			html, err := v.View(ctx, target, tr)
			return viewed{html: html, tr: tr}, err
		}, parallel.Options{MaxWorkers: workers})
		if err != nil {
			return err
		}
		for i, p := range pages {
			emit(p.tr, "linkedin")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", args[i], len(p.html))
		}
		return nil
	},
}

func init() {
	ddgCmd.Flags().StringVar(&ddgFlags.site, "site", "", "restrict results to this site prefix")
	ddgCmd.Flags().IntVar(&ddgFlags.pages, "pages", 1, "number of result pages to fetch")
	ddgCmd.Flags().StringVar(&ddgFlags.region, "region", "", "DuckDuckGo region code, e.g. us-en")
	ddgCmd.Flags().BoolVar(&ddgFlags.asJSON, "json", false, "print the full result as JSON")

	linkedinCmd.Flags().IntVar(&linkedinFlags.workers, "workers", 1, "pages fetched at the same time")
}
