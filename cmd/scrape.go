package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/fetcher"
	"github.com/sells-group/tradeflow-cli/internal/scraper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Sync logistics indicators from public APIs",
	Long: `Sync logistics and trade indicators into the observation store.

By default, runs every scraper whose last successful sync is older than its
cadence. Use --scrapers to restrict to specific scrapers and --force to ignore
the schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "scrape"))

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "scrape: open store")
		}
		defer st.Close()

		opts := scraper.RunOpts{}
		if names, _ := cmd.Flags().GetString("scrapers"); names != "" {
			opts.Scrapers = strings.Split(names, ",")
		}
		opts.Force, _ = cmd.Flags().GetBool("force")

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout:      time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
			MaxRetries:   cfg.Scrape.MaxRetries,
			RateLimiters: fetcher.DefaultRateLimiters(),
		})

		reg := scraper.NewRegistry(cfg.Scrape)
		engine := scraper.NewEngine(st, f, reg, cfg.Scrape.Concurrency)

		log.Info("starting scrape",
			zap.Strings("scrapers", opts.Scrapers),
			zap.Bool("force", opts.Force),
		)

		if err := engine.Run(ctx, opts); err != nil {
			return eris.Wrap(err, "scrape")
		}

		fmt.Println("Scrape complete")
		return nil
	},
}

func init() {
	scrapeCmd.Flags().String("scrapers", "", "comma-separated scraper names (e.g., worldbank-lpi,comtrade)")
	scrapeCmd.Flags().Bool("force", false, "ignore cadence scheduling")
	rootCmd.AddCommand(scrapeCmd)
}
