package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tradeflow-cli/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the processed datasets",
	Long: `Compute descriptive statistics over the processed datasets: delay
skewness, risk class balance, feature correlations with the delay target, and
per-route delay and risk aggregates. Writes a summary CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if out, _ := cmd.Flags().GetString("output-dir"); out != "" {
			cfg.Report.OutputDir = out
		}

		r := report.NewReporter(cfg.Pipeline, cfg.Report)
		summary, err := r.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "report")
		}

		fmt.Printf("Wrote %d metrics\n", len(summary.Metrics))
		return nil
	},
}

func init() {
	reportCmd.Flags().String("output-dir", "", "report output directory, overrides config")
	rootCmd.AddCommand(reportCmd)
}
