package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/dataset"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Run the feature engineering pipeline",
	Long: `Run the full feature engineering pipeline over the raw shipment dataset.

Derives transit and delay day counts, compliance risk features, TF-IDF weights
for the diagnostic remarks, label-encodes categorical columns, standardizes
numeric columns, and writes the regression and classification datasets plus
feature metadata into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "prepare"))

		if raw, _ := cmd.Flags().GetString("input"); raw != "" {
			cfg.Pipeline.RawPath = raw
		}
		if out, _ := cmd.Flags().GetString("output-dir"); out != "" {
			cfg.Pipeline.OutputDir = out
		}

		log.Info("starting pipeline",
			zap.String("input", cfg.Pipeline.RawPath),
			zap.String("output_dir", cfg.Pipeline.OutputDir),
		)

		p := dataset.NewPipeline(cfg.Pipeline)
		if err := p.Run(ctx); err != nil {
			return eris.Wrap(err, "prepare")
		}

		fmt.Println("Pipeline complete")
		return nil
	},
}

func init() {
	prepareCmd.Flags().String("input", "", "raw dataset path (csv or xlsx), overrides config")
	prepareCmd.Flags().String("output-dir", "", "processed output directory, overrides config")
	rootCmd.AddCommand(prepareCmd)
}
