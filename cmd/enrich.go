package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/enrich"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Join LPI indicator columns onto the raw dataset",
	Long: `Join World Bank Logistics Performance Index columns onto the raw shipment
dataset by origin and destination country.

Adds six LPI columns per endpoint plus route-level aggregates. The raw file is
backed up first, the join is validated for completeness, and the enriched
dataset replaces the raw file only after validation passes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "enrich"))

		if lpi, _ := cmd.Flags().GetString("lpi"); lpi != "" {
			cfg.Enrich.LPIPath = lpi
		}

		log.Info("starting enrichment",
			zap.String("raw", cfg.Enrich.RawPath),
			zap.String("lpi", cfg.Enrich.LPIPath),
			zap.Int("year", cfg.Enrich.Year),
		)

		e := enrich.New(cfg.Enrich)
		if err := e.Run(ctx); err != nil {
			return eris.Wrap(err, "enrich")
		}

		fmt.Println("Enrichment complete")
		return nil
	},
}

func init() {
	enrichCmd.Flags().String("lpi", "", "LPI lookup CSV path, overrides config")
	rootCmd.AddCommand(enrichCmd)
}
