package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tradeflow-cli/internal/scraper"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Materialize the LPI lookup CSV from the store",
	Long: `Write the combined LPI indicator CSV from the store's latest-year
observations. This is the lookup file the enrich command consumes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "export: open store")
		}
		defer st.Close()

		outDir, _ := cmd.Flags().GetString("output-dir")
		if outDir == "" {
			outDir = filepath.Dir(cfg.Enrich.LPIPath)
		}

		path, err := scraper.ExportLPI(ctx, st, outDir)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output-dir", "", "export directory, defaults to the enrich LPI path directory")
	rootCmd.AddCommand(exportCmd)
}
