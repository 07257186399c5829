package scraper

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/store"
)

// LPIExportFile is the CSV the enrichment step consumes.
const LPIExportFile = "worldbank_lpi_simple.csv"

// lpiExportRow is one country row of the LPI export CSV. Pointer fields
// leave the cell empty when a country lacks that indicator.
type lpiExportRow struct {
	CountryID      string   `csv:"country_id"`
	CountryName    string   `csv:"country_name"`
	Year           int      `csv:"year"`
	Overall        *float64 `csv:"LPI_Overall"`
	Customs        *float64 `csv:"LPI_Customs"`
	Infrastructure *float64 `csv:"LPI_Infrastructure"`
	Logistics      *float64 `csv:"LPI_Logistics"`
	Tracking       *float64 `csv:"LPI_Tracking"`
	Timeliness     *float64 `csv:"LPI_Timeliness"`
}

func (r *lpiExportRow) set(indicator string, value float64) {
	v := value
	switch indicator {
	case "LP.LPI.OVRL.XQ":
		r.Overall = &v
	case "LP.LPI.CUST.XQ":
		r.Customs = &v
	case "LP.LPI.INFR.XQ":
		r.Infrastructure = &v
	case "LP.LPI.LOGS.XQ":
		r.Logistics = &v
	case "LP.LPI.TRAC.XQ":
		r.Tracking = &v
	case "LP.LPI.TIME.XQ":
		r.Timeliness = &v
	}
}

// ExportLPI materializes the combined LPI CSV from the store's latest-year
// observations, one row per country, six indicator columns.
func ExportLPI(ctx context.Context, st store.Store, outDir string) (string, error) {
	log := zap.L().With(zap.String("component", "scraper.export"))

	combined := make(map[string]*lpiExportRow)
	var order []string

	for _, code := range LPIIndicatorOrder {
		obs, err := st.LatestByCountry(ctx, code)
		if err != nil {
			return "", eris.Wrapf(err, "export: read %s", code)
		}
		for _, o := range obs {
			row, ok := combined[o.CountryID]
			if !ok {
				row = &lpiExportRow{
					CountryID:   o.CountryID,
					CountryName: o.CountryName,
					Year:        o.Year,
				}
				combined[o.CountryID] = row
				order = append(order, o.CountryID)
			}
			row.set(code, o.Value)
		}
	}

	if len(order) == 0 {
		return "", eris.New("export: no LPI observations in store, run the scrapers first")
	}

	rows := make([]lpiExportRow, 0, len(order))
	for _, cid := range order {
		rows = append(rows, *combined[cid])
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return "", eris.Wrap(err, "export: marshal rows")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create output dir %s", outDir)
	}
	outPath := filepath.Join(outDir, LPIExportFile)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "export: write %s", outPath)
	}

	log.Info("LPI export written",
		zap.String("path", outPath),
		zap.Int("countries", len(rows)),
	)
	return outPath, nil
}
