package scraper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow-cli/internal/store"
)

func TestExportLPIWritesCombinedCSV(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.UpsertObservations(ctx, []store.Observation{
		{Indicator: "LP.LPI.OVRL.XQ", CountryID: "IN", CountryName: "India", Year: 2022, Value: 3.4},
		{Indicator: "LP.LPI.CUST.XQ", CountryID: "IN", CountryName: "India", Year: 2022, Value: 3.0},
		{Indicator: "LP.LPI.OVRL.XQ", CountryID: "DE", CountryName: "Germany", Year: 2022, Value: 4.1},
	})
	require.NoError(t, err)

	outDir := t.TempDir()
	path, err := ExportLPI(ctx, st, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, LPIExportFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content,
		"country_id,country_name,year,LPI_Overall,LPI_Customs,LPI_Infrastructure,LPI_Logistics,LPI_Tracking,LPI_Timeliness")
	assert.Contains(t, content, "IN,India,2022,3.4,3,,,,")
	// Germany has only the overall score; the other cells stay empty
	assert.Contains(t, content, "DE,Germany,2022,4.1,,,,,")
}

func TestExportLPIEmptyStore(t *testing.T) {
	st := newTestStore(t)

	_, err := ExportLPI(context.Background(), st, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LPI observations")
}
