package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow-cli/internal/config"
	"github.com/sells-group/tradeflow-cli/internal/fetcher"
	"github.com/sells-group/tradeflow-cli/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "indicators.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func newTestFetcher(t *testing.T) fetcher.Fetcher {
	t.Helper()
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 5 * time.Second, MaxRetries: 1})
}

// wbPage renders a single-page World Bank API response with the given
// country observations.
func wbPage(pages int, rows string) string {
	return fmt.Sprintf(`[{"page":1,"pages":%d,"per_page":"20000","total":0},[%s]]`, pages, rows)
}

func TestWorldBankMetadata(t *testing.T) {
	cfg := config.ScrapeConfig{WorldBankBaseURL: "http://example.invalid", PerPage: 20000}

	lpi := NewWorldBankLPI(cfg)
	assert.Equal(t, "worldbank-lpi", lpi.Name())
	assert.Equal(t, Annual, lpi.Cadence())
	assert.Len(t, lpi.indicators, 6)

	assert.Equal(t, "worldbank-tradefac", NewWorldBankTradeFac(cfg).Name())
	assert.Equal(t, "worldbank-infra", NewWorldBankInfra(cfg).Name())
}

func TestWorldBankShouldRun(t *testing.T) {
	w := NewWorldBankLPI(config.ScrapeConfig{})
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, w.ShouldRun(now, nil))

	recent := now.Add(-30 * 24 * time.Hour)
	assert.False(t, w.ShouldRun(now, &recent))

	old := now.Add(-400 * 24 * time.Hour)
	assert.True(t, w.ShouldRun(now, &old))
}

func TestFetchIndicatorSkipsAggregatesAndNulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows := `{"country":{"id":"IN","value":"India"},"date":"2022","value":3.4},
			{"country":{"id":"XD","value":"High income"},"date":"2022","value":4.0},
			{"country":{"id":"WLD","value":"World"},"date":"2022","value":3.5},
			{"country":{"id":"DE","value":"Germany"},"date":"2022","value":null},
			{"country":{"id":"BR","value":"Brazil"},"date":"","value":3.1}`
		fmt.Fprint(w, wbPage(1, rows))
	}))
	defer srv.Close()

	w := NewWorldBankLPI(config.ScrapeConfig{WorldBankBaseURL: srv.URL, PerPage: 20000})
	obs, err := w.fetchIndicator(context.Background(), newTestFetcher(t), "LP.LPI.OVRL.XQ")
	require.NoError(t, err)

	require.Len(t, obs, 1)
	assert.Equal(t, "IN", obs[0].CountryID)
	assert.Equal(t, "India", obs[0].CountryName)
	assert.Equal(t, 2022, obs[0].Year)
	assert.Equal(t, 3.4, obs[0].Value)
}

func TestFetchIndicatorPaginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, wbPage(2, `{"country":{"id":"IN","value":"India"},"date":"2018","value":3.1}`))
		case "2":
			fmt.Fprint(w, wbPage(2, `{"country":{"id":"IN","value":"India"},"date":"2022","value":3.4}`))
		default:
			http.Error(w, "unexpected page", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	w := NewWorldBankLPI(config.ScrapeConfig{WorldBankBaseURL: srv.URL, PerPage: 20000})
	obs, err := w.fetchIndicator(context.Background(), newTestFetcher(t), "LP.LPI.OVRL.XQ")
	require.NoError(t, err)
	require.Len(t, obs, 2)
}

func TestLatestByCountry(t *testing.T) {
	obs := []store.Observation{
		{CountryID: "IN", Year: 2018, Value: 3.1},
		{CountryID: "IN", Year: 2022, Value: 3.4},
		{CountryID: "DE", Year: 2022, Value: 4.1},
		{CountryID: "IN", Year: 2014, Value: 3.0},
	}

	latest := latestByCountry(obs)
	require.Len(t, latest, 2)
	assert.Equal(t, "IN", latest[0].CountryID)
	assert.Equal(t, 2022, latest[0].Year)
	assert.Equal(t, 3.4, latest[0].Value)
	assert.Equal(t, "DE", latest[1].CountryID)
}

func TestWorldBankSyncUpserts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wbPage(1, `{"country":{"id":"IN","value":"India"},"date":"2022","value":3.4}`))
	}))
	defer srv.Close()

	st := newTestStore(t)
	w := NewWorldBankTradeFac(config.ScrapeConfig{WorldBankBaseURL: srv.URL, PerPage: 20000})

	result, err := w.Sync(context.Background(), st, newTestFetcher(t))
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.RowsSynced) // one country for each of two indicators

	obs, err := st.LatestByCountry(context.Background(), "IC.CUS.DURS")
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "IN", obs[0].CountryID)
}

func TestWorldBankSyncFailsOnFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	st := newTestStore(t)
	w := NewWorldBankLPI(config.ScrapeConfig{WorldBankBaseURL: srv.URL, PerPage: 20000})

	_, err := w.Sync(context.Background(), st, newTestFetcher(t))
	require.Error(t, err)

	// nothing persisted from the failed run
	obs, err := st.LatestByCountry(context.Background(), "LP.LPI.OVRL.XQ")
	require.NoError(t, err)
	assert.Empty(t, obs)
}
