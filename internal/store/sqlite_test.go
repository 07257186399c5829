package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "indicators.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteUpsertAndLatest(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	n, err := s.UpsertObservations(ctx, []Observation{
		{Indicator: "LP.LPI.OVRL.XQ", CountryID: "IN", CountryName: "India", Year: 2018, Value: 3.2},
		{Indicator: "LP.LPI.OVRL.XQ", CountryID: "IN", CountryName: "India", Year: 2022, Value: 3.4},
		{Indicator: "LP.LPI.OVRL.XQ", CountryID: "DE", CountryName: "Germany", Year: 2022, Value: 4.1},
		{Indicator: "LP.LPI.CUST.XQ", CountryID: "IN", CountryName: "India", Year: 2022, Value: 3.0},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	latest, err := s.LatestByCountry(ctx, "LP.LPI.OVRL.XQ")
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "DE", latest[0].CountryID)
	assert.Equal(t, "IN", latest[1].CountryID)
	assert.Equal(t, 2022, latest[1].Year)
	assert.InDelta(t, 3.4, latest[1].Value, 1e-9)
}

func TestSQLiteUpsertOverwritesValue(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	obs := Observation{Indicator: "X", CountryID: "BR", CountryName: "Brazil", Year: 2022, Value: 1.0}
	_, err := s.UpsertObservations(ctx, []Observation{obs})
	require.NoError(t, err)

	obs.Value = 2.5
	_, err = s.UpsertObservations(ctx, []Observation{obs})
	require.NoError(t, err)

	latest, err := s.LatestByCountry(ctx, "X")
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.InDelta(t, 2.5, latest[0].Value, 1e-9)
}

func TestSQLiteUpsertEmpty(t *testing.T) {
	s := newTestSQLite(t)
	n, err := s.UpsertObservations(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteSyncLogLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	last, err := s.LastSuccess(ctx, "worldbank-lpi")
	require.NoError(t, err)
	assert.Nil(t, last)

	id, err := s.StartSync(ctx, "worldbank-lpi")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, s.CompleteSync(ctx, id, 42))

	last, err = s.LastSuccess(ctx, "worldbank-lpi")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.False(t, last.IsZero())
}

func TestSQLiteFailedSyncDoesNotCountAsSuccess(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	id, err := s.StartSync(ctx, "comtrade")
	require.NoError(t, err)
	require.NoError(t, s.FailSync(ctx, id, "http 500 from upstream"))

	last, err := s.LastSuccess(ctx, "comtrade")
	require.NoError(t, err)
	assert.Nil(t, last)
}
