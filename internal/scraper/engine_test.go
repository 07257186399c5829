package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow-cli/internal/config"
	"github.com/sells-group/tradeflow-cli/internal/fetcher"
	"github.com/sells-group/tradeflow-cli/internal/store"
)

// stubScraper is a controllable IndicatorScraper for engine tests.
type stubScraper struct {
	name string
	due  bool
	fail bool
	rows int64
	runs int
}

func (s *stubScraper) Name() string     { return s.name }
func (s *stubScraper) Cadence() Cadence { return Annual }

func (s *stubScraper) ShouldRun(_ time.Time, lastSync *time.Time) bool {
	return s.due || lastSync == nil
}

func (s *stubScraper) Sync(_ context.Context, _ store.Store, _ fetcher.Fetcher) (*SyncResult, error) {
	s.runs++
	if s.fail {
		return nil, eris.New("upstream unavailable")
	}
	return &SyncResult{RowsSynced: s.rows}, nil
}

func newStubRegistry(scrapers ...IndicatorScraper) *Registry {
	r := &Registry{scrapers: make(map[string]IndicatorScraper)}
	for _, s := range scrapers {
		r.Register(s)
	}
	return r
}

func TestEngineRunRecordsSuccess(t *testing.T) {
	st := newTestStore(t)
	sc := &stubScraper{name: "stub", rows: 42}
	e := NewEngine(st, newTestFetcher(t), newStubRegistry(sc), 2)

	require.NoError(t, e.Run(context.Background(), RunOpts{}))
	assert.Equal(t, 1, sc.runs)

	last, err := st.LastSuccess(context.Background(), "stub")
	require.NoError(t, err)
	assert.NotNil(t, last)
}

func TestEngineRunFailureDoesNotAbortSiblings(t *testing.T) {
	st := newTestStore(t)
	bad := &stubScraper{name: "bad", fail: true}
	good := &stubScraper{name: "good", rows: 7}
	e := NewEngine(st, newTestFetcher(t), newStubRegistry(bad, good), 1)

	err := e.Run(context.Background(), RunOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 scraper(s) failed")

	// the sibling still ran and its success was recorded
	assert.Equal(t, 1, good.runs)
	last, err := st.LastSuccess(context.Background(), "good")
	require.NoError(t, err)
	assert.NotNil(t, last)

	// the failed scraper has no successful sync
	last, err = st.LastSuccess(context.Background(), "bad")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestEngineSkipsWhenNotDue(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// record a prior success so lastSync is non-nil
	id, err := st.StartSync(ctx, "stub")
	require.NoError(t, err)
	require.NoError(t, st.CompleteSync(ctx, id, 1))

	sc := &stubScraper{name: "stub", due: false}
	e := NewEngine(st, newTestFetcher(t), newStubRegistry(sc), 2)

	require.NoError(t, e.Run(ctx, RunOpts{}))
	assert.Equal(t, 0, sc.runs)
}

func TestEngineForceIgnoresSchedule(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.StartSync(ctx, "stub")
	require.NoError(t, err)
	require.NoError(t, st.CompleteSync(ctx, id, 1))

	sc := &stubScraper{name: "stub", due: false}
	e := NewEngine(st, newTestFetcher(t), newStubRegistry(sc), 2)

	require.NoError(t, e.Run(ctx, RunOpts{Force: true}))
	assert.Equal(t, 1, sc.runs)
}

func TestEngineSelectUnknownScraper(t *testing.T) {
	st := newTestStore(t)
	e := NewEngine(st, newTestFetcher(t), newStubRegistry(&stubScraper{name: "stub"}), 2)

	err := e.Run(context.Background(), RunOpts{Scrapers: []string{"nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scraper "nope"`)
}

func TestRegistryOrderAndSelect(t *testing.T) {
	reg := NewRegistry(config.ScrapeConfig{})
	assert.Equal(t,
		[]string{"worldbank-lpi", "worldbank-tradefac", "worldbank-infra", "comtrade"},
		reg.AllNames())

	selected, err := reg.Select([]string{"comtrade"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "comtrade", selected[0].Name())

	all, err := reg.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
