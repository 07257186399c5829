// Package scraper syncs logistics and trade indicators from public
// statistics APIs into the observation store.
package scraper

import (
	"context"
	"time"

	"github.com/sells-group/tradeflow-cli/internal/fetcher"
	"github.com/sells-group/tradeflow-cli/internal/store"
)

// Cadence describes how often an indicator source publishes new data.
type Cadence string

const (
	Monthly Cadence = "monthly"
	Annual  Cadence = "annual"
)

// interval returns the minimum gap between syncs for a cadence.
func (c Cadence) interval() time.Duration {
	switch c {
	case Monthly:
		return 30 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}

// SyncResult holds the outcome of one scraper run.
type SyncResult struct {
	RowsSynced int64
	Metadata   map[string]any
}

// IndicatorScraper defines the interface each indicator source implements.
type IndicatorScraper interface {
	// Name returns the unique identifier for this scraper (e.g., "worldbank-lpi").
	Name() string

	// Cadence returns how often the upstream source is refreshed.
	Cadence() Cadence

	// ShouldRun decides if this scraper needs syncing given the current time
	// and the time of the last successful sync (nil if never synced).
	ShouldRun(now time.Time, lastSync *time.Time) bool

	// Sync downloads observations from the source and upserts them into the store.
	Sync(ctx context.Context, st store.Store, f fetcher.Fetcher) (*SyncResult, error)
}
