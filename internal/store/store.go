// Package store persists indicator observations scraped from the public
// statistics APIs, plus the sync log that schedules scraper runs.
package store

import (
	"context"
	"time"
)

// Observation is one indicator value for one country and year.
type Observation struct {
	Indicator   string
	CountryID   string
	CountryName string
	Year        int
	Value       float64
}

// Sync run status values.
const (
	SyncRunning   = "running"
	SyncCompleted = "completed"
	SyncFailed    = "failed"
)

// Store defines the persistence interface for the indicator scrapers.
type Store interface {
	// Observations
	UpsertObservations(ctx context.Context, obs []Observation) (int64, error)
	LatestByCountry(ctx context.Context, indicator string) ([]Observation, error)

	// Sync log
	StartSync(ctx context.Context, scraper string) (string, error)
	CompleteSync(ctx context.Context, syncID string, rows int64) error
	FailSync(ctx context.Context, syncID string, message string) error
	LastSuccess(ctx context.Context, scraper string) (*time.Time, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
