package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock's pool
// interface satisfies it for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS observations (
	indicator    TEXT NOT NULL,
	country_id   TEXT NOT NULL,
	country_name TEXT NOT NULL,
	year         INTEGER NOT NULL,
	value        DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (indicator, country_id, year)
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id          TEXT PRIMARY KEY,
	scraper     TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	rows_synced BIGINT NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_scraper ON sync_runs(scraper, status, finished_at);
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// UpsertObservations inserts or updates observations inside a transaction.
func (s *PostgresStore) UpsertObservations(ctx context.Context, obs []Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin upsert")
	}
	defer tx.Rollback(ctx)

	for _, o := range obs {
		_, err := tx.Exec(ctx, `
			INSERT INTO observations (indicator, country_id, country_name, year, value)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (indicator, country_id, year)
			DO UPDATE SET country_name = EXCLUDED.country_name, value = EXCLUDED.value`,
			o.Indicator, o.CountryID, o.CountryName, o.Year, o.Value)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: upsert %s/%s/%d", o.Indicator, o.CountryID, o.Year)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: commit upsert")
	}
	return int64(len(obs)), nil
}

// LatestByCountry returns the most recent observation per country for one
// indicator, ordered by country id.
func (s *PostgresStore) LatestByCountry(ctx context.Context, indicator string) ([]Observation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (country_id) indicator, country_id, country_name, year, value
		FROM observations
		WHERE indicator = $1
		ORDER BY country_id, year DESC`, indicator)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: latest observations for %s", indicator)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.Indicator, &o.CountryID, &o.CountryName, &o.Year, &o.Value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan observation")
		}
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate observations")
}

// StartSync records a new running sync and returns its id.
func (s *PostgresStore) StartSync(ctx context.Context, scraper string) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sync_runs (id, scraper, status, started_at) VALUES ($1, $2, $3, $4)`,
		id, scraper, SyncRunning, time.Now().UTC())
	if err != nil {
		return "", eris.Wrapf(err, "postgres: start sync for %s", scraper)
	}
	return id, nil
}

// CompleteSync marks a sync as completed with its row count.
func (s *PostgresStore) CompleteSync(ctx context.Context, syncID string, rowCount int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sync_runs SET status = $1, rows_synced = $2, finished_at = $3 WHERE id = $4`,
		SyncCompleted, rowCount, time.Now().UTC(), syncID)
	return eris.Wrapf(err, "postgres: complete sync %s", syncID)
}

// FailSync marks a sync as failed with an error message.
func (s *PostgresStore) FailSync(ctx context.Context, syncID string, message string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sync_runs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`,
		SyncFailed, message, time.Now().UTC(), syncID)
	return eris.Wrapf(err, "postgres: fail sync %s", syncID)
}

// LastSuccess returns the finish time of the most recent completed sync for
// a scraper, or nil if it has never completed.
func (s *PostgresStore) LastSuccess(ctx context.Context, scraper string) (*time.Time, error) {
	var finished time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT finished_at FROM sync_runs WHERE scraper = $1 AND status = $2 ORDER BY finished_at DESC LIMIT 1`,
		scraper, SyncCompleted).Scan(&finished)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: last success for %s", scraper)
	}
	return &finished, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
