package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS observations (
	indicator    TEXT NOT NULL,
	country_id   TEXT NOT NULL,
	country_name TEXT NOT NULL,
	year         INTEGER NOT NULL,
	value        REAL NOT NULL,
	PRIMARY KEY (indicator, country_id, year)
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id          TEXT PRIMARY KEY,
	scraper     TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	rows_synced INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_scraper ON sync_runs(scraper, status, finished_at);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// UpsertObservations inserts or replaces observations one statement per row
// inside a transaction.
func (s *SQLiteStore) UpsertObservations(ctx context.Context, obs []Observation) (int64, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (indicator, country_id, country_name, year, value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (indicator, country_id, year)
		DO UPDATE SET country_name = excluded.country_name, value = excluded.value`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.ExecContext(ctx, o.Indicator, o.CountryID, o.CountryName, o.Year, o.Value); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert %s/%s/%d", o.Indicator, o.CountryID, o.Year)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert")
	}
	return int64(len(obs)), nil
}

// LatestByCountry returns the most recent observation per country for one
// indicator, ordered by country id.
func (s *SQLiteStore) LatestByCountry(ctx context.Context, indicator string) ([]Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.indicator, o.country_id, o.country_name, o.year, o.value
		FROM observations o
		JOIN (
			SELECT country_id, MAX(year) AS max_year
			FROM observations WHERE indicator = ?
			GROUP BY country_id
		) latest ON o.country_id = latest.country_id AND o.year = latest.max_year
		WHERE o.indicator = ?
		ORDER BY o.country_id`, indicator, indicator)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: latest observations for %s", indicator)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.Indicator, &o.CountryID, &o.CountryName, &o.Year, &o.Value); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan observation")
		}
		out = append(out, o)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate observations")
}

// StartSync records a new running sync and returns its id.
func (s *SQLiteStore) StartSync(ctx context.Context, scraper string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, scraper, status, started_at) VALUES (?, ?, ?, ?)`,
		id, scraper, SyncRunning, time.Now().UTC())
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: start sync for %s", scraper)
	}
	return id, nil
}

// CompleteSync marks a sync as completed with its row count.
func (s *SQLiteStore) CompleteSync(ctx context.Context, syncID string, rowCount int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET status = ?, rows_synced = ?, finished_at = ? WHERE id = ?`,
		SyncCompleted, rowCount, time.Now().UTC(), syncID)
	return eris.Wrapf(err, "sqlite: complete sync %s", syncID)
}

// FailSync marks a sync as failed with an error message.
func (s *SQLiteStore) FailSync(ctx context.Context, syncID string, message string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sync_runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		SyncFailed, message, time.Now().UTC(), syncID)
	return eris.Wrapf(err, "sqlite: fail sync %s", syncID)
}

// LastSuccess returns the finish time of the most recent completed sync for
// a scraper, or nil if it has never completed.
func (s *SQLiteStore) LastSuccess(ctx context.Context, scraper string) (*time.Time, error) {
	var finished time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT finished_at FROM sync_runs WHERE scraper = ? AND status = ? ORDER BY finished_at DESC LIMIT 1`,
		scraper, SyncCompleted).Scan(&finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: last success for %s", scraper)
	}
	return &finished, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return eris.Wrap(s.db.Close(), "sqlite: close")
}
