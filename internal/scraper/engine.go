package scraper

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tradeflow-cli/internal/fetcher"
	"github.com/sells-group/tradeflow-cli/internal/store"
)

// Engine orchestrates scraper sync runs.
type Engine struct {
	store   store.Store
	fetcher fetcher.Fetcher
	reg     *Registry
	limit   int
}

// RunOpts configures which scrapers to run and how.
type RunOpts struct {
	Scrapers []string // restrict to specific scraper names
	Force    bool     // ignore ShouldRun() scheduling
}

// NewEngine creates a new sync engine. limit caps concurrent scrapers.
func NewEngine(st store.Store, f fetcher.Fetcher, reg *Registry, limit int) *Engine {
	if limit < 1 {
		limit = 1
	}
	return &Engine{
		store:   st,
		fetcher: f,
		reg:     reg,
		limit:   limit,
	}
}

// Run executes the selected scrapers concurrently. Each run is recorded in
// the sync log; one scraper failing does not abort its siblings, but Run
// returns an error if any scraper failed.
func (e *Engine) Run(ctx context.Context, opts RunOpts) error {
	log := zap.L().With(zap.String("component", "scraper.engine"))
	now := time.Now().UTC()

	scrapers, err := e.reg.Select(opts.Scrapers)
	if err != nil {
		return err
	}
	if len(scrapers) == 0 {
		log.Info("no scrapers selected")
		return nil
	}

	log.Info("selected scrapers", zap.Int("count", len(scrapers)))

	var synced, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for _, sc := range scrapers {
		sc := sc
		g.Go(func() error {
			scLog := log.With(zap.String("scraper", sc.Name()))

			if !opts.Force {
				lastSync, err := e.store.LastSuccess(gctx, sc.Name())
				if err != nil {
					return eris.Wrapf(err, "engine: check last sync for %s", sc.Name())
				}
				if !sc.ShouldRun(now, lastSync) {
					scLog.Debug("skipping (not due)")
					skipped.Add(1)
					return nil
				}
			}

			scLog.Info("starting sync")
			syncID, err := e.store.StartSync(gctx, sc.Name())
			if err != nil {
				return eris.Wrapf(err, "engine: start sync log for %s", sc.Name())
			}

			start := time.Now()
			result, err := sc.Sync(gctx, e.store, e.fetcher)
			elapsed := time.Since(start)

			if err != nil {
				scLog.Error("sync failed", zap.Error(err), zap.Duration("elapsed", elapsed))
				if logErr := e.store.FailSync(gctx, syncID, err.Error()); logErr != nil {
					scLog.Error("failed to record sync failure", zap.Error(logErr))
				}
				failed.Add(1)
				return nil
			}

			if err := e.store.CompleteSync(gctx, syncID, result.RowsSynced); err != nil {
				scLog.Error("failed to record sync completion", zap.Error(err))
			}

			scLog.Info("sync complete",
				zap.Int64("rows", result.RowsSynced),
				zap.Duration("elapsed", elapsed),
			)
			synced.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("engine run complete",
		zap.Int64("synced", synced.Load()),
		zap.Int64("skipped", skipped.Load()),
		zap.Int64("failed", failed.Load()),
	)

	if n := failed.Load(); n > 0 {
		return eris.Errorf("engine: %d scraper(s) failed", n)
	}
	return nil
}
