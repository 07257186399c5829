package enrich

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/config"
	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// Enricher runs the full enrichment pass: load, join, validate, write.
type Enricher struct {
	cfg config.EnrichConfig
	log *zap.Logger
}

// New creates an enricher from explicit configuration.
func New(cfg config.EnrichConfig) *Enricher {
	return &Enricher{
		cfg: cfg,
		log: zap.L().With(zap.String("component", "enrich")),
	}
}

// Run enriches the raw dataset in place. The backup copy is written before
// validation, so an aborted run leaves the backup present and the primary
// untouched. The primary is replaced via write-to-temp-then-rename so a
// crash mid-write cannot corrupt it.
func (e *Enricher) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "enrich: cancelled")
	}

	aliases, err := NewAliasTable(e.cfg.AliasFile)
	if err != nil {
		return err
	}

	lpi, err := LoadLPI(e.cfg.LPIPath, e.cfg.Year, e.cfg.Countries, aliases)
	if err != nil {
		return err
	}
	e.log.Info("indicator data loaded",
		zap.Int("countries", len(lpi)),
		zap.Int("year", e.cfg.Year),
	)

	if _, err := os.Stat(e.cfg.RawPath); os.IsNotExist(err) {
		return eris.Errorf("enrich: raw dataset not found at %s", e.cfg.RawPath)
	}

	f, err := frame.ReadCSV(e.cfg.RawPath)
	if err != nil {
		return err
	}

	if err := Join(f, lpi); err != nil {
		return err
	}

	if err := copyFile(e.cfg.RawPath, e.cfg.BackupPath); err != nil {
		return err
	}
	e.log.Info("backup written", zap.String("path", e.cfg.BackupPath))

	if err := Validate(f); err != nil {
		return err
	}
	e.log.Info("join validated",
		zap.Int("rows", f.NumRows()),
		zap.Int("added_columns", len(JoinColumns())),
	)

	return replaceFile(f, e.cfg.RawPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "enrich: open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return eris.Wrapf(err, "enrich: create backup %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return eris.Wrapf(err, "enrich: copy to %s", dst)
	}
	return eris.Wrapf(out.Close(), "enrich: close backup %s", dst)
}

// replaceFile writes the frame to a temp file in the target's directory and
// renames it over the target.
func replaceFile(f *frame.Frame, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "enrich: create temp for %s", path)
	}
	tmpPath := tmp.Name()

	if err := frame.ToCSV(f, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return eris.Wrapf(err, "enrich: write %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(err, "enrich: close %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return eris.Wrapf(err, "enrich: rename over %s", path)
	}
	return nil
}
