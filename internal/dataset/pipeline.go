package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/config"
	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// Pipeline runs the eight preparation stages strictly in sequence over one
// shared frame. Stages never run concurrently and never revisit earlier
// output; every run rebuilds everything from the raw file.
type Pipeline struct {
	cfg config.PipelineConfig
	log *zap.Logger
}

// NewPipeline creates a pipeline from explicit configuration.
func NewPipeline(cfg config.PipelineConfig) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: zap.L().With(zap.String("component", "dataset.pipeline")),
	}
}

// Load reads the raw shipment table and validates the required columns.
func (p *Pipeline) Load() (*frame.Frame, error) {
	var (
		f   *frame.Frame
		err error
	)
	if strings.EqualFold(filepath.Ext(p.cfg.RawPath), ".xlsx") {
		f, err = frame.ReadXLSX(p.cfg.RawPath)
	} else {
		f, err = frame.ReadCSV(p.cfg.RawPath)
	}
	if err != nil {
		return nil, err
	}

	if missing := f.Missing(RequiredColumns()); len(missing) > 0 {
		return nil, eris.Errorf("dataset: raw file %s missing required columns %v", p.cfg.RawPath, missing)
	}

	p.log.Info("dataset loaded",
		zap.String("path", p.cfg.RawPath),
		zap.Int("rows", f.NumRows()),
		zap.Int("columns", f.NumCols()),
	)
	return f, nil
}

// Run executes all stages and writes the two datasets plus metadata.
func (p *Pipeline) Run(ctx context.Context) error {
	f, err := p.Load()
	if err != nil {
		return err
	}
	if err := p.run(ctx, f); err != nil {
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, f *frame.Frame) error {
	stages := []struct {
		name string
		fn   func(*frame.Frame) error
	}{
		{"temporal", p.temporal},
		{"risk", p.risk},
		{"text", p.text},
		{"encode", p.encode},
		{"scale", p.scale},
		{"prune", p.prune},
		{"split", p.split},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "dataset: cancelled before %s", stage.name)
		}
		if err := stage.fn(f); err != nil {
			return eris.Wrapf(err, "dataset: stage %s", stage.name)
		}
		p.log.Info("stage complete", zap.String("stage", stage.name))
	}
	return nil
}

func (p *Pipeline) temporal(f *frame.Frame) error { return DeriveTemporal(f) }

func (p *Pipeline) risk(f *frame.Frame) error { return DeriveRisk(f) }

// text computes the TF-IDF weighting of the delay reasons. The matrix shape
// is logged and the matrix discarded; it never joins the emitted tables.
func (p *Pipeline) text(f *frame.Frame) error {
	reasons, err := f.Column(ColDelayReason)
	if err != nil {
		return err
	}
	matrix := VectorizeTFIDF(reasons, p.cfg.TFIDFMaxTerms)
	p.log.Info("tfidf matrix computed",
		zap.Int("rows", matrix.Rows()),
		zap.Int("terms", matrix.Cols()),
	)
	return nil
}

func (p *Pipeline) encode(f *frame.Frame) error {
	tables, err := EncodeCategoricals(f, CategoricalColumns())
	if err != nil {
		return err
	}
	for col, codes := range tables {
		p.log.Debug("column encoded",
			zap.String("column", col),
			zap.Int("distinct", len(codes)),
		)
	}
	return nil
}

func (p *Pipeline) scale(f *frame.Frame) error {
	_, err := ScaleNumeric(f, NumericColumns())
	return err
}

func (p *Pipeline) prune(f *frame.Frame) error {
	return f.Drop(PruneColumns()...)
}

func (p *Pipeline) split(f *frame.Frame) error {
	return WriteDatasets(f, p.cfg.OutputDir)
}
