// Package report computes descriptive statistics over the processed model
// datasets: delay skewness, risk class balance, feature correlations, and
// per-route aggregates.
package report

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/config"
	"github.com/sells-group/tradeflow-cli/internal/dataset"
	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// SummaryFile is the CSV the report writes into the output directory.
const SummaryFile = "summary_statistics.csv"

// Metric is one row of the report summary.
type Metric struct {
	Section string
	Key     string
	Value   float64
}

// Summary holds every computed metric in emission order.
type Summary struct {
	Metrics []Metric
}

// Reporter reads the processed datasets and produces the summary.
type Reporter struct {
	processedDir string
	outputDir    string
	log          *zap.Logger
}

// NewReporter creates a Reporter reading from the pipeline output directory.
func NewReporter(pipelineCfg config.PipelineConfig, reportCfg config.ReportConfig) *Reporter {
	return &Reporter{
		processedDir: pipelineCfg.OutputDir,
		outputDir:    reportCfg.OutputDir,
		log:          zap.L().With(zap.String("component", "report")),
	}
}

// Run computes the summary and writes it to the output directory.
func (r *Reporter) Run(ctx context.Context) (*Summary, error) {
	regPath := filepath.Join(r.processedDir, dataset.RegressionFile)
	clfPath := filepath.Join(r.processedDir, dataset.ClassificationFile)

	reg, err := frame.ReadCSV(regPath)
	if err != nil {
		return nil, eris.Wrapf(err, "report: read regression dataset %s", regPath)
	}
	clf, err := frame.ReadCSV(clfPath)
	if err != nil {
		return nil, eris.Wrapf(err, "report: read classification dataset %s", clfPath)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, err := r.compute(reg, clf)
	if err != nil {
		return nil, err
	}

	if err := r.write(summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *Reporter) compute(reg, clf *frame.Frame) (*Summary, error) {
	s := &Summary{}

	delays, err := reg.Floats(dataset.RegressionTarget)
	if err != nil {
		return nil, eris.Wrap(err, "report: delay column")
	}

	skew := skewness(delays)
	s.add("delay", "skewness", skew)
	r.log.Info("delay distribution",
		zap.Float64("skewness", skew),
		zap.Int("rows", len(delays)),
	)

	if err := r.riskProportions(clf, s); err != nil {
		return nil, err
	}
	if err := r.correlations(reg, delays, s); err != nil {
		return nil, err
	}
	if err := r.routeAggregates(reg, clf, delays, s); err != nil {
		return nil, err
	}
	return s, nil
}

// riskProportions computes the class balance of the encoded risk levels.
func (r *Reporter) riskProportions(clf *frame.Frame, s *Summary) error {
	levels, err := clf.Column(dataset.ClassificationTarget)
	if err != nil {
		return eris.Wrap(err, "report: risk column")
	}

	counts := make(map[string]int)
	for _, v := range levels {
		counts[v]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := float64(len(levels))
	for _, k := range keys {
		p := float64(counts[k]) / total
		s.add("risk_proportion", k, p)
		r.log.Info("risk class proportion", zap.String("class", k), zap.Float64("proportion", p))
	}
	return nil
}

// correlations computes the Pearson correlation of every other column with
// the delay target, highest first.
func (r *Reporter) correlations(reg *frame.Frame, delays []float64, s *Summary) error {
	type corr struct {
		col string
		val float64
	}
	var corrs []corr

	for _, col := range reg.Columns() {
		if col == dataset.RegressionTarget {
			continue
		}
		vals, err := reg.Floats(col)
		if err != nil {
			// text features that survived encoding are skipped
			continue
		}
		corrs = append(corrs, corr{col, pearson(vals, delays)})
	}

	sort.Slice(corrs, func(i, j int) bool {
		vi, vj := corrs[i].val, corrs[j].val
		if math.IsNaN(vi) {
			return false
		}
		if math.IsNaN(vj) {
			return true
		}
		return vi > vj
	})

	for _, c := range corrs {
		s.add("correlation", c.col, c.val)
	}
	if len(corrs) > 0 {
		r.log.Info("top correlation with delay",
			zap.String("feature", corrs[0].col),
			zap.Float64("r", corrs[0].val),
		)
	}
	return nil
}

// routeAggregates computes mean delay and mean risk level per route code.
func (r *Reporter) routeAggregates(reg, clf *frame.Frame, delays []float64, s *Summary) error {
	routes, err := reg.Column(dataset.ColRouteCode)
	if err != nil {
		return eris.Wrap(err, "report: route column")
	}
	risks, err := clf.Floats(dataset.ClassificationTarget)
	if err != nil {
		return eris.Wrap(err, "report: risk values")
	}
	clfRoutes, err := clf.Column(dataset.ColRouteCode)
	if err != nil {
		return eris.Wrap(err, "report: classification route column")
	}

	delayByRoute := groupMeans(routes, delays)
	riskByRoute := groupMeans(clfRoutes, risks)

	keys := make([]string, 0, len(delayByRoute))
	for k := range delayByRoute {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s.add("route_avg_delay", k, delayByRoute[k])
		if v, ok := riskByRoute[k]; ok {
			s.add("route_risk_rate", k, v)
		}
	}
	return nil
}

func groupMeans(keys []string, values []float64) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, k := range keys {
		if i >= len(values) {
			break
		}
		sums[k] += values[i]
		counts[k]++
	}
	out := make(map[string]float64, len(sums))
	for k, sum := range sums {
		out[k] = sum / float64(counts[k])
	}
	return out
}

func (s *Summary) add(section, key string, value float64) {
	s.Metrics = append(s.Metrics, Metric{Section: section, Key: key, Value: value})
}

// Get returns the first metric matching section and key.
func (s *Summary) Get(section, key string) (float64, bool) {
	for _, m := range s.Metrics {
		if m.Section == section && m.Key == key {
			return m.Value, true
		}
	}
	return 0, false
}

// write emits the summary CSV into the output directory.
func (r *Reporter) write(s *Summary) error {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return eris.Wrapf(err, "report: create output dir %s", r.outputDir)
	}

	f, err := frame.New([]string{"section", "key", "value"})
	if err != nil {
		return eris.Wrap(err, "report: build summary frame")
	}
	for _, m := range s.Metrics {
		val := strconv.FormatFloat(m.Value, 'g', -1, 64)
		if math.IsNaN(m.Value) {
			val = ""
		}
		if err := f.AppendRow([]string{m.Section, m.Key, val}); err != nil {
			return eris.Wrap(err, "report: append summary row")
		}
	}

	outPath := filepath.Join(r.outputDir, SummaryFile)
	if err := frame.WriteCSV(f, outPath); err != nil {
		return eris.Wrapf(err, "report: write %s", outPath)
	}

	r.log.Info("summary written",
		zap.String("path", outPath),
		zap.Int("metrics", len(s.Metrics)),
	)
	return nil
}
