package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// Output file names within the output directory.
const (
	RegressionFile     = "customs_regression_dataset.csv"
	ClassificationFile = "customs_classification_dataset.csv"
	MetadataFile       = "feature_metadata.json"
)

// Metadata is the sibling document describing the emitted feature tables.
// It is written once and read only by consumers outside this process.
type Metadata struct {
	NumericFeatures      []string `json:"numeric_features"`
	CategoricalFeatures  []string `json:"categorical_features"`
	RegressionTarget     string   `json:"regression_target"`
	ClassificationTarget string   `json:"classification_target"`
}

// featureColumns returns the shared feature set: every column except the two
// targets and the optional legacy flag. Exclusion tolerates absence.
func featureColumns(f *frame.Frame) []string {
	excluded := map[string]bool{
		RegressionTarget:     true,
		ClassificationTarget: true,
		ColRiskFlag:          true,
	}
	var features []string
	for _, col := range f.Columns() {
		if !excluded[col] {
			features = append(features, col)
		}
	}
	return features
}

// BuildViews partitions the feature table into the regression view (features
// plus Arrival_Delay_Days) and the classification view (features plus
// Route_Risk_Level).
func BuildViews(f *frame.Frame) (regression, classification *frame.Frame, err error) {
	features := featureColumns(f)

	regression, err = f.Select(append(append([]string(nil), features...), RegressionTarget)...)
	if err != nil {
		return nil, nil, eris.Wrap(err, "dataset: build regression view")
	}
	classification, err = f.Select(append(append([]string(nil), features...), ClassificationTarget)...)
	if err != nil {
		return nil, nil, eris.Wrap(err, "dataset: build classification view")
	}
	return regression, classification, nil
}

// WriteDatasets writes both views and the metadata document into dir. The
// three writes are sequential with no cross-file atomicity: a failure after
// the first write leaves the directory partial.
func WriteDatasets(f *frame.Frame, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create output dir %s", dir)
	}

	regression, classification, err := BuildViews(f)
	if err != nil {
		return err
	}

	if err := frame.WriteCSV(regression, filepath.Join(dir, RegressionFile)); err != nil {
		return err
	}
	if err := frame.WriteCSV(classification, filepath.Join(dir, ClassificationFile)); err != nil {
		return err
	}

	meta := Metadata{
		NumericFeatures:      NumericColumns(),
		CategoricalFeatures:  CategoricalColumns(),
		RegressionTarget:     RegressionTarget,
		ClassificationTarget: ClassificationTarget,
	}
	data, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return eris.Wrap(err, "dataset: marshal metadata")
	}
	path := filepath.Join(dir, MetadataFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "dataset: write %s", path)
	}
	return nil
}
