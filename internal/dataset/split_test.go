package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow-cli/internal/frame"
)

func featureFrame(t *testing.T, withRiskFlag bool) *frame.Frame {
	t.Helper()
	cols := []string{"feat_a", "feat_b", RegressionTarget, ClassificationTarget}
	if withRiskFlag {
		cols = append(cols, ColRiskFlag)
	}
	f, err := frame.New(cols)
	require.NoError(t, err)
	row := []string{"1", "2", "3", "0"}
	if withRiskFlag {
		row = append(row, "1")
	}
	require.NoError(t, f.AppendRow(row))
	return f
}

func TestBuildViewsColumnSymmetry(t *testing.T) {
	f := featureFrame(t, false)
	reg, clf, err := BuildViews(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"feat_a", "feat_b", RegressionTarget}, reg.Columns())
	assert.Equal(t, []string{"feat_a", "feat_b", ClassificationTarget}, clf.Columns())

	// The two views share every column except the swapped targets.
	regSet := map[string]bool{}
	for _, c := range reg.Columns() {
		regSet[c] = true
	}
	for _, c := range clf.Columns() {
		if c == ClassificationTarget {
			continue
		}
		assert.True(t, regSet[c], "classification column %q missing from regression view", c)
	}
}

func TestBuildViewsExcludesRiskFlagWhenPresent(t *testing.T) {
	f := featureFrame(t, true)
	reg, clf, err := BuildViews(f)
	require.NoError(t, err)
	assert.False(t, reg.Has(ColRiskFlag))
	assert.False(t, clf.Has(ColRiskFlag))
}

func TestWriteDatasets(t *testing.T) {
	dir := t.TempDir()
	f := featureFrame(t, false)

	require.NoError(t, WriteDatasets(f, filepath.Join(dir, "processed")))

	reg, err := frame.ReadCSV(filepath.Join(dir, "processed", RegressionFile))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.NumRows())
	assert.True(t, reg.Has(RegressionTarget))
	assert.False(t, reg.Has(ClassificationTarget))

	clf, err := frame.ReadCSV(filepath.Join(dir, "processed", ClassificationFile))
	require.NoError(t, err)
	assert.True(t, clf.Has(ClassificationTarget))
	assert.False(t, clf.Has(RegressionTarget))

	data, err := os.ReadFile(filepath.Join(dir, "processed", MetadataFile))
	require.NoError(t, err)

	var meta Metadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, RegressionTarget, meta.RegressionTarget)
	assert.Equal(t, ClassificationTarget, meta.ClassificationTarget)
	assert.Equal(t, NumericColumns(), meta.NumericFeatures)
	assert.Equal(t, CategoricalColumns(), meta.CategoricalFeatures)
}
