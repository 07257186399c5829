package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow-cli/internal/frame"
)

func TestLabelEncodeFirstSeenOrder(t *testing.T) {
	codes, table := labelEncode([]string{"A", "B", "A", "C"})
	assert.Equal(t, []int{0, 1, 0, 2}, codes)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, table)
}

func TestEncodeCategoricals(t *testing.T) {
	f, err := frame.New([]string{"mode", "status"})
	require.NoError(t, err)
	require.NoError(t, f.AppendRow([]string{"Sea", "Complete"}))
	require.NoError(t, f.AppendRow([]string{"Air", "Missing"}))
	require.NoError(t, f.AppendRow([]string{"Sea", "Complete"}))

	tables, err := EncodeCategoricals(f, []string{"mode", "status"})
	require.NoError(t, err)

	mode, err := f.Ints("mode")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, mode)
	assert.Len(t, tables["mode"], 2)
	assert.Len(t, tables["status"], 2)
}

func TestEncodeCategoricalsUnknownColumn(t *testing.T) {
	f, err := frame.New([]string{"mode"})
	require.NoError(t, err)
	_, err = EncodeCategoricals(f, []string{"nope"})
	require.Error(t, err)
}

// Codes depend on row order within a run; the same value may encode
// differently across runs over different data. That instability is part of
// the contract.
func TestEncodeCodesAreRunLocal(t *testing.T) {
	first, _ := labelEncode([]string{"A", "B", "A", "C"})
	second, _ := labelEncode([]string{"C", "A", "B", "A"})

	assert.Equal(t, []int{0, 1, 0, 2}, first)
	assert.Equal(t, []int{0, 1, 2, 1}, second)
	// "A" encoded as 0 in one run and 1 in the other.
	assert.NotEqual(t, first[0], second[1])
}
