package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tradeflow-cli/internal/frame"
)

func TestScaleNumericRoundTrip(t *testing.T) {
	f, err := frame.New([]string{"value"})
	require.NoError(t, err)
	for _, v := range []string{"10", "20", "30", "40", "50"} {
		require.NoError(t, f.AppendRow([]string{v}))
	}

	params, err := ScaleNumeric(f, []string{"value"})
	require.NoError(t, err)
	assert.InDelta(t, 30, params["value"].Mean, 1e-9)

	scaled, err := f.Floats("value")
	require.NoError(t, err)

	var sum, sq float64
	for _, v := range scaled {
		sum += v
	}
	mean := sum / float64(len(scaled))
	for _, v := range scaled {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(scaled)))

	assert.InDelta(t, 0, mean, 1e-12)
	assert.InDelta(t, 1, std, 1e-12)
}

func TestScaleNumericZeroVarianceFillsZeros(t *testing.T) {
	f, err := frame.New([]string{"flat"})
	require.NoError(t, err)
	for range 4 {
		require.NoError(t, f.AppendRow([]string{"7.5"}))
	}

	params, err := ScaleNumeric(f, []string{"flat"})
	require.NoError(t, err)
	assert.Zero(t, params["flat"].Std)

	scaled, err := f.Floats("flat")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, scaled)
}

func TestScaleNumericNonNumericColumn(t *testing.T) {
	f, err := frame.New([]string{"label"})
	require.NoError(t, err)
	require.NoError(t, f.AppendRow([]string{"abc"}))

	_, err = ScaleNumeric(f, []string{"label"})
	require.Error(t, err)
}

func TestColumnStats(t *testing.T) {
	p := columnStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, p.Mean, 1e-9)
	assert.InDelta(t, 2, p.Std, 1e-9)
}
