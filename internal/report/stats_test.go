package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, mean(nil))
}

func TestSkewnessSymmetric(t *testing.T) {
	assert.InDelta(t, 0.0, skewness([]float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, 0.0, skewness([]float64{-2, -1, 0, 1, 2}), 1e-12)
}

func TestSkewnessRightTail(t *testing.T) {
	// a long right tail gives positive skew
	s := skewness([]float64{1, 1, 1, 1, 10})
	assert.Greater(t, s, 1.0)
}

func TestSkewnessDegenerate(t *testing.T) {
	assert.True(t, math.IsNaN(skewness([]float64{1, 2})))
	assert.True(t, math.IsNaN(skewness([]float64{5, 5, 5, 5})))
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, pearson(x, []float64{2, 4, 6, 8}), 1e-12)
	assert.InDelta(t, -1.0, pearson(x, []float64{8, 6, 4, 2}), 1e-12)
	assert.True(t, math.IsNaN(pearson(x, []float64{5, 5, 5, 5})))
	assert.True(t, math.IsNaN(pearson(x, []float64{1, 2})))
}
