package report

import "math"

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// skewness returns the adjusted Fisher-Pearson sample skewness, matching
// the bias-corrected estimator used by most statistics packages. It returns
// NaN for fewer than three samples or a constant series.
func skewness(x []float64) float64 {
	n := float64(len(x))
	if n < 3 {
		return math.NaN()
	}

	m := mean(x)
	var m2, m3 float64
	for _, v := range x {
		d := v - m
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return math.NaN()
	}

	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// pearson returns the Pearson correlation coefficient of two equal-length
// series, or NaN when either series has zero variance.
func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return math.NaN()
	}

	mx, my := mean(x), mean(y)
	var cov, vx, vy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(vx*vy)
}
