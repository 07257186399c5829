package dataset

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// ScaleParams holds the mean and population standard deviation used to
// standardize one numeric column.
type ScaleParams struct {
	Mean float64
	Std  float64
}

func columnStats(values []float64) ScaleParams {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return ScaleParams{Mean: mean, Std: math.Sqrt(sq / n)}
}

// ScaleNumeric standardizes each listed column to zero mean and unit
// variance in place. A zero-variance column is filled with zeros rather than
// dividing by zero; the degenerate column is logged at warn level.
func ScaleNumeric(f *frame.Frame, columns []string) (map[string]ScaleParams, error) {
	params := make(map[string]ScaleParams, len(columns))
	for _, col := range columns {
		values, err := f.Floats(col)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			continue
		}

		p := columnStats(values)
		params[col] = p

		scaled := make([]float64, len(values))
		if p.Std == 0 {
			zap.L().Warn("dataset: zero-variance column scaled to zeros",
				zap.String("column", col),
				zap.Float64("mean", p.Mean),
			)
		} else {
			for i, v := range values {
				scaled[i] = (v - p.Mean) / p.Std
			}
		}
		if err := f.SetFloats(col, scaled); err != nil {
			return nil, err
		}
	}
	return params, nil
}
