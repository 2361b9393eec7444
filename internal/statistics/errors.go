package statistics

import "math"

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev computes the population standard deviation.
// Returns 0 for empty input.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// MAE computes the mean absolute value of residuals.
func MAE(residuals []float64) float64 {
	if len(residuals) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range residuals {
		sum += math.Abs(r)
	}
	return sum / float64(len(residuals))
}

// Residuals returns actual[i] - predicted[i] for the common prefix of both slices.
func Residuals(actual, predicted []float64) []float64 {
	n := min(len(actual), len(predicted))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = actual[i] - predicted[i]
	}
	return out
}
