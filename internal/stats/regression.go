package stats

import "math"

// R2 calculates the coefficient of determination between actual and predicted values.
// Returns 0 when the actuals have no variance (degenerate case, not an error).
func R2(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	mean := Mean(actual)
	var ssRes, ssTot float64
	for i, y := range actual {
		res := y - predicted[i]
		ssRes += res * res
		dev := y - mean
		ssTot += dev * dev
	}

	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// MAE calculates the mean absolute error
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var sum float64
	for i, y := range actual {
		sum += math.Abs(y - predicted[i])
	}
	return sum / float64(len(actual))
}

// RMSE calculates the root mean squared error
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var sum float64
	for i, y := range actual {
		diff := y - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}

// MAPE calculates the mean absolute percentage error.
// The denominator is clamped to at least 1 so zero/near-zero actuals
// do not blow up the metric.
func MAPE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}

	var sum float64
	for i, y := range actual {
		denom := math.Max(y, 1)
		sum += math.Abs((y - predicted[i]) / denom)
	}
	return sum / float64(len(actual)) * 100
}
