package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestR2(t *testing.T) {
	actual := []float64{1, 2, 3, 4}

	// Perfect predictions
	assert.InDelta(t, 1.0, R2(actual, actual), 1e-9)

	// Predicting the mean scores zero
	mean := []float64{2.5, 2.5, 2.5, 2.5}
	assert.InDelta(t, 0.0, R2(actual, mean), 1e-9)

	// Constant actuals are degenerate, not an error
	assert.Equal(t, 0.0, R2([]float64{3, 3, 3}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, R2(nil, nil))
	assert.Equal(t, 0.0, R2([]float64{1}, []float64{1, 2}))
}

func TestMAEAndRMSE(t *testing.T) {
	actual := []float64{10, 20, 30}
	predicted := []float64{12, 18, 30}

	assert.InDelta(t, 4.0/3, MAE(actual, predicted), 1e-9)
	assert.InDelta(t, 1.6330, RMSE(actual, predicted), 1e-3)
}

func TestMAPEClampsSmallActuals(t *testing.T) {
	// A zero actual uses denominator 1 instead of dividing by zero
	assert.InDelta(t, 500.0, MAPE([]float64{0}, []float64{5}), 1e-9)
	assert.InDelta(t, 10.0, MAPE([]float64{100}, []float64{110}), 1e-9)
}
