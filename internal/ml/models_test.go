package ml

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-backend-go/internal/stats"
)

// syntheticLinear generates rows from y = 3*x0 - 2*x1 + 5 plus noise
func syntheticLinear(n int, noise float64, seed int64) (X [][]float64, y []float64) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		x0 := rng.Float64() * 10
		x1 := rng.Float64() * 10
		X = append(X, []float64{x0, x1})
		y = append(y, 3*x0-2*x1+5+noise*rng.NormFloat64())
	}
	return X, y
}

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	X, y := syntheticLinear(200, 0, 1)

	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))

	assert.InDelta(t, 3.0, m.Weights[0], 1e-6)
	assert.InDelta(t, -2.0, m.Weights[1], 1e-6)
	assert.InDelta(t, 5.0, m.Intercept, 1e-6)
	assert.InDelta(t, 3*4.0-2*2.0+5, m.Predict([]float64{4, 2}), 1e-6)
}

func TestRidgeShrinksTowardZero(t *testing.T) {
	X, y := syntheticLinear(200, 0.5, 2)

	ols := NewLinearRegression()
	require.NoError(t, ols.Fit(X, y))

	ridge := NewRidgeRegression(1000)
	require.NoError(t, ridge.Fit(X, y))

	// Heavy regularization pulls weights below OLS magnitudes
	assert.Less(t, absf(ridge.Weights[0]), absf(ols.Weights[0]))
	assert.Less(t, absf(ridge.Weights[1]), absf(ols.Weights[1]))

	// Light regularization stays close to OLS
	light := NewRidgeRegression(1e-6)
	require.NoError(t, light.Fit(X, y))
	assert.InDelta(t, ols.Weights[0], light.Weights[0], 1e-3)
}

func TestLassoZeroesIrrelevantFeature(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var X [][]float64
	var y []float64
	for i := 0; i < 200; i++ {
		x0 := rng.NormFloat64()
		noiseFeature := rng.NormFloat64()
		X = append(X, []float64{x0, noiseFeature})
		y = append(y, 4*x0+rng.NormFloat64()*0.01)
	}

	m := NewLassoRegression(0.5)
	require.NoError(t, m.Fit(X, y))

	assert.InDelta(t, 4.0, m.Weights[0], 0.7)
	assert.InDelta(t, 0.0, m.Weights[1], 0.05)
}

func TestRegressionTreeFitsStepFunction(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 100; i++ {
		v := float64(i)
		X = append(X, []float64{v})
		if v < 50 {
			y = append(y, 10)
		} else {
			y = append(y, 100)
		}
	}

	tree := NewRegressionTree(3, 2)
	require.NoError(t, tree.Fit(X, y))

	assert.InDelta(t, 10.0, tree.PredictRow([]float64{25}), 1e-9)
	assert.InDelta(t, 100.0, tree.PredictRow([]float64{75}), 1e-9)
}

func TestRandomForestDeterministicAndAccurate(t *testing.T) {
	X, y := syntheticLinear(150, 1, 4)

	a := NewRandomForest(30, 8, 3, 42)
	require.NoError(t, a.Fit(X, y))

	b := NewRandomForest(30, 8, 3, 42)
	require.NoError(t, b.Fit(X, y))

	// Same seed, same forest
	assert.Equal(t, a.Predict(X[0]), b.Predict(X[0]))

	r2 := stats.R2(y, predictAll(a, X))
	assert.Greater(t, r2, 0.85)
}

func TestGradientBoostingImprovesOnMean(t *testing.T) {
	X, y := syntheticLinear(150, 1, 5)

	m := NewGradientBoosting(50, 3, 0.1)
	require.NoError(t, m.Fit(X, y))

	r2 := stats.R2(y, predictAll(m, X))
	assert.Greater(t, r2, 0.8)
}

func TestModelsRejectBadShapes(t *testing.T) {
	for _, m := range []Model{
		NewLinearRegression(),
		NewRidgeRegression(1),
		NewLassoRegression(0.1),
		NewRandomForest(5, 3, 2, 1),
		NewGradientBoosting(5, 3, 0.1),
	} {
		assert.Error(t, m.Fit(nil, nil), m.Name())
		assert.Error(t, m.Fit([][]float64{{1, 2}}, []float64{1, 2}), m.Name())
		assert.Error(t, m.Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}), m.Name())
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
