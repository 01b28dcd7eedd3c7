package ml

// Model is a trainable regressor over fixed-width feature vectors.
// Fit receives already-scaled rows; Predict expects the same scaling.
type Model interface {
	Name() string
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) float64
	Clone() Model
}

// Model names as stored in artifacts and reported by the API
const (
	ModelLinear   = "linear_regression"
	ModelRidge    = "ridge_regression"
	ModelLasso    = "lasso_regression"
	ModelForest   = "random_forest"
	ModelBoosting = "gradient_boosting"
)

// predictAll evaluates a model over every row
func predictAll(m Model, X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = m.Predict(x)
	}
	return out
}
