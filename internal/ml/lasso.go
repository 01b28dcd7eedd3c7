package ml

import (
	"math"

	"github.com/evently/evently-backend-go/internal/stats"
)

// LassoRegression is L1-regularized least squares fit by cyclic
// coordinate descent with soft thresholding. Features are expected to
// arrive scaled; the intercept absorbs the target mean.
type LassoRegression struct {
	Alpha     float64   `json:"alpha"`
	MaxIter   int       `json:"max_iter"`
	Tol       float64   `json:"tol"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// NewLassoRegression creates an unfitted lasso model
func NewLassoRegression(alpha float64) *LassoRegression {
	return &LassoRegression{Alpha: alpha, MaxIter: 1000, Tol: 1e-6}
}

// Name implements Model
func (m *LassoRegression) Name() string { return ModelLasso }

// Clone implements Model
func (m *LassoRegression) Clone() Model { return NewLassoRegression(m.Alpha) }

// Fit runs coordinate descent until the largest weight update falls
// below Tol or MaxIter passes complete.
func (m *LassoRegression) Fit(X [][]float64, y []float64) error {
	n, p, err := checkDims(X, y)
	if err != nil {
		return err
	}

	// Center columns and target so the intercept drops out of the descent
	colMeans := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		colMeans[j] = stats.Mean(col)
	}
	yMean := stats.Mean(y)

	Xc := make([][]float64, n)
	for i, row := range X {
		Xc[i] = make([]float64, p)
		for j, v := range row {
			Xc[i][j] = v - colMeans[j]
		}
	}

	// Per-column squared norms; a dead column keeps weight zero
	norms := make([]float64, p)
	for j := 0; j < p; j++ {
		for i := range Xc {
			norms[j] += Xc[i][j] * Xc[i][j]
		}
	}

	w := make([]float64, p)
	residual := make([]float64, n)
	for i := range y {
		residual[i] = y[i] - yMean
	}

	threshold := m.Alpha * float64(n)
	for iter := 0; iter < m.MaxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			if norms[j] == 0 {
				continue
			}

			// Partial residual correlation with column j
			rho := 0.0
			for i := range Xc {
				rho += Xc[i][j] * (residual[i] + Xc[i][j]*w[j])
			}

			updated := softThreshold(rho, threshold) / norms[j]
			delta := updated - w[j]
			if delta != 0 {
				for i := range Xc {
					residual[i] -= Xc[i][j] * delta
				}
				w[j] = updated
			}
			if d := math.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}
		if maxDelta < m.Tol {
			break
		}
	}

	m.Weights = w
	m.Intercept = yMean
	for j := 0; j < p; j++ {
		m.Intercept -= w[j] * colMeans[j]
	}
	return nil
}

// Predict implements Model
func (m *LassoRegression) Predict(x []float64) float64 {
	pred := m.Intercept
	for j, w := range m.Weights {
		pred += w * x[j]
	}
	return pred
}

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	default:
		return 0
	}
}
