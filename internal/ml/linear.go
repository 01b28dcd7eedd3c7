package ml

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ordinary least squares with an intercept term
type LinearRegression struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// NewLinearRegression creates an unfitted OLS model
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Name implements Model
func (m *LinearRegression) Name() string { return ModelLinear }

// Clone implements Model
func (m *LinearRegression) Clone() Model { return NewLinearRegression() }

// Fit solves the least squares problem via QR decomposition
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	n, p, err := checkDims(X, y)
	if err != nil {
		return err
	}

	// Design matrix with a leading bias column
	A := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		A.Set(i, 0, 1)
		for j, v := range row {
			A.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(A)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, b); err != nil {
		return fmt.Errorf("least squares solve failed: %w", err)
	}

	m.Intercept = beta.AtVec(0)
	m.Weights = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Weights[j] = beta.AtVec(j + 1)
	}
	return nil
}

// Predict implements Model
func (m *LinearRegression) Predict(x []float64) float64 {
	pred := m.Intercept
	for j, w := range m.Weights {
		pred += w * x[j]
	}
	return pred
}

func checkDims(X [][]float64, y []float64) (n, p int, err error) {
	n = len(X)
	if n == 0 {
		return 0, 0, fmt.Errorf("empty training set")
	}
	if n != len(y) {
		return 0, 0, fmt.Errorf("row count %d does not match target count %d", n, len(y))
	}
	p = len(X[0])
	for i, row := range X {
		if len(row) != p {
			return 0, 0, fmt.Errorf("row %d has width %d, expected %d", i, len(row), p)
		}
	}
	return n, p, nil
}
