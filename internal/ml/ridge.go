package ml

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RidgeRegression is L2-regularized least squares. The intercept is not
// penalized.
type RidgeRegression struct {
	Alpha     float64   `json:"alpha"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// NewRidgeRegression creates an unfitted ridge model
func NewRidgeRegression(alpha float64) *RidgeRegression {
	return &RidgeRegression{Alpha: alpha}
}

// Name implements Model
func (m *RidgeRegression) Name() string { return ModelRidge }

// Clone implements Model
func (m *RidgeRegression) Clone() Model { return NewRidgeRegression(m.Alpha) }

// Fit solves the normal equations (XtX + alpha*I) beta = Xty, with a
// zero penalty on the bias row.
func (m *RidgeRegression) Fit(X [][]float64, y []float64) error {
	n, p, err := checkDims(X, y)
	if err != nil {
		return err
	}

	A := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		A.Set(i, 0, 1)
		for j, v := range row {
			A.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, y)

	var gram mat.Dense
	gram.Mul(A.T(), A)
	for j := 1; j <= p; j++ {
		gram.Set(j, j, gram.At(j, j)+m.Alpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(A.T(), b)

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("ridge solve failed: %w", err)
	}

	m.Intercept = beta.AtVec(0)
	m.Weights = make([]float64, p)
	for j := 0; j < p; j++ {
		m.Weights[j] = beta.AtVec(j + 1)
	}
	return nil
}

// Predict implements Model
func (m *RidgeRegression) Predict(x []float64) float64 {
	pred := m.Intercept
	for j, w := range m.Weights {
		pred += w * x[j]
	}
	return pred
}
