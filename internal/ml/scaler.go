package ml

import "github.com/evently/evently-backend-go/internal/stats"

// StandardScaler standardizes features to zero mean and unit variance.
// It is fit on training rows only; validation and prediction rows are
// transformed with the training statistics.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitScaler computes per-column means and population standard deviations
func FitScaler(rows [][]float64) *StandardScaler {
	if len(rows) == 0 {
		return &StandardScaler{}
	}

	cols := len(rows[0])
	s := &StandardScaler{
		Means: make([]float64, cols),
		Stds:  make([]float64, cols),
	}

	column := make([]float64, len(rows))
	for j := 0; j < cols; j++ {
		for i, row := range rows {
			column[i] = row[j]
		}
		s.Means[j] = stats.Mean(column)
		s.Stds[j] = stats.PopStdDev(column)
		// Constant columns scale to zero rather than dividing by zero
		if s.Stds[j] == 0 {
			s.Stds[j] = 1
		}
	}
	return s
}

// Transform standardizes rows in a new slice, leaving the input untouched
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.TransformRow(row)
	}
	return out
}

// TransformRow standardizes a single feature vector
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return out
}
