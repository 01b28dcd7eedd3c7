package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalerStandardizes(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}

	s := FitScaler(rows)
	assert.InDelta(t, 2.0, s.Means[0], 1e-9)
	assert.InDelta(t, 20.0, s.Means[1], 1e-9)

	scaled := s.Transform(rows)
	// Column means become zero
	assert.InDelta(t, 0, (scaled[0][0]+scaled[1][0]+scaled[2][0])/3, 1e-9)
	assert.InDelta(t, 0, scaled[1][1], 1e-9)

	// Input rows are untouched
	assert.Equal(t, 1.0, rows[0][0])
}

func TestScalerConstantColumn(t *testing.T) {
	rows := [][]float64{
		{5, 1},
		{5, 2},
	}

	s := FitScaler(rows)
	scaled := s.Transform(rows)

	// A constant column maps to zero instead of dividing by zero
	assert.Equal(t, 0.0, scaled[0][0])
	assert.Equal(t, 0.0, scaled[1][0])
}

func TestScalerTransformRowMatchesTransform(t *testing.T) {
	rows := [][]float64{
		{1, 100},
		{3, 200},
		{5, 300},
	}

	s := FitScaler(rows)
	batch := s.Transform(rows)
	single := s.TransformRow(rows[1])

	assert.Equal(t, batch[1], single)
}
