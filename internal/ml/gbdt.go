package ml

import "github.com/evently/evently-backend-go/internal/stats"

// GradientBoosting fits shallow regression trees to squared-error
// residuals, shrunk by the learning rate.
type GradientBoosting struct {
	NumTrees        int               `json:"num_trees"`
	MaxDepth        int               `json:"max_depth"`
	MinSamplesSplit int               `json:"min_samples_split"`
	LearningRate    float64           `json:"learning_rate"`
	Init            float64           `json:"init"`
	Trees           []*RegressionTree `json:"trees"`
}

// NewGradientBoosting creates an unfitted boosting ensemble
func NewGradientBoosting(numTrees, maxDepth int, learningRate float64) *GradientBoosting {
	return &GradientBoosting{
		NumTrees:        numTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: 2,
		LearningRate:    learningRate,
	}
}

// Name implements Model
func (m *GradientBoosting) Name() string { return ModelBoosting }

// Clone implements Model
func (m *GradientBoosting) Clone() Model {
	return NewGradientBoosting(m.NumTrees, m.MaxDepth, m.LearningRate)
}

// Fit boosts trees against the running residual
func (m *GradientBoosting) Fit(X [][]float64, y []float64) error {
	n, _, err := checkDims(X, y)
	if err != nil {
		return err
	}

	m.Init = stats.Mean(y)
	m.Trees = make([]*RegressionTree, 0, m.NumTrees)

	current := make([]float64, n)
	for i := range current {
		current[i] = m.Init
	}

	residual := make([]float64, n)
	for t := 0; t < m.NumTrees; t++ {
		for i := range y {
			residual[i] = y[i] - current[i]
		}

		tree := NewRegressionTree(m.MaxDepth, m.MinSamplesSplit)
		if err := tree.Fit(X, residual); err != nil {
			return err
		}
		m.Trees = append(m.Trees, tree)

		for i, x := range X {
			current[i] += m.LearningRate * tree.PredictRow(x)
		}
	}
	return nil
}

// Predict implements Model
func (m *GradientBoosting) Predict(x []float64) float64 {
	pred := m.Init
	for _, tree := range m.Trees {
		pred += m.LearningRate * tree.PredictRow(x)
	}
	return pred
}
