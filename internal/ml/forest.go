package ml

import (
	"math/rand"
)

// RandomForest averages bootstrap-trained regression trees. Tree growth
// is deterministic given Seed.
type RandomForest struct {
	NumTrees        int               `json:"num_trees"`
	MaxDepth        int               `json:"max_depth"`
	MinSamplesSplit int               `json:"min_samples_split"`
	Seed            int64             `json:"seed"`
	Trees           []*RegressionTree `json:"trees"`
}

// NewRandomForest creates an unfitted forest
func NewRandomForest(numTrees, maxDepth, minSamplesSplit int, seed int64) *RandomForest {
	return &RandomForest{
		NumTrees:        numTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		Seed:            seed,
	}
}

// Name implements Model
func (m *RandomForest) Name() string { return ModelForest }

// Clone implements Model
func (m *RandomForest) Clone() Model {
	return NewRandomForest(m.NumTrees, m.MaxDepth, m.MinSamplesSplit, m.Seed)
}

// Fit trains NumTrees trees on bootstrap resamples of the rows
func (m *RandomForest) Fit(X [][]float64, y []float64) error {
	n, _, err := checkDims(X, y)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(m.Seed))
	m.Trees = make([]*RegressionTree, 0, m.NumTrees)

	sampleX := make([][]float64, n)
	sampleY := make([]float64, n)
	for t := 0; t < m.NumTrees; t++ {
		for i := 0; i < n; i++ {
			k := rng.Intn(n)
			sampleX[i] = X[k]
			sampleY[i] = y[k]
		}

		tree := NewRegressionTree(m.MaxDepth, m.MinSamplesSplit)
		if err := tree.Fit(sampleX, sampleY); err != nil {
			return err
		}
		m.Trees = append(m.Trees, tree)
	}
	return nil
}

// Predict implements Model
func (m *RandomForest) Predict(x []float64) float64 {
	if len(m.Trees) == 0 {
		return 0
	}
	var sum float64
	for _, tree := range m.Trees {
		sum += tree.PredictRow(x)
	}
	return sum / float64(len(m.Trees))
}
