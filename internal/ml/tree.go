package ml

import "sort"

// treeNode is one node of a fitted regression tree. Leaves carry the
// mean target of their training rows.
type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Value     float64   `json:"value"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// RegressionTree is a CART regressor splitting on squared-error reduction
type RegressionTree struct {
	MaxDepth        int       `json:"max_depth"`
	MinSamplesSplit int       `json:"min_samples_split"`
	Root            *treeNode `json:"root"`
}

// NewRegressionTree creates an unfitted tree
func NewRegressionTree(maxDepth, minSamplesSplit int) *RegressionTree {
	return &RegressionTree{MaxDepth: maxDepth, MinSamplesSplit: minSamplesSplit}
}

// Fit grows the tree on the given rows
func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
	if _, _, err := checkDims(X, y); err != nil {
		return err
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.Root = t.grow(X, y, idx, 0)
	return nil
}

// PredictRow walks the tree for one feature vector
func (t *RegressionTree) PredictRow(x []float64) float64 {
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func (t *RegressionTree) grow(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	mean := subsetMean(y, idx)
	if depth >= t.MaxDepth || len(idx) < t.MinSamplesSplit {
		return &treeNode{Leaf: true, Value: mean}
	}

	feature, threshold, ok := bestSplit(X, y, idx)
	if !ok {
		return &treeNode{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{Leaf: true, Value: mean}
	}

	return &treeNode{
		Value:     mean,
		Feature:   feature,
		Threshold: threshold,
		Left:      t.grow(X, y, left, depth+1),
		Right:     t.grow(X, y, right, depth+1),
	}
}

// bestSplit scans every feature for the threshold that minimizes the
// summed squared error of the two children. Candidate thresholds are
// midpoints between consecutive distinct values.
func bestSplit(X [][]float64, y []float64, idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	if n < 2 {
		return 0, 0, false
	}
	p := len(X[idx[0]])

	bestSSE := totalSSE(y, idx)
	improved := false

	order := make([]int, n)
	for j := 0; j < p; j++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][j] < X[order[b]][j] })

		// Running sums let each candidate split evaluate in O(1)
		var leftSum, leftSq float64
		rightSum, rightSq := 0.0, 0.0
		for _, i := range order {
			rightSum += y[i]
			rightSq += y[i] * y[i]
		}

		for k := 0; k < n-1; k++ {
			yi := y[order[k]]
			leftSum += yi
			leftSq += yi * yi
			rightSum -= yi
			rightSq -= yi * yi

			v, next := X[order[k]][j], X[order[k+1]][j]
			if v == next {
				continue
			}

			nl, nr := float64(k+1), float64(n-k-1)
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				feature = j
				threshold = (v + next) / 2
				improved = true
			}
		}
	}

	return feature, threshold, improved
}

func subsetMean(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func totalSSE(y []float64, idx []int) float64 {
	mean := subsetMean(y, idx)
	var sse float64
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return sse
}
