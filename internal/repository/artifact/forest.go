package artifact

import (
	"errors"
	"fmt"
	"math"
)

// TreeNode is one node of an exported decision tree.
// Left < 0 marks a leaf; Value holds class counts or probabilities.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// IsLeaf reports whether the node has no children
func (n TreeNode) IsLeaf() bool {
	return n.Left < 0
}

// Tree is a single decision tree, root at index 0
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Forest is a random forest classifier exported from the training pipeline
type Forest struct {
	NFeatures int    `json:"n_features"`
	NClasses  int    `json:"n_classes"`
	Trees     []Tree `json:"trees"`
}

var errEmptyForest = errors.New("forest has no trees")

// Validate checks the forest structure so that inference can never index out of range
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("n_features must be positive, got %d", f.NFeatures)
	}
	if f.NClasses < 2 {
		return fmt.Errorf("n_classes must be at least 2, got %d", f.NClasses)
	}
	if len(f.Trees) == 0 {
		return errEmptyForest
	}

	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.IsLeaf() {
				if len(node.Value) != f.NClasses {
					return fmt.Errorf("tree %d node %d: value has %d entries, want %d", ti, ni, len(node.Value), f.NClasses)
				}
				for _, v := range node.Value {
					if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
						return fmt.Errorf("tree %d node %d: invalid leaf value %v", ti, ni, v)
					}
				}
				if sum(node.Value) <= 0 {
					return fmt.Errorf("tree %d node %d: leaf value sums to zero", ti, ni)
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= f.NFeatures {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, node.Feature)
			}
			// children always follow their parent, which also rules out cycles
			if node.Left <= ni || node.Left >= len(tree.Nodes) || node.Right <= ni || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: invalid children (%d, %d)", ti, ni, node.Left, node.Right)
			}
		}
	}
	return nil
}

// PredictProba averages the normalized leaf distributions of every tree
func (f *Forest) PredictProba(row []float64) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, errEmptyForest
	}
	if len(row) != f.NFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", f.NFeatures, len(row))
	}
	for i, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("feature %d is not finite", i)
		}
	}

	proba := make([]float64, f.NClasses)
	for _, tree := range f.Trees {
		leaf := tree.leaf(row)
		total := sum(leaf.Value)
		for c, v := range leaf.Value {
			proba[c] += v / total
		}
	}

	n := float64(len(f.Trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

// Predict returns the index of the most probable class (first one on ties)
func (f *Forest) Predict(row []float64) (int, error) {
	proba, err := f.PredictProba(row)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}

func (t Tree) leaf(row []float64) TreeNode {
	node := t.Nodes[0]
	for !node.IsLeaf() {
		if row[node.Feature] <= node.Threshold {
			node = t.Nodes[node.Left]
		} else {
			node = t.Nodes[node.Right]
		}
	}
	return node
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
