package classifier

import (
	"fmt"
	"math"
)

// Classifier predicts a class (0 or 1) from [semester_score, study_hours, attendance].
type Classifier interface {
	Predict(features []float64) (int, error)
}

// Forest is a loaded tree ensemble. It is immutable after load and safe for concurrent use.
type Forest struct {
	classes []int
	trees   []Tree
}

func newForest(a Artifact) *Forest {
	return &Forest{classes: a.Classes, trees: a.Trees}
}

// NumTrees returns the size of the ensemble
func (f *Forest) NumTrees() int {
	return len(f.trees)
}

// Predict averages the normalised class distribution of every tree and returns
// the class with the highest mean probability. Ties go to the lower class.
func (f *Forest) Predict(features []float64) (int, error) {
	if len(features) != len(FeatureOrder) {
		return 0, fmt.Errorf("expected %d features, got %d", len(FeatureOrder), len(features))
	}
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("feature %s is not a finite number", FeatureOrder[i])
		}
	}

	probs := make([]float64, len(f.classes))
	for _, tree := range f.trees {
		leaf := tree.leaf(features)
		var total float64
		for _, w := range leaf.Value {
			total += w
		}
		for c, w := range leaf.Value {
			probs[c] += w / total
		}
	}

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return f.classes[best], nil
}

// leaf walks the tree from the root. Children always point forward, so the walk terminates.
func (t Tree) leaf(features []float64) Node {
	node := t.Nodes[0]
	for !node.isLeaf() {
		if features[node.Feature] <= node.Threshold {
			node = t.Nodes[node.Left]
		} else {
			node = t.Nodes[node.Right]
		}
	}
	return node
}
