package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yigit/studentperf/internal/pkg/apperrors"
)

// FeatureOrder is the column order every artifact must be trained on
var FeatureOrder = []string{"semester_score", "study_hours", "attendance"}

// Node is one entry of a tree's flat node array. A node with Value set is a leaf;
// otherwise samples with x[Feature] <= Threshold continue at Left, the rest at Right.
type Node struct {
	Feature   int       `yaml:"feature" json:"feature"`
	Threshold float64   `yaml:"threshold" json:"threshold"`
	Left      int       `yaml:"left" json:"left"`
	Right     int       `yaml:"right" json:"right"`
	Value     []float64 `yaml:"value" json:"value"`
}

func (n Node) isLeaf() bool {
	return len(n.Value) > 0
}

// Tree is a single decision tree rooted at Nodes[0]
type Tree struct {
	Nodes []Node `yaml:"nodes" json:"nodes"`
}

// Artifact is the on-disk form of a trained forest
type Artifact struct {
	Features []string `yaml:"features" json:"features"`
	Classes  []int    `yaml:"classes" json:"classes"`
	Trees    []Tree   `yaml:"trees" json:"trees"`
}

// Load reads and validates the artifact at path. JSON and YAML files are both accepted.
// Every failure is reported as apperrors.ErrArtifactLoad.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrArtifactLoad, err)
	}
	return Parse(data)
}

// Parse decodes and validates an artifact held in memory
func Parse(data []byte) (*Forest, error) {
	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", apperrors.ErrArtifactLoad, err)
	}
	if err := artifact.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrArtifactLoad, err)
	}
	return newForest(artifact), nil
}

func (a Artifact) validate() error {
	if len(a.Features) != len(FeatureOrder) {
		return fmt.Errorf("expected features %v, got %v", FeatureOrder, a.Features)
	}
	for i, name := range FeatureOrder {
		if a.Features[i] != name {
			return fmt.Errorf("expected features %v, got %v", FeatureOrder, a.Features)
		}
	}

	if len(a.Classes) != 2 || a.Classes[0] != 0 || a.Classes[1] != 1 {
		return fmt.Errorf("expected classes [0 1], got %v", a.Classes)
	}

	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact has no trees")
	}

	for t, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", t)
		}
		for i, node := range tree.Nodes {
			if node.isLeaf() {
				if len(node.Value) != len(a.Classes) {
					return fmt.Errorf("tree %d node %d: leaf has %d weights, want %d", t, i, len(node.Value), len(a.Classes))
				}
				var sum float64
				for _, w := range node.Value {
					if w < 0 {
						return fmt.Errorf("tree %d node %d: negative class weight", t, i)
					}
					sum += w
				}
				if sum == 0 {
					return fmt.Errorf("tree %d node %d: leaf weights sum to zero", t, i)
				}
				continue
			}

			if node.Feature < 0 || node.Feature >= len(FeatureOrder) {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", t, i, node.Feature)
			}
			// Children must point forward, which rules out cycles.
			for _, child := range []int{node.Left, node.Right} {
				if child <= i || child >= len(tree.Nodes) {
					return fmt.Errorf("tree %d node %d: invalid child index %d", t, i, child)
				}
			}
		}
	}

	return nil
}
