package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentperf/internal/pkg/apperrors"
)

const forestYAML = `
features: [semester_score, study_hours, attendance]
classes: [0, 1]
trees:
  - nodes:
      - {feature: 0, threshold: 50, left: 1, right: 2}
      - {value: [1, 0]}
      - {value: [0, 1]}
  - nodes:
      - {feature: 2, threshold: 70, left: 1, right: 2}
      - {value: [3, 1]}
      - {value: [1, 3]}
`

func TestLoadShippedArtifact(t *testing.T) {
	forest, err := Load(filepath.Join("..", "..", "..", "assets", "model.json"))
	require.NoError(t, err)
	assert.Equal(t, 3, forest.NumTrees())

	tests := []struct {
		name     string
		features []float64
		want     int
	}{
		{name: "weak student", features: []float64{50, 3, 60}, want: 0},
		{name: "very weak student", features: []float64{20, 1, 30}, want: 0},
		{name: "borderline score with good habits", features: []float64{58, 8, 80}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := forest.Predict(tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYAMLForest(t *testing.T) {
	forest, err := Parse([]byte(forestYAML))
	require.NoError(t, err)

	tests := []struct {
		name     string
		features []float64
		want     int
	}{
		// tree1 -> [1,0], tree2 -> [.75,.25]
		{name: "both trees fail", features: []float64{40, 5, 60}, want: 0},
		// tree1 -> [0,1], tree2 -> [.25,.75]
		{name: "both trees pass", features: []float64{55, 5, 80}, want: 1},
		// tree1 -> [0,1], tree2 -> [.75,.25]: mean [.375,.625]
		{name: "split vote", features: []float64{55, 5, 60}, want: 1},
		// tree1 -> [1,0], tree2 -> [.25,.75]: mean [.625,.375]
		{name: "split vote other way", features: []float64{50, 5, 80}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := forest.Predict(tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictRejectsBadInput(t *testing.T) {
	forest, err := Parse([]byte(forestYAML))
	require.NoError(t, err)

	_, err = forest.Predict([]float64{1, 2})
	assert.Error(t, err)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not an artifact", content: "::: nope"},
		{name: "wrong feature order", content: `{"features":["attendance","study_hours","semester_score"],"classes":[0,1],"trees":[{"nodes":[{"value":[1,1]}]}]}`},
		{name: "wrong classes", content: `{"features":["semester_score","study_hours","attendance"],"classes":[1,2],"trees":[{"nodes":[{"value":[1,1]}]}]}`},
		{name: "no trees", content: `{"features":["semester_score","study_hours","attendance"],"classes":[0,1],"trees":[]}`},
		{name: "backward child", content: `{"features":["semester_score","study_hours","attendance"],"classes":[0,1],"trees":[{"nodes":[{"feature":0,"threshold":1,"left":0,"right":1},{"value":[1,0]}]}]}`},
		{name: "feature out of range", content: `{"features":["semester_score","study_hours","attendance"],"classes":[0,1],"trees":[{"nodes":[{"feature":3,"threshold":1,"left":1,"right":2},{"value":[1,0]},{"value":[0,1]}]}]}`},
		{name: "zero leaf", content: `{"features":["semester_score","study_hours","attendance"],"classes":[0,1],"trees":[{"nodes":[{"value":[0,0]}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			assert.ErrorIs(t, err, apperrors.ErrArtifactLoad)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.ErrorIs(t, err, apperrors.ErrArtifactLoad)
	})
}
