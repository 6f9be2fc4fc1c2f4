package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultRule = "semester_score >= min_score && attendance >= min_attendance"

func TestRuleHolds(t *testing.T) {
	rule, err := NewRule(defaultRule, 60, 75)
	require.NoError(t, err)

	tests := []struct {
		name                     string
		score, hours, attendance float64
		want                     bool
	}{
		{name: "both above", score: 65, hours: 5, attendance: 80, want: true},
		{name: "exactly on thresholds", score: 60, hours: 0, attendance: 75, want: true},
		{name: "score below", score: 59.9, hours: 12, attendance: 100, want: false},
		{name: "attendance below", score: 100, hours: 12, attendance: 74.9, want: false},
		{name: "both below", score: 50, hours: 3, attendance: 60, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rule.Holds(tt.score, tt.hours, tt.attendance)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleUsesConfiguredThresholds(t *testing.T) {
	rule, err := NewRule(defaultRule, 70, 90)
	require.NoError(t, err)

	holds, err := rule.Holds(65, 5, 80)
	require.NoError(t, err)
	assert.False(t, holds)
}

func TestNewRuleRejectsBadExpressions(t *testing.T) {
	for _, expr := range []string{
		"semester_score >=",
		"semester_score + attendance",
		"unknown_param > 1",
	} {
		_, err := NewRule(expr, 60, 75)
		assert.Error(t, err, expr)
	}
}
