package classifier

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// Rule is the configurable fast-path expression. When it holds, the outcome is Pass
// and the classifier is not consulted.
//
// Available parameters: semester_score, study_hours, attendance, min_score, min_attendance.
type Rule struct {
	source        string
	expression    *govaluate.EvaluableExpression
	minScore      float64
	minAttendance float64
}

// NewRule compiles expr and checks that it yields a boolean
func NewRule(expr string, minScore, minAttendance float64) (*Rule, error) {
	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid fast path rule %q: %w", expr, err)
	}

	rule := &Rule{
		source:        expr,
		expression:    expression,
		minScore:      minScore,
		minAttendance: minAttendance,
	}

	// A dry run catches unknown parameters and non-boolean results at startup
	if _, err := rule.Holds(0, 0, 0); err != nil {
		return nil, err
	}
	return rule, nil
}

// String returns the rule source
func (r *Rule) String() string {
	return r.source
}

// Holds evaluates the rule for one set of inputs
func (r *Rule) Holds(score, studyHours, attendance float64) (bool, error) {
	result, err := r.expression.Evaluate(map[string]interface{}{
		"semester_score": score,
		"study_hours":    studyHours,
		"attendance":     attendance,
		"min_score":      r.minScore,
		"min_attendance": r.minAttendance,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate fast path rule: %w", err)
	}

	holds, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("fast path rule %q returned %T, want bool", r.source, result)
	}
	return holds, nil
}
