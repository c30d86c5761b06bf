// Package estimate implements C9, the estimation controller: the
// property × importance-strategy × engine × stopping-criterion cross
// product driver described in spec §4.9, plus the ConfidenceInterval
// estimators it feeds. Simulation engines and importance strategies
// themselves are external collaborators (spec §1 Non-goals); this package
// defines only the interfaces the controller drives them through.
package estimate

import "time"

// ConfidenceCriterion is a stopping rule: stop once the estimator's
// interval half-width is within precision of the point estimate (relative)
// or an absolute bound (spec Glossary).
type ConfidenceCriterion struct {
	Level     float64
	Precision float64
	Relative  bool
}

// StoppingGoal is either a list of confidence criteria or a list of time
// budgets, never both (spec §4.9's cross-product branches on goal.is_value()).
type StoppingGoal struct {
	Confidence  []ConfidenceCriterion
	TimeBudgets []time.Duration
}

// IsValue reports whether this goal drives estimate_value (confidence
// criteria) rather than estimate_budget (time budgets).
func (g StoppingGoal) IsValue() bool { return len(g.Confidence) > 0 }
