package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfidence(t *testing.T) {
	crit, err := parseConfidence("0.95,0.05")
	assert.NoError(t, err)
	assert.Equal(t, 0.95, crit.Level)
	assert.Equal(t, 0.05, crit.Precision)
	assert.False(t, crit.Relative)

	crit, err = parseConfidence("0.99, 0.1, true")
	assert.NoError(t, err)
	assert.True(t, crit.Relative)

	_, err = parseConfidence("0.95")
	assert.Error(t, err)

	_, err = parseConfidence("not-a-number,0.1")
	assert.Error(t, err)
}

func TestParseGoalRejectsMixedFlags(t *testing.T) {
	_, err := parseGoal([]string{"0.95,0.1"}, []string{"60"})
	assert.Error(t, err)
}

func TestParseGoalDefaultsToConfidence(t *testing.T) {
	goal, err := parseGoal(nil, nil)
	assert.NoError(t, err)
	assert.True(t, goal.IsValue())
	assert.Len(t, goal.Confidence, 1)
}

func TestParseGoalBudgets(t *testing.T) {
	goal, err := parseGoal(nil, []string{"30", "60.5"})
	assert.NoError(t, err)
	assert.False(t, goal.IsValue())
	assert.Len(t, goal.TimeBudgets, 2)
}

func TestParseStrategiesUnknownName(t *testing.T) {
	_, err := parseStrategies([]string{"bogus"})
	assert.Error(t, err)
}

func TestParseStrategiesDefaultsToNull(t *testing.T) {
	strategies, err := parseStrategies(nil)
	assert.NoError(t, err)
	assert.Len(t, strategies, 1)
	assert.Equal(t, "null", strategies[0].Name())
}

func TestParseEnginesUnknownName(t *testing.T) {
	_, err := parseEngines([]string{"bogus"})
	assert.Error(t, err)
}
