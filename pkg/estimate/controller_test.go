package estimate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/runtime"
)

// fakeEngine always returns a fixed batch of identical values, going
// invalid for the first few calls to exercise estimate_value's doubling
// retry (spec §4.9, testable property #10).
type fakeEngine struct {
	invalidCalls int
	calls        int
	value        float64
}

func (e *fakeEngine) Name() string                         { return "fake" }
func (e *fakeEngine) Accepts(ImportanceStrategy) bool       { return true }
func (e *fakeEngine) AcceptsKind(runtime.PropertyKind) bool { return true }

func (e *fakeEngine) Simulate(_ context.Context, _ *runtime.ModuleNetwork, _ *runtime.Property, _ ImportanceFunction, n int) (SimulationResult, error) {
	e.calls++

	if e.calls <= e.invalidCalls {
		return SimulationResult{IsInvalid: true}, nil
	}

	return SimulationResult{Value: e.value}, nil
}

func TestEstimateValueDoublesBatchOnInvalidResult(t *testing.T) {
	c := NewController(nil, nil, StoppingGoal{Confidence: []ConfidenceCriterion{{Level: 0.95, Precision: 0.5}}})
	engine := &fakeEngine{invalidCalls: 2, value: 1.0}
	prop := &runtime.Property{Kind: runtime.RateProperty}

	interval, err := c.estimateValue(context.Background(), nil, prop, engine, nullFunction{}, ConfidenceCriterion{Level: 0.95, Precision: 0.5})

	assert.NoError(t, err)
	assert.Equal(t, 3, engine.calls)
	assert.InDelta(t, 1.0, interval.Point(), 1e-9)
	// One valid batch must fold into the interval exactly once, not once
	// per simulated trajectory (spec.md scenario S5).
	assert.EqualValues(t, 1, interval.N())
}

func TestRunReportsUnimplementedEngineAsRowError(t *testing.T) {
	strat := NullStrategy{}
	engine := UnimplementedEngine{NameValue: "nosplit"}
	network := runtime.NewModuleNetwork()
	_ = network.Seal(func(*runtime.ModuleInstance, *runtime.State) {})

	c := NewController([]ImportanceStrategy{strat}, []SimulationEngine{engine}, StoppingGoal{Confidence: []ConfidenceCriterion{{Level: 0.95, Precision: 0.1}}})
	prop := &runtime.Property{Kind: runtime.TransientProperty, Left: runtime.NewPrecondition(nil, nil), Right: runtime.NewPrecondition(nil, nil)}
	prop.Pin(network.State().Positions())

	results := c.Run(context.Background(), network, map[string]*runtime.Property{"p": prop})

	assert.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
