package estimate

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/raulmonti/fig/pkg/runtime"
	"github.com/raulmonti/fig/pkg/util"
)

// initialBatch is the run count the first estimate_value attempt requests;
// a failed (invalid) attempt doubles it rather than retrying at the same
// size (spec §4.9, testable property #10).
const initialBatch = 1 << 10

// maxBatch bounds the doubling so a pathologically unreachable property
// cannot loop forever requesting larger and larger batches.
const maxBatch = 1 << 24

// Estimate is one row of the controller's cross product result: one
// property, one importance strategy, one engine, one stopping target, and
// either the confidence interval that satisfied it or the error that
// stopped the attempt early.
type Estimate struct {
	Property string
	Strategy string
	Engine   string
	Goal     ConfidenceCriterion
	Interval ConfidenceInterval
	Err      error
}

// Controller drives the full cross product of properties x importance
// strategies x engines x stopping criteria described by spec §4.9: for
// every property, every strategy assesses it once; every engine compatible
// with both the strategy and the property kind then runs either the
// confidence-based or time-budget-based estimation loop, for every
// criterion or budget the goal names.
type Controller struct {
	Strategies []ImportanceStrategy
	Engines    []SimulationEngine
	Goal       StoppingGoal

	// NewInterval selects which ConfidenceInterval implementation to use
	// for a property of the given kind, at the given confidence level. The
	// model builder's property kind determines the closed form: Transient
	// probabilities are indicator proportions (Wilson scores hold up near
	// 0); Rate and TBoundSS observations are treated as real-valued means.
	NewInterval func(kind runtime.PropertyKind, level float64) ConfidenceInterval
}

// NewController returns a Controller with the default interval selection
// (Wilson for Transient, Mean for Rate and TBoundSS).
func NewController(strategies []ImportanceStrategy, engines []SimulationEngine, goal StoppingGoal) *Controller {
	return &Controller{
		Strategies:  strategies,
		Engines:     engines,
		Goal:        goal,
		NewInterval: defaultInterval,
	}
}

func defaultInterval(kind runtime.PropertyKind, level float64) ConfidenceInterval {
	switch kind {
	case runtime.TransientProperty:
		return NewWilson(level)
	default:
		return NewMean(level)
	}
}

// Run executes the cross product over properties, returning one Estimate
// per (property, strategy, engine, criterion-or-budget) combination the
// strategy/engine compatibility filters let through. Properties are
// independent of one another (each only reads network and pins its own
// Precondition state), so they run concurrently via util.ParMap.
func (c *Controller) Run(ctx context.Context, network *runtime.ModuleNetwork, properties map[string]*runtime.Property) []Estimate {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}

	grouped, _ := util.ParMap(names, func(name string) ([]Estimate, error) {
		return c.runProperty(ctx, network, name, properties[name]), nil
	})

	var results []Estimate
	for _, g := range grouped {
		results = append(results, g...)
	}

	return results
}

func (c *Controller) runProperty(ctx context.Context, network *runtime.ModuleNetwork, name string, prop *runtime.Property) []Estimate {
	var results []Estimate

	for _, strat := range c.Strategies {
		ifun, err := strat.Assess(network, prop)
		if err != nil {
			results = append(results, Estimate{Property: name, Strategy: strat.Name(), Err: err})
			continue
		}

		for _, engine := range c.Engines {
			if !engine.Accepts(strat) || !engine.AcceptsKind(prop.Kind) {
				continue
			}

			results = append(results, c.runOne(ctx, network, name, prop, strat, engine, ifun)...)
		}

		ifun.Release()
	}

	return results
}

func (c *Controller) runOne(ctx context.Context, network *runtime.ModuleNetwork, name string, prop *runtime.Property, strat ImportanceStrategy, engine SimulationEngine, ifun ImportanceFunction) []Estimate {
	if c.Goal.IsValue() {
		out := make([]Estimate, 0, len(c.Goal.Confidence))

		for _, crit := range c.Goal.Confidence {
			interval, err := c.estimateValue(ctx, network, prop, engine, ifun, crit)
			out = append(out, Estimate{Property: name, Strategy: strat.Name(), Engine: engine.Name(), Goal: crit, Interval: interval, Err: err})
		}

		return out
	}

	out := make([]Estimate, 0, len(c.Goal.TimeBudgets))

	for _, budget := range c.Goal.TimeBudgets {
		interval, err := c.estimateBudget(ctx, network, prop, engine, ifun, budget)
		out = append(out, Estimate{Property: name, Strategy: strat.Name(), Engine: engine.Name(), Interval: interval, Err: err})
	}

	return out
}

// estimateValue requests batches of runs, doubling the batch size whenever
// the engine reports an invalid estimate, folding every valid observation
// into interval until crit is satisfied (spec §4.9, scenario S5).
func (c *Controller) estimateValue(ctx context.Context, network *runtime.ModuleNetwork, prop *runtime.Property, engine SimulationEngine, ifun ImportanceFunction, crit ConfidenceCriterion) (ConfidenceInterval, error) {
	interval := c.NewInterval(prop.Kind, crit.Level)
	batch := initialBatch

	for !interval.Satisfied(crit) {
		if err := ctx.Err(); err != nil {
			return interval, err
		}

		result, err := engine.Simulate(ctx, network, prop, ifun, batch)
		if err != nil {
			return interval, err
		}

		if result.IsInvalid {
			if batch >= maxBatch {
				return interval, fmt.Errorf("estimate: batch size reached %d without a valid estimate", maxBatch)
			}

			log.Debugf("estimate: invalid batch of %d runs, doubling", batch)
			batch *= 2

			continue
		}

		interval.Update(result.Value)
	}

	return interval, nil
}

// estimateBudget runs fixed-size batches until either budget elapses or ctx
// is otherwise cancelled, checking the deadline between batches rather than
// mid-batch so an engine never needs to poll for cancellation itself (spec
// §4.9, scenario S6: a cooperative time budget).
func (c *Controller) estimateBudget(ctx context.Context, network *runtime.ModuleNetwork, prop *runtime.Property, engine SimulationEngine, ifun ImportanceFunction, budget time.Duration) (ConfidenceInterval, error) {
	interval := c.NewInterval(prop.Kind, 0.95)

	bctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	for {
		if err := bctx.Err(); err != nil {
			return interval, nil
		}

		result, err := engine.Simulate(bctx, network, prop, ifun, initialBatch)
		if err != nil {
			return interval, err
		}

		if result.IsInvalid {
			continue
		}

		interval.Update(result.Value)
	}
}
