package estimate

import (
	"context"

	"github.com/raulmonti/fig/pkg/runtime"
)

// ImportanceFunction is an assessment of a property's rare states already
// bound to one network, as produced by an ImportanceStrategy. Its internal
// representation (flat, split, auto-ifun, ad hoc) is entirely owned by the
// strategy that built it (spec §1 Non-goals: importance-function internals
// are out of scope); the controller only ever holds it opaquely and
// releases it once an engine no longer needs it.
type ImportanceFunction interface {
	// Name identifies the strategy that produced this function, for
	// reporting.
	Name() string

	// Release frees any resources the function holds (e.g. a projector's
	// cached clause split). Safe to call once, after every engine pass
	// using this function has finished.
	Release()
}

// ImportanceStrategy builds an ImportanceFunction for one property over one
// network. Concrete strategies (flat, split, auto-ifun) are external
// collaborators; this package only defines the contract the controller
// drives them through.
type ImportanceStrategy interface {
	Name() string
	Assess(network *runtime.ModuleNetwork, prop *runtime.Property) (ImportanceFunction, error)
}

// SimulationResult is the outcome of one batch of simulation runs: either a
// single point estimate for the whole batch, usable by a ConfidenceInterval,
// or an invalid batch (spec §4.9, testable property #10: "an invalid
// estimate doubles the next batch's run count rather than being folded into
// the interval"). A batch folds into the interval at most once regardless of
// its size (spec.md scenario S5: "final CI is updated exactly once"), so the
// engine itself is responsible for reducing its n trajectories to one value
// before returning.
type SimulationResult struct {
	Value     float64
	IsInvalid bool
}

// SimulationEngine runs batches of simulation trajectories against a
// network, a property and an importance function until either a fixed
// number of runs completes or a context deadline/cancellation fires. The
// concrete random-number distributions and traial execution loop of a real
// engine (Nosplit, RESTART, fixed effort, branch-and-fuse) are out of
// scope; this interface is the seam the estimation controller drives.
type SimulationEngine interface {
	Name() string

	// Accepts reports whether this engine can run against importance
	// functions built by strat (e.g. RESTART requires a split ifun).
	Accepts(strat ImportanceStrategy) bool

	// AcceptsKind reports whether this engine supports the given property
	// kind.
	AcceptsKind(kind runtime.PropertyKind) bool

	// Simulate runs exactly n trajectories and returns one SimulationResult
	// summarising them.
	Simulate(ctx context.Context, network *runtime.ModuleNetwork, prop *runtime.Property, ifun ImportanceFunction, n int) (SimulationResult, error)
}
