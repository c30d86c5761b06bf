package estimate

import (
	"context"
	"fmt"

	"github.com/raulmonti/fig/pkg/runtime"
)

// UnimplementedStrategy and UnimplementedEngine stand in for the importance
// strategies and simulation engines spec §6's CLI surface names
// (auto/adhoc/split-auto, nosplit/restart/fixed-effort/sfe/bfe) that are
// external collaborators per spec §1 Non-goals: their internals (threshold
// building, RNG sampling, the traial stepping loop) are out of scope. They
// satisfy the controller's interfaces so the cross product still runs end
// to end; Assess/Simulate report a clear error instead of silently
// fabricating a result.
type UnimplementedStrategy struct{ NameValue string }

func (s UnimplementedStrategy) Name() string { return s.NameValue }

func (s UnimplementedStrategy) Assess(*runtime.ModuleNetwork, *runtime.Property) (ImportanceFunction, error) {
	return nil, fmt.Errorf("importance strategy %q is not implemented", s.NameValue)
}

type UnimplementedEngine struct{ NameValue string }

func (e UnimplementedEngine) Name() string { return e.NameValue }
func (e UnimplementedEngine) Accepts(ImportanceStrategy) bool { return true }
func (e UnimplementedEngine) AcceptsKind(runtime.PropertyKind) bool { return true }

func (e UnimplementedEngine) Simulate(context.Context, *runtime.ModuleNetwork, *runtime.Property, ImportanceFunction, int) (SimulationResult, error) {
	return SimulationResult{}, fmt.Errorf("engine %q is not implemented", e.NameValue)
}
