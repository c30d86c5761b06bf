package estimate

import "github.com/raulmonti/fig/pkg/runtime"

// nullFunction is the ImportanceFunction NullStrategy hands out: importance
// 0 everywhere, i.e. no splitting at all. Release is a no-op since it holds
// no resources.
type nullFunction struct{}

func (nullFunction) Name() string { return "null" }
func (nullFunction) Release()     {}

// NullStrategy is the degenerate importance strategy named in spec §6's
// --imp-strategy enum: every state gets importance 0, so an engine running
// against it performs plain Monte Carlo with no importance splitting. It
// needs no network traversal, unlike auto/adhoc/split-auto which build a
// real importance landscape (those remain external collaborators; spec §1
// Non-goals puts importance-function internals out of scope).
type NullStrategy struct{}

func (NullStrategy) Name() string { return "null" }

func (NullStrategy) Assess(*runtime.ModuleNetwork, *runtime.Property) (ImportanceFunction, error) {
	return nullFunction{}, nil
}
