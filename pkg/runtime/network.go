package runtime

import (
	"fmt"

	"github.com/raulmonti/fig/pkg/ast"
)

// Clock is a compiled clock reset: the distribution family plus its
// compile-time-folded parameter values (spec §4.3 decides distribution
// parameters must reduce to constants; §4.7 describes the reset itself).
type Clock struct {
	Name   string
	Module string
	Kind   ast.DistKind
	Params []float64
}

// Transition is one compiled transition of a module: its label, kind,
// trigger clock (empty for input transitions), guard and per-branch effects.
type Transition struct {
	Label        string
	Kind         ast.LabelKind
	TriggerClock string
	Guard        *Precondition
	Branches     []*Postcondition
	Weights      []float64
}

// ModuleInstance is one compiled IOSA module: its clocks and compiled
// transitions, plus the subset of the network State that belongs to it.
type ModuleInstance struct {
	Name        string
	Clocks      []*Clock
	Transitions []*Transition
	varNames    []string
}

// NewModuleInstance constructs a module with its declared variable/array
// names fixed at build time; varNames determines the order SealPopulator
// pushes this module's cells into the shared State.
func NewModuleInstance(name string, varNames []string) *ModuleInstance {
	return &ModuleInstance{Name: name, varNames: varNames}
}

// VarNames returns the names of every variable and array this module
// declares, in declaration order.
func (m *ModuleInstance) VarNames() []string { return m.varNames }

// ModuleNetwork composes every module of a model into one simulation unit
// (spec §4.7): a shared State, one ModuleInstance per module, and the
// synchronization structure (shared labels) engines use to fire input and
// output transitions together. Sealing is one-shot: AddModule after Seal
// raises an error rather than silently mutating a network an engine may
// already be running against.
type ModuleNetwork struct {
	modules []*ModuleInstance
	byLabel map[string][]*Transition
	state   *State
	sealed  bool
}

// NewModuleNetwork returns an empty, unsealed network.
func NewModuleNetwork() *ModuleNetwork {
	return &ModuleNetwork{byLabel: map[string][]*Transition{}, state: NewState()}
}

// ErrSealed is returned, unwrapped, by any mutating call made after Seal.
type ErrSealed struct{ op string }

func (e *ErrSealed) Error() string { return fmt.Sprintf("runtime: %s after seal", e.op) }

// AddModule registers a compiled module. It must be called before Seal.
func (n *ModuleNetwork) AddModule(m *ModuleInstance) error {
	if n.sealed {
		return &ErrSealed{"add_module"}
	}

	n.modules = append(n.modules, m)

	for _, t := range m.Transitions {
		n.byLabel[t.Label] = append(n.byLabel[t.Label], t)
	}

	return nil
}

// Modules returns every registered module, in registration order.
func (n *ModuleNetwork) Modules() []*ModuleInstance { return n.modules }

// ByLabel returns every transition across every module sharing label, the
// synchronization set an engine fires together.
func (n *ModuleNetwork) ByLabel(label string) []*Transition { return n.byLabel[label] }

// State returns the network's shared value store. Valid only after Seal.
func (n *ModuleNetwork) State() *State { return n.state }

// Sealed reports whether Seal has run.
func (n *ModuleNetwork) Sealed() bool { return n.sealed }

// SealPopulator is supplied by the model builder (C7): for each module, it
// knows how to push that module's declared variables and arrays into a
// shared State in the module's own declaration order. Kept as an injected
// function rather than a ModuleNetwork method so this package stays
// agnostic of the AST shapes C7 lowers from.
type SealPopulator func(mod *ModuleInstance, state *State)

// Seal assigns every module's variables a position in the shared State via
// populate, then pins every module's preconditions and postconditions to
// those positions. After Seal, AddModule returns ErrSealed.
func (n *ModuleNetwork) Seal(populate SealPopulator) error {
	if n.sealed {
		return &ErrSealed{"seal"}
	}

	for _, m := range n.modules {
		populate(m, n.state)
	}

	pos := n.state.Positions()
	sizes := make(map[string]int, len(pos))

	for name := range pos {
		if size := n.state.ArraySize(name); size > 0 {
			sizes[name] = size
		}
	}

	for _, m := range n.modules {
		for _, t := range m.Transitions {
			t.Guard.Pin(pos)

			for _, br := range t.Branches {
				br.Pin(pos, sizes)
			}
		}
	}

	n.sealed = true

	return nil
}
