package runtime

import (
	"fmt"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/eval"
	"github.com/raulmonti/fig/pkg/types"
)

// ErrNotPinned is returned, unwrapped, when a Precondition or Postcondition is
// evaluated before Pin has run (spec testable property #7: "evaluating an
// unpinned precondition/postcondition raises a runtime error rather than
// silently returning a default").
type ErrNotPinned struct{ what string }

func (e *ErrNotPinned) Error() string { return fmt.Sprintf("%s evaluated before pinning", e.what) }

// Precondition is the compiled guard of a transition (spec §3.4, §4.7): an
// expression plus the distinct variables it reads. Pin resolves those reads
// to external state positions once, at model-build time; Eval reuses the
// resolved positions on every firing attempt.
type Precondition struct {
	Expr      ast.Expr
	reads     []string
	constants eval.Constants
	extPos    map[string]int
	pinned    bool
}

// NewPrecondition wraps guard (nil meaning "always true") for later pinning.
// constants resolves any global/module constant the guard references that
// isn't itself a state variable.
func NewPrecondition(guard ast.Expr, constants eval.Constants) *Precondition {
	if guard == nil {
		guard = &ast.BConst{Value: true, Type: types.Ground{Kind: types.Bool}}
	}

	return &Precondition{Expr: guard, reads: ast.ExprVars(guard), constants: constants}
}

// Reads returns the distinct variable names this precondition's guard
// reads.
func (p *Precondition) Reads() []string { return p.reads }

// Pin resolves every read name's external position from pos. Must run
// exactly once, before the first Eval.
func (p *Precondition) Pin(pos PositionsMap) {
	p.extPos = make(map[string]int, len(p.reads))

	for _, name := range p.reads {
		if i, ok := pos[name]; ok {
			p.extPos[name] = i
		}
	}

	p.pinned = true
}

// Eval evaluates the guard against state, returning an *ErrNotPinned if
// Pin has not run.
func (p *Precondition) Eval(state *State) (bool, error) {
	if !p.pinned {
		return false, &ErrNotPinned{"precondition"}
	}

	env := envFromState(state, p.extPos, p.reads)

	res := eval.FoldWithEnv(p.Expr, p.constants, env)
	if !res.Reducible || res.Value.Kind != types.Bool {
		return false, fmt.Errorf("precondition did not reduce to a boolean")
	}

	return res.Value.B, nil
}

// envFromState builds the env eval.FoldWithEnv expects, reading only the
// given names (a precondition's or postcondition's distinct reads) out of
// state via their already-pinned external positions. An array name
// contributes its whole region as one Value with Kind array-of-element.
func envFromState(state *State, extPos map[string]int, names []string) map[string]types.Value {
	env := make(map[string]types.Value, len(names))

	for _, name := range names {
		pos, ok := extPos[name]
		if !ok {
			continue
		}

		if size := state.ArraySize(name); size > 0 {
			arr := make([]types.Value, size)

			for i := 0; i < size; i++ {
				arr[i] = cellValue(state, pos+i)
			}

			kind := types.ArrayOfInt
			if state.CellKind(pos) == BoolCell {
				kind = types.ArrayOfBool
			}

			env[name] = types.Value{Kind: kind, Arr: arr}

			continue
		}

		env[name] = cellValue(state, pos)
	}

	return env
}

func cellValue(state *State, pos int) types.Value {
	if state.CellKind(pos) == BoolCell {
		return types.BoolVal(state.Get(pos) != 0)
	}

	return types.IntVal(state.Get(pos))
}

func setCellValue(state *State, pos int, v types.Value) {
	if v.Kind == types.Bool {
		if v.B {
			state.Set(pos, 1)
		} else {
			state.Set(pos, 0)
		}

		return
	}

	state.Set(pos, v.I)
}
