package runtime

import (
	"fmt"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/eval"
	"github.com/raulmonti/fig/pkg/types"
)

// acceptorKind distinguishes where one evaluated right-hand side gets
// written back, mirroring the original ExpStateUpdater's VarAcceptor vs.
// ArrayAcceptor split (grounded on original_source/include/ExpStateUpdater.h)
// without the C++ tagged-union encoding.
type acceptorKind uint8

const (
	simpleAcceptor acceptorKind = iota
	arrayAcceptor
)

type resultAcceptor struct {
	kind   acceptorKind
	name   string
	extPos int // first cell of name, resolved by Pin
	idxPos int // index into Updater.indices, for arrayAcceptor only
}

// Updater batches the assignments of one transition branch into a single
// evaluation pass: every right-hand side (and every array-location index
// expression) is folded once against the pre-firing state, and only then
// are the results written back — giving branches the simultaneous-update
// semantics spec §4.7 requires (no assignment observes another's effect).
type Updater struct {
	rhs       []ast.Expr
	indices   []ast.Expr
	acceptors []resultAcceptor
	reads     []string
	constants eval.Constants
	extPos    map[string]int
	arraySize map[string]int
	pinned    bool
}

// NewUpdater compiles one branch's assignment list. constants resolves any
// name an assignment references that is not itself a state variable.
func NewUpdater(assignments []*ast.Assignment, constants eval.Constants) *Updater {
	u := &Updater{constants: constants}
	seen := map[string]bool{}

	addReads := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				u.reads = append(u.reads, n)
			}
		}
	}

	for _, a := range assignments {
		u.rhs = append(u.rhs, a.Rhs)
		addReads(ast.ExprVars(a.Rhs))

		switch loc := a.Loc.(type) {
		case *ast.Identifier:
			u.acceptors = append(u.acceptors, resultAcceptor{kind: simpleAcceptor, name: loc.Name})
		case *ast.IndexedIdentifier:
			idxPos := len(u.indices)
			u.indices = append(u.indices, loc.Index)
			addReads(ast.ExprVars(loc.Index))
			u.acceptors = append(u.acceptors, resultAcceptor{kind: arrayAcceptor, name: loc.Name, idxPos: idxPos})
		default:
			panic(fmt.Sprintf("runtime: unsupported assignment location %T", loc))
		}
	}

	return u
}

// Reads returns the distinct variable names this updater's expressions
// read, including array index expressions.
func (u *Updater) Reads() []string { return u.reads }

// Writes returns the distinct variable/array names this updater writes.
func (u *Updater) Writes() []string {
	seen := map[string]bool{}

	var out []string

	for _, a := range u.acceptors {
		if !seen[a.name] {
			seen[a.name] = true
			out = append(out, a.name)
		}
	}

	return out
}

// Pin resolves every read and written name's external position, plus every
// written array's size. Must run exactly once before the first Apply.
func (u *Updater) Pin(pos PositionsMap, sizes map[string]int) {
	u.extPos = make(map[string]int, len(pos))
	for name, p := range pos {
		u.extPos[name] = p
	}

	u.arraySize = sizes

	for i := range u.acceptors {
		if p, ok := pos[u.acceptors[i].name]; ok {
			u.acceptors[i].extPos = p
		}
	}

	u.pinned = true
}

// Apply folds every right-hand side and index expression against the
// pre-firing state, then writes every result back. It returns an
// *ErrNotPinned if Pin has not run, and a plain error if any
// expression fails to reduce or an array index is out of range.
func (u *Updater) Apply(state *State) error {
	if !u.pinned {
		return &ErrNotPinned{"postcondition"}
	}

	env := envFromState(state, u.extPos, u.reads)

	results := make([]types.Value, len(u.rhs))

	for i, e := range u.rhs {
		res := eval.FoldWithEnv(e, u.constants, env)
		if !res.Reducible {
			return fmt.Errorf("assignment %d did not reduce to a value", i)
		}

		results[i] = res.Value
	}

	indexResults := make([]int64, len(u.indices))

	for i, e := range u.indices {
		res := eval.FoldWithEnv(e, u.constants, env)
		if !res.Reducible || res.Value.Kind != types.Int {
			return fmt.Errorf("array index expression %d did not reduce to an int", i)
		}

		indexResults[i] = res.Value.I
	}

	// broken(array, j) mutates its array argument's env entry in place
	// (pkg/eval/arrayfuncs.go); flush every array env back into state so
	// that mutation is committed even though it happened as a side effect
	// of folding one of the rhs expressions above, not through an acceptor.
	for name, v := range env {
		if size := u.arraySize[name]; size > 0 {
			base := u.extPos[name]
			for i := 0; i < size; i++ {
				setCellValue(state, base+i, v.Arr[i])
			}
		}
	}

	for i, acc := range u.acceptors {
		switch acc.kind {
		case simpleAcceptor:
			setCellValue(state, acc.extPos, results[i])
		case arrayAcceptor:
			idx := indexResults[acc.idxPos]
			size := u.arraySize[acc.name]

			if idx < 0 || int(idx) >= size {
				return fmt.Errorf("array %q index %d out of range [0,%d)", acc.name, idx, size)
			}

			setCellValue(state, acc.extPos+int(idx), results[i])
		}
	}

	return nil
}

// Postcondition is the compiled effect of one transition branch: its
// Updater plus the set of clocks the branch resets (spec §4.7).
type Postcondition struct {
	Updater     *Updater
	ResetClocks []string
}

// NewPostcondition compiles a branch's assignments and collects its reset
// clock names.
func NewPostcondition(br *ast.Branch, constants eval.Constants) *Postcondition {
	resets := make([]string, 0, len(br.Resets))
	for _, r := range br.Resets {
		resets = append(resets, r.Clock.Name)
	}

	return &Postcondition{Updater: NewUpdater(br.Assignments, constants), ResetClocks: resets}
}

// Pin delegates to the underlying Updater.
func (pc *Postcondition) Pin(pos PositionsMap, sizes map[string]int) { pc.Updater.Pin(pos, sizes) }

// Apply delegates to the underlying Updater; clock resets are applied by
// the caller (the simulation engine owns clock state, out of this
// component's scope per spec Non-goals).
func (pc *Postcondition) Apply(state *State) error { return pc.Updater.Apply(state) }
