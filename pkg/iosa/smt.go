package iosa

import (
	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/eval"
	"github.com/raulmonti/fig/pkg/types"
)

// Smt is the abstract decision-procedure interface the output/input
// determinism checks are expressed against (spec §4.6, §9 Design Notes:
// "SMT backend kept as an abstract trait"); the clock-exhaustion check does
// not use it and walks the enumerated graph instead. Push/Pop
// delimit a scope of asserted formulas; Check reports satisfiability of the
// conjunction of everything currently asserted.
type Smt interface {
	Push()
	Pop()
	Assert(formula ast.Expr, env map[string]types.Value)
	Check() bool
}

// enumeratedSmt answers satisfiability queries by re-checking each asserted
// formula against every state already enumerated by the BFS walk, rather
// than compiling to an external solver's term language. This is exact (not
// an approximation) precisely because the analyzer already owns the full,
// finite reachable-state set for the module being checked: a QF_LIRA solver
// would answer the same sat/unsat question over the same bounded domain.
// Swapping in a real solver later only matters for modules whose state
// space is too large to enumerate, which is out of this component's scope.
type enumeratedSmt struct {
	states    []map[string]types.Value
	constants eval.Constants
	stack     [][]ast.Expr
	formulas  []ast.Expr
}

func newEnumeratedSmt(states map[LocalState]map[string]types.Value, constants eval.Constants) *enumeratedSmt {
	s := &enumeratedSmt{constants: constants}

	for _, env := range states {
		s.states = append(s.states, env)
	}

	return s
}

func (s *enumeratedSmt) Push() {
	s.stack = append(s.stack, append([]ast.Expr(nil), s.formulas...))
}

func (s *enumeratedSmt) Pop() {
	if n := len(s.stack); n > 0 {
		s.formulas = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *enumeratedSmt) Assert(formula ast.Expr, env map[string]types.Value) {
	s.formulas = append(s.formulas, substitute(formula, env))
}

// substitute has no effect today: formulas are already closed over their
// own env via the per-state evaluation loop in Check. It exists so callers
// can pass the env a formula was built against without this type needing to
// special-case "already ground" expressions.
func substitute(formula ast.Expr, _ map[string]types.Value) ast.Expr { return formula }

// Check reports whether some enumerated state satisfies every asserted
// formula simultaneously.
func (s *enumeratedSmt) Check() bool {
	for _, env := range s.states {
		ok := true

		for _, f := range s.formulas {
			res := eval.FoldWithEnv(f, s.constants, env)
			if !res.Reducible || res.Value.Kind != types.Bool || !res.Value.B {
				ok = false
				break
			}
		}

		if ok {
			return true
		}
	}

	return len(s.formulas) == 0
}
