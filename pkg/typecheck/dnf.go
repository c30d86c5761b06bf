package typecheck

import (
	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/types"
)

// IsDNF reports whether e is a disjunction of conjunctions of literals,
// where a literal is a comparison, a boolean atom, an array predicate, or
// the negation of one (spec §3.2's DNF requirement on property
// subformulas). This is a syntactic check on the shape the author wrote, not
// a normalizer: it never reshapes or rewrites the formula.
func IsDNF(e ast.Expr) bool {
	return isDisjunction(e)
}

func isDisjunction(e ast.Expr) bool {
	if b, ok := e.(*ast.BinOpExp); ok && b.Op == types.Or {
		return isDisjunction(b.Left) && isDisjunction(b.Right)
	}

	return isConjunction(e)
}

func isConjunction(e ast.Expr) bool {
	if b, ok := e.(*ast.BinOpExp); ok && b.Op == types.And {
		return isConjunction(b.Left) && isConjunction(b.Right)
	}

	return isLiteral(e)
}

func isLiteral(e ast.Expr) bool {
	if n, ok := e.(*ast.UnOpExp); ok {
		if n.Op == types.Not {
			return isAtom(n.Arg)
		}

		return false
	}

	return isAtom(e)
}

func isAtom(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.BConst, *ast.LocExp, *ast.ArrayCallExp:
		return true
	case *ast.BinOpExp:
		switch n.Op {
		case types.Eq, types.Neq, types.Lt, types.Le, types.Gt, types.Ge:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
