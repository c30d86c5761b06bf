// Package project implements C10, property projection: splitting a
// type-checked DNF property into clauses and distributing them across
// modules whose variables cover each clause, for split/compositional
// importance functions (spec §4.10, S7).
package project

import (
	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/types"
)

// Clause is one conjunction of literals taken from a DNF property's
// top-level disjunction (spec §4.10: "split into clauses (conjunctions of
// atoms)").
type Clause struct {
	Atoms []ast.Expr
	vars  map[string]bool
}

// Vars returns the distinct variable names the clause's atoms read.
func (c Clause) Vars() map[string]bool { return c.vars }

// splitDNF flattens a DNF expression into its clause list. Callers are
// expected to have already validated e with typecheck.IsDNF; a non-DNF
// expression is still split at its top-level || and && nodes, and any other
// subformula is kept whole as a single atom.
func splitDNF(e ast.Expr) []Clause {
	if e == nil {
		return nil
	}

	var clauses []Clause

	var collectDisjuncts func(ast.Expr)

	collectDisjuncts = func(n ast.Expr) {
		if b, ok := n.(*ast.BinOpExp); ok && b.Op == types.Or {
			collectDisjuncts(b.Left)
			collectDisjuncts(b.Right)

			return
		}

		clauses = append(clauses, newClause(collectConjuncts(n)))
	}

	collectDisjuncts(e)

	return clauses
}

func collectConjuncts(e ast.Expr) []ast.Expr {
	if b, ok := e.(*ast.BinOpExp); ok && b.Op == types.And {
		return append(collectConjuncts(b.Left), collectConjuncts(b.Right)...)
	}

	return []ast.Expr{e}
}

func newClause(atoms []ast.Expr) Clause {
	vars := map[string]bool{}

	for _, a := range atoms {
		for _, v := range ast.ExprVars(a) {
			vars[v] = true
		}
	}

	return Clause{Atoms: atoms, vars: vars}
}

// containedIn reports whether every variable c reads is in moduleVars.
func (c Clause) containedIn(moduleVars map[string]bool) bool {
	for v := range c.vars {
		if !moduleVars[v] {
			return false
		}
	}

	return true
}
