package ast

// This file replaces a class-hierarchy Visitor with plain functions that
// type-switch over the AST's tagged variants (Design Notes §9). Passes that
// need "visit every transition" or "visit every declaration" compose these
// helpers rather than subclassing a visitor base.

// WalkExpr performs a pre-order traversal of e, calling fn on every
// sub-expression (including e itself). If fn returns false for a node, its
// children are not visited.
func WalkExpr(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch n := e.(type) {
	case *UnOpExp:
		WalkExpr(n.Arg, fn)
	case *BinOpExp:
		WalkExpr(n.Left, fn)
		WalkExpr(n.Right, fn)
	case *ArrayCallExp:
		if idx := locationIndex(n.Arr); idx != nil {
			WalkExpr(idx, fn)
		}
		for _, a := range n.Args {
			WalkExpr(a, fn)
		}
	case *LocExp:
		if idx := locationIndex(n.Loc); idx != nil {
			WalkExpr(idx, fn)
		}
	}
}

func locationIndex(loc Location) Expr {
	if ii, ok := loc.(*IndexedIdentifier); ok {
		return ii.Index
	}
	return nil
}

// ExprVars returns the set of distinct variable/clock/array names read by an
// expression, in first-occurrence order. Used by C8 to size the local value
// buffer of an evaluator and by C10 to test whether a clause's free
// variables lie within a module's variable set.
func ExprVars(e Expr) []string {
	seen := map[string]bool{}
	var out []string

	WalkExpr(e, func(n Expr) bool {
		if le, ok := n.(*LocExp); ok {
			name := le.Loc.Ident()
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
		if ac, ok := n.(*ArrayCallExp); ok {
			name := ac.Arr.Ident()
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
		return true
	})

	return out
}

// VisitModuleDecls calls fn once per declaration in a module, in source
// order, matching the traversal order fixed by spec §4.2 ("within a module:
// local declarations then transitions").
func VisitModuleDecls(m *Module, fn func(Decl)) {
	for _, d := range m.Declarations {
		fn(d)
	}
}

// VisitModuleTransitions calls fn once per transition in a module, in
// source order.
func VisitModuleTransitions(m *Module, fn func(Transition)) {
	for _, t := range m.Transitions {
		fn(t)
	}
}

// VisitTransitionEffects calls fn once per effect of every branch of t, in
// the order fixed by spec §4.2: "each branch's assignments, then clock
// resets".
func VisitTransitionEffects(t Transition, fn func(Effect)) {
	for _, br := range t.Branches() {
		for _, a := range br.Assignments {
			fn(a)
		}

		for _, r := range br.Resets {
			fn(r)
		}
	}
}

// VisitModel walks globals first (scope=null), then modules in source
// order, matching spec §4.2's fixed traversal order for analysis passes.
func VisitModel(m *Model, globalFn func(Decl), moduleFn func(*Module)) {
	for _, d := range m.Globals {
		globalFn(d)
	}

	for _, mod := range m.Modules {
		moduleFn(mod)
	}
}
