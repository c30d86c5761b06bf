// Package typecheck implements the single-pass type checker (C5): it builds
// each module's scope, infers and annotates expression types, resolves
// operator signatures via pkg/types, and enforces the scoping/range/DNF/
// clock invariants of spec §3.2. It is grounded on the teacher's resolver
// (pkg/corset/compiler/resolver.go) for the "initialise declarations, then
// resolve/annotate" two-phase shape, and on pkg/corset/compiler/typing.go
// for expected-result-directed operator resolution.
package typecheck

import (
	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/diag"
	"github.com/raulmonti/fig/pkg/eval"
	"github.com/raulmonti/fig/pkg/scope"
	"github.com/raulmonti/fig/pkg/types"
	"github.com/raulmonti/fig/pkg/util/source"
)

// Checker holds the state threaded through a single type-checking run.
type Checker struct {
	Log    *diag.Log
	Global *scope.Global
	srcmap *source.Maps[ast.Node]
}

// New constructs a Checker. srcmap may be nil, in which case diagnostics are
// recorded without source spans (useful for synthetic ASTs built directly
// by tests or by downstream tooling).
func New(srcmap *source.Maps[ast.Node]) *Checker {
	return &Checker{Log: diag.NewLog(), Global: scope.NewGlobal(), srcmap: srcmap}
}

// Check runs the full pass over a model: globals first, then each module in
// source order (spec §4.2 traversal order), returning the populated scope
// and a diagnostic log. Callers must consult Log.HasErrors() before trusting
// the annotated AST or passing it on to C6/C7.
func Check(m *ast.Model, srcmap *source.Maps[ast.Node]) (*scope.Global, *diag.Log) {
	c := New(srcmap)

	// Phase 1: declare all globals (spec §4.5 step 1 applied at top level).
	for _, d := range m.Globals {
		c.checkDecl(globalInserter{c.Global}, d)
	}

	// Phase 2: declare + check each module.
	for _, mod := range m.Modules {
		ms, ok := c.Global.NewModule(mod.Name)
		if !ok {
			c.errorf(diag.ScopeErr, mod, "module %q already declared", mod.Name)
			continue
		}

		for _, d := range mod.Declarations {
			c.checkDecl(ms, d)
		}

		for _, t := range mod.Transitions {
			c.checkTransition(ms, t)
		}
	}

	// Phase 3: properties may reference any module's variables (spec §4.3),
	// so they are checked last, once every module scope is fully populated.
	for _, p := range m.Properties {
		c.checkProperty(p)
	}

	return c.Global, c.Log
}

func (c *Checker) span(n ast.Node) source.Span {
	if c.srcmap != nil && c.srcmap.Has(n) {
		return c.srcmap.Get(n)
	}

	return source.Span{}
}

func (c *Checker) errorf(cat diag.Category, n ast.Node, format string, args ...any) {
	c.Log.Errorf(cat, c.span(n), format, args...)
}

func (c *Checker) warnf(cat diag.Category, n ast.Node, format string, args ...any) {
	c.Log.Warnf(cat, c.span(n), format, args...)
}

// constants adapts a *scope.Module (or *scope.Global, for top-level decls)
// to eval.Constants.
type constants interface {
	Constant(name string) (ast.Decl, bool)
}

// globalInserter adapts *scope.Global's InsertGlobal to the narrower
// InsertLocal shape checkDecl expects, so top-level and module-local
// declarations can share one check routine.
type globalInserter struct{ g *scope.Global }

func (gi globalInserter) InsertLocal(d ast.Decl) bool { return gi.g.InsertGlobal(d) }

// checkDecl implements spec §4.5 step 1: fold range/init (before the
// identifier is added to scope, per spec's explicit "forbids x : [0..x+1]"
// rule), verify bounds, then insert.
func (c *Checker) checkDecl(into interface {
	InsertLocal(ast.Decl) bool
}, d ast.Decl) {
	lookup := moduleOrGlobalLookup(c, into)

	switch dd := d.(type) {
	case *ast.Ranged:
		lo := c.foldInt(lookup, dd.Lower, "lower bound")
		up := c.foldInt(lookup, dd.Upper, "upper bound")
		init := c.foldInt(lookup, dd.Init, "initial value")

		if lo != nil && up != nil && init != nil {
			if *init < *lo || *init > *up {
				c.errorf(diag.RangeErr, d, "initial value %d outside range [%d..%d]", *init, *lo, *up)
			}
		}
	case *ast.Initialized:
		res := eval.Fold(dd.Init, lookup)
		if !res.Reducible {
			c.errorf(diag.RangeErr, dd.Init, "initial value must be a reducible constant")
			dd.Type = types.Ground{Kind: types.Unknown}
		} else {
			dd.Type = res.Value.Kind.AsType()
		}
	case *ast.Array:
		c.checkArrayDecl(lookup, dd)
	case *ast.ClockDecl:
		// nothing to fold: distribution is attached by clock resets.
	}

	if !into.InsertLocal(d) {
		c.errorf(diag.ScopeErr, d, "identifier %q already declared in this scope", d.Name())
	}
}

func (c *Checker) checkArrayDecl(lookup constants, d *ast.Array) {
	c.foldInt(lookup, d.Size, "array size")

	if d.Lower != nil {
		c.foldInt(lookup, d.Lower, "array lower bound")
	}

	if d.Upper != nil {
		c.foldInt(lookup, d.Upper, "array upper bound")
	}

	for _, e := range d.Elements {
		c.foldAny(lookup, e, "array element initializer")
	}
}

// foldInt folds e and requires the result to be an int; used for ranges,
// sizes, and indices. Returns nil (after recording a RangeErr) if e does not
// fold, matching spec §7 ("declaration range not reducible... fatal").
func (c *Checker) foldInt(lookup constants, e ast.Expr, what string) *int64 {
	res := eval.Fold(e, lookup)
	if !res.Reducible || res.Value.Kind != types.Int {
		c.errorf(diag.RangeErr, e, "%s must be a reducible integer constant", what)
		return nil
	}

	return &res.Value.I
}

func (c *Checker) foldAny(lookup constants, e ast.Expr, what string) {
	res := eval.Fold(e, lookup)
	if !res.Reducible {
		c.errorf(diag.RangeErr, e, "%s must be a reducible constant", what)
	}
}

func moduleOrGlobalLookup(c *Checker, into any) constants {
	switch v := into.(type) {
	case *scope.Module:
		return v
	default:
		_ = v
		return c.Global
	}
}

// checkTransition implements spec §4.5 steps 2-3-5: type-checks the guard
// and every effect, registers the label kind and triggering clock, and
// enforces the input/output clock cardinality invariant.
func (c *Checker) checkTransition(m *scope.Module, t ast.Transition) {
	c.checkExpr(m, t.Guard(), types.Ground{Kind: types.Bool})

	if t.Guard() != nil {
		if gt := t.Guard().InferredType(); gt != nil && !types.Subtype(gt, types.Ground{Kind: types.Bool}) {
			c.errorf(diag.TypeErr, t.Guard(), "transition precondition must be boolean, got %s", gt)
		}

		// broken mutates its array argument (spec §9 Design Notes); allowing
		// it in a guard would make guard evaluation order-dependent and
		// non-idempotent, so it is restricted to postcondition right-hand
		// sides.
		ast.WalkExpr(t.Guard(), func(e ast.Expr) bool {
			if call, ok := e.(*ast.ArrayCallExp); ok && call.Op == types.Broken {
				c.errorf(diag.TypeErr, call, "broken may only be used in a postcondition, not a precondition")
			}

			return true
		})
	}

	kind := t.Kind()
	if conflict, existing := m.RegisterLabel(t.Label(), kind); conflict {
		c.errorf(diag.ScopeErr, t, "label %q used with inconsistent kinds (%s vs %s)", t.Label(), kind, existing)
	}

	m.RegisterTransition(t.Label(), t)

	clock := t.TriggerClock()

	switch {
	case kind == ast.InputLabel || kind == ast.InputCommittedLabel:
		if clock != nil {
			c.errorf(diag.ScopeErr, t, "input transition %q must not have a triggering clock", t.Label())
		}
	default:
		if clock == nil {
			c.errorf(diag.ScopeErr, t, "output/tau transition %q must have exactly one triggering clock", t.Label())
		} else {
			if _, ok := m.FindIdentifier(clock.Name); !ok {
				c.errorf(diag.ScopeErr, clock, "clock %q not in scope", clock.Name)
			}

			m.RegisterTriggeringClock(clock.Name, t)
		}
	}

	for _, br := range t.Branches() {
		c.checkExpr(m, br.Weight, types.Ground{Kind: types.Float})

		for _, a := range br.Assignments {
			c.checkLocation(m, a.Loc)
			c.checkExpr(m, a.Rhs, types.Ground{Kind: types.Unknown})
		}

		for _, r := range br.Resets {
			c.checkClockReset(m, r)
		}
	}
}

func (c *Checker) checkClockReset(m *scope.Module, r *ast.ClockReset) {
	if _, ok := m.FindIdentifier(r.Clock.Name); !ok {
		c.errorf(diag.ScopeErr, r.Clock, "clock %q not in scope", r.Clock.Name)
	}

	if conflict, existing := m.RegisterClockReset(r.Clock.Name, r.Dist); conflict {
		c.errorf(diag.ScopeErr, r, "clock %q reset with inconsistent distribution kinds (%s vs %s)",
			r.Clock.Name, r.Dist.Kind, existing)
	}

	want := ast.Arity(r.Dist.Kind)
	if len(r.Dist.Params) != want {
		c.errorf(diag.TypeErr, r, "distribution %s expects %d parameter(s), got %d", r.Dist.Kind, want, len(r.Dist.Params))
	}

	for _, p := range r.Dist.Params {
		c.checkExpr(m, p, types.Ground{Kind: types.Float})

		res := eval.Fold(p, m)
		if !res.Reducible {
			c.errorf(diag.RangeErr, p, "distribution parameter must be a reducible float constant")
		}
	}
}

func (c *Checker) checkLocation(m *scope.Module, loc ast.Location) {
	decl, ok := m.FindIdentifier(loc.Ident())
	if !ok {
		c.errorf(diag.ScopeErr, loc, "identifier %q not in scope", loc.Ident())
		return
	}

	if decl.IsConstant() {
		c.errorf(diag.ScopeErr, loc, "cannot assign to constant %q", loc.Ident())
	}

	switch l := loc.(type) {
	case *ast.Identifier:
		l.Binding = decl
	case *ast.IndexedIdentifier:
		l.Binding = decl
		c.checkExpr(m, l.Index, types.Ground{Kind: types.Int})
	}
}

// checkExpr annotates e.InferredType (and, for operator nodes, e's resolved
// Signature) in place, propagating expected downward per spec §4.5 step 2.
func (c *Checker) checkExpr(m *scope.Module, e ast.Expr, expected types.Type) {
	if e == nil {
		return
	}

	switch n := e.(type) {
	case *ast.IConst:
		n.Type = types.Ground{Kind: types.Int}
	case *ast.BConst:
		n.Type = types.Ground{Kind: types.Bool}
	case *ast.FConst:
		n.Type = types.Ground{Kind: types.Float}
	case *ast.LocExp:
		c.checkLocExp(m, n)
	case *ast.UnOpExp:
		c.checkExpr(m, n.Arg, types.Ground{Kind: types.Unknown})
		argT := safeType(n.Arg)
		sig, err := types.Resolve(n.Op, []types.Type{argT}, expected)

		if err != nil {
			c.errorf(diag.TypeErr, n, "%s", err)
			n.Type = types.Ground{Kind: types.Unknown}
			return
		}

		n.Sig = &sig
		n.Type = sig.Type.Result
	case *ast.BinOpExp:
		c.checkExpr(m, n.Left, types.Ground{Kind: types.Unknown})
		c.checkExpr(m, n.Right, types.Ground{Kind: types.Unknown})

		lt, rt := safeType(n.Left), safeType(n.Right)
		sig, err := types.Resolve(n.Op, []types.Type{lt, rt}, expected)

		if err != nil {
			c.errorf(diag.TypeErr, n, "%s", err)
			n.Type = types.Ground{Kind: types.Unknown}
			return
		}

		n.Sig = &sig
		n.Type = sig.Type.Result
	case *ast.ArrayCallExp:
		c.checkLocation(m, n.Arr)

		for _, a := range n.Args {
			c.checkExpr(m, a, types.Ground{Kind: types.Int})
		}

		n.Type = types.Ground{Kind: types.Int}
	}
}

func (c *Checker) checkLocExp(m *scope.Module, n *ast.LocExp) {
	c.checkLocation(m, n.Loc)

	decl, ok := m.FindIdentifier(n.Loc.Ident())
	if !ok {
		n.Type = types.Ground{Kind: types.Unknown}
		return
	}

	t := decl.DeclaredType()

	if _, indexed := n.Loc.(*ast.IndexedIdentifier); indexed {
		switch t.(types.Ground).Kind {
		case types.ArrayOfInt:
			t = types.Ground{Kind: types.Int}
		case types.ArrayOfBool:
			t = types.Ground{Kind: types.Bool}
		}
	}

	n.Type = t
}

func safeType(e ast.Expr) types.Type {
	if e == nil || e.InferredType() == nil {
		return types.Ground{Kind: types.Unknown}
	}

	return e.InferredType()
}

// checkProperty type-checks a property body and enforces the DNF
// requirement of spec §3.2/§4.5 step 4 on every subformula that must be DNF:
// transient properties' both sides, and the rate and TBoundSS properties'
// bodies.
func (c *Checker) checkProperty(p ast.Property) {
	switch pp := p.(type) {
	case *ast.Transient:
		c.checkPropertyExpr(pp.Left)
		c.checkPropertyExpr(pp.Right)

		if !IsDNF(pp.Left) {
			c.errorf(diag.TypeErr, pp.Left, "property subformula %s must be in DNF", ast.Print(pp.Left))
		}

		if !IsDNF(pp.Right) {
			c.errorf(diag.TypeErr, pp.Right, "property subformula %s must be in DNF", ast.Print(pp.Right))
		}
	case *ast.Rate:
		c.checkPropertyExpr(pp.Body)

		if !IsDNF(pp.Body) {
			c.errorf(diag.TypeErr, pp.Body, "property subformula %s must be in DNF", ast.Print(pp.Body))
		}
	case *ast.TBoundSS:
		c.checkPropertyExpr(pp.Body)

		if !IsDNF(pp.Body) {
			c.errorf(diag.TypeErr, pp.Body, "property subformula %s must be in DNF", ast.Print(pp.Body))
		}
	}
}

// checkPropertyExpr type-checks an expression that may reference any
// module's variables (spec §4.3), resolving each LocExp against
// Global.FindInAllModules instead of a single module's scope.
func (c *Checker) checkPropertyExpr(e ast.Expr) {
	if e == nil {
		return
	}

	switch n := e.(type) {
	case *ast.IConst:
		n.Type = types.Ground{Kind: types.Int}
	case *ast.BConst:
		n.Type = types.Ground{Kind: types.Bool}
	case *ast.FConst:
		n.Type = types.Ground{Kind: types.Float}
	case *ast.LocExp:
		_, decl, ok := c.Global.FindInAllModules(n.Loc.Ident())

		if !ok {
			c.errorf(diag.ScopeErr, n.Loc, "identifier %q not found in any module", n.Loc.Ident())
			n.Type = types.Ground{Kind: types.Unknown}
			return
		}

		if id, isID := n.Loc.(*ast.Identifier); isID {
			id.Binding = decl
		}

		n.Type = decl.DeclaredType()
	case *ast.UnOpExp:
		c.checkPropertyExpr(n.Arg)

		sig, err := types.Resolve(n.Op, []types.Type{safeType(n.Arg)}, types.Ground{Kind: types.Unknown})
		if err != nil {
			c.errorf(diag.TypeErr, n, "%s", err)
			n.Type = types.Ground{Kind: types.Unknown}
			return
		}

		n.Sig = &sig
		n.Type = sig.Type.Result
	case *ast.BinOpExp:
		c.checkPropertyExpr(n.Left)
		c.checkPropertyExpr(n.Right)

		sig, err := types.Resolve(n.Op, []types.Type{safeType(n.Left), safeType(n.Right)}, types.Ground{Kind: types.Unknown})
		if err != nil {
			c.errorf(diag.TypeErr, n, "%s", err)
			n.Type = types.Ground{Kind: types.Unknown}
			return
		}

		n.Sig = &sig
		n.Type = sig.Type.Result
	}
}
