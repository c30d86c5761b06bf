// Package modelbuild implements C7, the model builder: it lowers a
// type-checked AST (spec §4.5, C5) into the sealed runtime.ModuleNetwork and
// compiled runtime.Property set the estimation controller (C9) drives (spec
// §4.7-§4.8). It is grounded on the original FIG implementation's
// ModelBuilder.h/ModuleInstance.h, which perform the same AST-to-simulation
// lowering in one pass after scope/type checking succeeds.
package modelbuild

import (
	"fmt"
	"math"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/diag"
	"github.com/raulmonti/fig/pkg/eval"
	"github.com/raulmonti/fig/pkg/runtime"
	"github.com/raulmonti/fig/pkg/scope"
	"github.com/raulmonti/fig/pkg/types"
)

// Build lowers model into a sealed ModuleNetwork plus its compiled
// properties, keyed by name (or a synthetic "property_N" for unnamed ones).
// Callers must have already run typecheck.Check (and should have run
// iosa.AnalyzeAll for its warnings); Build trusts that pass's results and
// does not re-validate guard/assignment types.
func Build(global *scope.Global, model *ast.Model) (*runtime.ModuleNetwork, map[string]*runtime.Property, *diag.Log) {
	log := diag.NewLog()
	network := runtime.NewModuleNetwork()
	declsByModule := make(map[string]*ast.Module, len(model.Modules))

	for _, mod := range model.Modules {
		ms, ok := global.Module(mod.Name)
		if !ok {
			log.ErrorfNoSpan(diag.BuildErr, "module %q has no scope (did type-checking run first?)", mod.Name)
			continue
		}

		inst, err := buildModule(ms, mod)
		if err != nil {
			log.ErrorfNoSpan(diag.BuildErr, "module %q: %s", mod.Name, err)
			continue
		}

		declsByModule[mod.Name] = mod

		if err := network.AddModule(inst); err != nil {
			log.ErrorfNoSpan(diag.BuildErr, "module %q: %s", mod.Name, err)
		}
	}

	if log.HasErrors() {
		return network, nil, log
	}

	if err := network.Seal(func(m *runtime.ModuleInstance, state *runtime.State) {
		populateModule(declsByModule[m.Name], global, state)
	}); err != nil {
		log.ErrorfNoSpan(diag.BuildErr, "%s", err)
		return network, nil, log
	}

	props := make(map[string]*runtime.Property, len(model.Properties))

	for i, p := range model.Properties {
		rp, err := buildProperty(p, global)
		if err != nil {
			log.ErrorfNoSpan(diag.BuildErr, "property %d: %s", i, err)
			continue
		}

		rp.Pin(network.State().Positions())
		props[propertyKey(p, i)] = rp
	}

	return network, props, log
}

func buildProperty(p ast.Property, global *scope.Global) (*runtime.Property, error) {
	switch pp := p.(type) {
	case *ast.Transient:
		return &runtime.Property{
			Name:  pp.Name(),
			Kind:  runtime.TransientProperty,
			Left:  runtime.NewPrecondition(pp.Left, global),
			Right: runtime.NewPrecondition(pp.Right, global),
		}, nil
	case *ast.Rate:
		return &runtime.Property{
			Name: pp.Name(),
			Kind: runtime.RateProperty,
			Body: runtime.NewPrecondition(pp.Body, global),
		}, nil
	case *ast.TBoundSS:
		low := eval.Fold(pp.Low, global)
		upp := eval.Fold(pp.Upp, global)

		if !low.Reducible || !upp.Reducible {
			return nil, fmt.Errorf("time bounds must be compile-time constants")
		}

		return &runtime.Property{
			Name: pp.Name(),
			Kind: runtime.TBoundSSProperty,
			Body: runtime.NewPrecondition(pp.Body, global),
			Low:  valueAsFloat(low.Value),
			Upp:  valueAsFloat(upp.Value),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported property type %T", p)
	}
}

func propertyKey(p ast.Property, i int) string {
	if p.Name() != "" {
		return p.Name()
	}

	return fmt.Sprintf("property_%d", i)
}

func buildModule(ms *scope.Module, mod *ast.Module) (*runtime.ModuleInstance, error) {
	var varNames []string

	for _, d := range mod.Declarations {
		if _, isClock := d.(*ast.ClockDecl); !isClock {
			varNames = append(varNames, d.Name())
		}
	}

	inst := runtime.NewModuleInstance(mod.Name, varNames)

	seenClocks := map[string]bool{}

	for _, t := range mod.Transitions {
		rt, err := buildTransition(ms, t)
		if err != nil {
			return nil, err
		}

		inst.Transitions = append(inst.Transitions, rt)

		for _, br := range t.Branches() {
			for _, r := range br.Resets {
				if seenClocks[r.Clock.Name] {
					continue
				}

				seenClocks[r.Clock.Name] = true

				clock, err := buildClock(ms, mod.Name, r)
				if err != nil {
					return nil, err
				}

				inst.Clocks = append(inst.Clocks, clock)
			}
		}
	}

	return inst, nil
}

func buildTransition(ms *scope.Module, t ast.Transition) (*runtime.Transition, error) {
	rt := &runtime.Transition{
		Label: t.Label(),
		Kind:  t.Kind(),
		Guard: runtime.NewPrecondition(t.Guard(), ms),
	}

	if c := t.TriggerClock(); c != nil {
		rt.TriggerClock = c.Name
	}

	for _, br := range t.Branches() {
		rt.Branches = append(rt.Branches, runtime.NewPostcondition(br, ms))

		weight := 1.0

		if br.Weight != nil {
			res := eval.Fold(br.Weight, ms)
			if !res.Reducible {
				return nil, fmt.Errorf("branch weight of transition %q does not reduce to a constant", t.Label())
			}

			weight = valueAsFloat(res.Value)
		}

		rt.Weights = append(rt.Weights, weight)
	}

	return rt, nil
}

func buildClock(ms *scope.Module, modName string, r *ast.ClockReset) (*runtime.Clock, error) {
	params := make([]float64, 0, len(r.Dist.Params))

	for _, p := range r.Dist.Params {
		res := eval.Fold(p, ms)
		if !res.Reducible {
			return nil, fmt.Errorf("distribution parameter for clock %q does not reduce to a constant", r.Clock.Name)
		}

		params = append(params, valueAsFloat(res.Value))
	}

	return &runtime.Clock{Name: r.Clock.Name, Module: modName, Kind: r.Dist.Kind, Params: params}, nil
}

func valueAsFloat(v types.Value) float64 {
	if v.Kind == types.Int {
		return float64(v.I)
	}

	return v.F
}

// populateModule pushes mod's declared variables and arrays into state, in
// declaration order, matching the varNames list buildModule recorded for
// this ModuleInstance. Folding reuses C5's already-validated range/init/size
// expressions; a value that somehow fails to reduce here (type-checking
// should have already rejected it) falls back to its zero value rather than
// aborting the whole build.
func populateModule(mod *ast.Module, global *scope.Global, state *runtime.State) {
	ms, _ := global.Module(mod.Name)

	for _, d := range mod.Declarations {
		switch dd := d.(type) {
		case *ast.Ranged:
			lo, up := foldBoundsInt(dd.Lower, dd.Upper, ms)
			init := foldIntOr(dd.Init, ms, lo)
			state.AddVariable(dd.Id, lo, up, init, runtime.IntCell)
		case *ast.Initialized:
			kind := cellKindOf(dd.Type)
			lo, up := unrestrictedBounds(kind)
			init := foldCellOr(dd.Init, ms, kind, 0)
			state.AddVariable(dd.Id, lo, up, init, kind)
		case *ast.Array:
			lo, up, kind, values := foldArray(dd, ms)
			state.AddArray(dd.Id, lo, up, values, kind)
		case *ast.ClockDecl:
			// Clocks are owned by the simulation engine's sampler, not the
			// network's discrete-value state (spec Non-goals).
		}
	}
}

func foldBoundsInt(lower, upper ast.Expr, ms eval.Constants) (int64, int64) {
	lo := eval.Fold(lower, ms)
	up := eval.Fold(upper, ms)

	if lo.Reducible && up.Reducible {
		return lo.Value.I, up.Value.I
	}

	return 0, 0
}

func foldIntOr(e ast.Expr, ms eval.Constants, fallback int64) int64 {
	if res := eval.Fold(e, ms); res.Reducible {
		return res.Value.I
	}

	return fallback
}

func foldCellOr(e ast.Expr, ms eval.Constants, kind runtime.CellKind, fallback int64) int64 {
	res := eval.Fold(e, ms)
	if !res.Reducible {
		return fallback
	}

	if kind == runtime.BoolCell {
		if res.Value.B {
			return 1
		}

		return 0
	}

	return res.Value.I
}

func cellKindOf(t types.Type) runtime.CellKind {
	if types.Subtype(t, types.Ground{Kind: types.Bool}) {
		return runtime.BoolCell
	}

	return runtime.IntCell
}

func unrestrictedBounds(kind runtime.CellKind) (int64, int64) {
	if kind == runtime.BoolCell {
		return 0, 1
	}

	return math.MinInt64, math.MaxInt64
}

// foldArray folds an array declaration's element bounds and initializer
// list into a flat []int64, matching the per-element fallback-to-zero
// behavior of foldCellOr above.
func foldArray(dd *ast.Array, ms eval.Constants) (int64, int64, runtime.CellKind, []int64) {
	kind := runtime.IntCell
	if dd.Element == types.Bool {
		kind = runtime.BoolCell
	}

	lo, up := unrestrictedBounds(kind)

	if dd.Lower != nil && dd.Upper != nil {
		lo, up = foldBoundsInt(dd.Lower, dd.Upper, ms)
	}

	size := 1
	if res := eval.Fold(dd.Size, ms); res.Reducible {
		size = int(res.Value.I)
	}

	values := make([]int64, size)

	for i := range values {
		var ve ast.Expr

		switch {
		case len(dd.Elements) == 1:
			ve = dd.Elements[0]
		case i < len(dd.Elements):
			ve = dd.Elements[i]
		}

		if ve == nil {
			continue
		}

		values[i] = foldCellOr(ve, ms, kind, 0)
	}

	return lo, up, kind, values
}
