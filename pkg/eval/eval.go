// Package eval implements the constant-folding expression evaluator (C4): a
// pass that attempts to reduce an expression to a ground value using only
// the global constants table, for use wherever the pipeline needs a
// compile-time value (declaration ranges/initializers, array sizes,
// distribution parameters). It is grounded on the original FIG
// implementation's ExpEvaluator/ExpReductor split (original_source
// bison-parser/include/ExpEvaluator.h, include/ExpReductor.h): one visitor
// that folds what it can and reports the rest as "not reducible" rather than
// failing outright, leaving the caller (C5, C6, C7) to decide whether that's
// an error in context.
package eval

import (
	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/types"
)

// Result is the outcome of folding an expression: either a ground Value, or
// "not reducible" (Reducible == false), matching spec §4.4.
type Result struct {
	Value     types.Value
	Reducible bool
}

func reducible(v types.Value) Result  { return Result{Value: v, Reducible: true} }
func notReducible() Result            { return Result{} }

// Constants is the read-only lookup the evaluator needs: a global constants
// table, optionally layered with a per-module fold environment supplied by
// the caller (e.g. the IOSA analyzer folding guards against the current
// local state; see FoldWithEnv).
type Constants interface {
	Constant(name string) (ast.Decl, bool)
}

// Fold attempts to reduce e to a ground value using only constants. If e (or
// any subexpression it genuinely depends on) is not a compile-time constant,
// Fold returns a not-reducible Result rather than an error: whether that is
// fatal depends on the calling context (spec §4.4).
func Fold(e ast.Expr, constants Constants) Result {
	return FoldWithEnv(e, constants, nil)
}

// FoldWithEnv is Fold but additionally consults env (name -> Value) before
// constants, letting the IOSA analyzer (C6) reuse this same folder to
// evaluate guards against a concrete local-state valuation during explicit
// state exploration (spec §4.6).
func FoldWithEnv(e ast.Expr, constants Constants, env map[string]types.Value) Result {
	switch n := e.(type) {
	case *ast.IConst:
		return reducible(types.IntVal(n.Value))
	case *ast.BConst:
		return reducible(types.BoolVal(n.Value))
	case *ast.FConst:
		return reducible(types.FloatVal(n.Value))
	case *ast.LocExp:
		return foldLocation(n.Loc, constants, env)
	case *ast.UnOpExp:
		arg := FoldWithEnv(n.Arg, constants, env)
		if !arg.Reducible {
			return notReducible()
		}

		sig, err := resolveSig(n.Op, n.Sig, []types.Type{arg.Value.Kind.AsType()})
		if err != nil {
			return notReducible()
		}

		return reducible(types.Apply(sig, arg.Value))
	case *ast.BinOpExp:
		left := FoldWithEnv(n.Left, constants, env)
		if !left.Reducible {
			return notReducible()
		}

		right := FoldWithEnv(n.Right, constants, env)
		if !right.Reducible {
			return notReducible()
		}

		sig, err := resolveSig(n.Op, n.Sig, []types.Type{left.Value.Kind.AsType(), right.Value.Kind.AsType()})
		if err != nil {
			return notReducible()
		}

		return reducible(types.Apply(sig, left.Value, right.Value))
	case *ast.ArrayCallExp:
		return foldArrayCall(n, constants, env)
	default:
		// Any other expression variant is not reducible here.
		return notReducible()
	}
}

// foldArrayCall evaluates one of the array helper functions (spec §4.2:
// fsteq, lsteq, rndeq, minfrom, maxfrom, sumfrom, sumkmax, consec, broken,
// fstexclude) against a live state. Like array element access, these are
// never compile-time constant: they require an env to resolve the array's
// contents, so this always returns not-reducible during C4's pure constant
// folding and only does real work when the IOSA analyzer (C6) or the
// expression runtime (C8) supply one.
func foldArrayCall(n *ast.ArrayCallExp, constants Constants, env map[string]types.Value) Result {
	if env == nil {
		return notReducible()
	}

	arrVal, ok := env[n.Arr.Ident()]
	if !ok || !types.IsArray(arrVal.Kind.AsType()) {
		return notReducible()
	}

	args := make([]types.Value, len(n.Args))

	for i, a := range n.Args {
		r := FoldWithEnv(a, constants, env)
		if !r.Reducible {
			return notReducible()
		}

		args[i] = r.Value
	}

	v, ok := applyArrayFunc(n.Op, arrVal.Arr, args)
	if !ok {
		return notReducible()
	}

	return reducible(v)
}

func foldLocation(loc ast.Location, constants Constants, env map[string]types.Value) Result {
	name := loc.Ident()

	if env != nil {
		v, ok := env[name]
		if !ok {
			return notReducible()
		}

		if idx, isIndexed := loc.(*ast.IndexedIdentifier); isIndexed {
			i := FoldWithEnv(idx.Index, constants, env)
			if !i.Reducible || int(i.Value.I) >= len(v.Arr) {
				return notReducible()
			}

			return reducible(v.Arr[i.Value.I])
		}

		return reducible(v)
	}

	decl, ok := constants.Constant(name)
	if !ok || !decl.IsConstant() {
		return notReducible()
	}

	init := initializerOf(decl)
	if init == nil {
		return notReducible()
	}

	return FoldWithEnv(init, constants, env)
}

func initializerOf(d ast.Decl) ast.Expr {
	switch dd := d.(type) {
	case *ast.Initialized:
		return dd.Init
	case *ast.Ranged:
		return dd.Init
	default:
		return nil
	}
}

// resolveSig picks a signature to evaluate with: if the type checker has
// already annotated the node (sig != nil) that choice is authoritative;
// otherwise (e.g. folding happens before type-checking, as it does for
// range/init expressions per spec §4.5 step 1) we resolve fresh against the
// concrete argument kinds with an unconstrained expected result.
func resolveSig(op types.Op, sig *types.Signature, argTypes []types.Type) (types.Signature, error) {
	if sig != nil {
		return *sig, nil
	}

	return types.Resolve(op, argTypes, types.Ground{Kind: types.Unknown})
}

