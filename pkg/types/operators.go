package types

import (
	"fmt"
	"math"
)

// Op identifies an operator independently of its arity or signature; the
// same Op can have several candidate signatures (e.g. "+" over int x int,
// float x float).
type Op string

// Recognised unary and binary operators (spec §3.1).
const (
	Neg    Op = "-u"
	Not    Op = "!"
	Add    Op = "+"
	Sub    Op = "-"
	Mul    Op = "*"
	Div    Op = "/"
	Mod    Op = "%"
	Pow    Op = "^"
	Log    Op = "log"
	Eq     Op = "=="
	Neq    Op = "!="
	Lt     Op = "<"
	Le     Op = "<="
	Gt     Op = ">"
	Ge     Op = ">="
	And    Op = "&&"
	Or     Op = "||"
	Fsteq  Op = "fsteq"
	Lsteq  Op = "lsteq"
	Rndeq  Op = "rndeq"
	Minfr  Op = "minfrom"
	Maxfr  Op = "maxfrom"
	Sumfr  Op = "sumfrom"
	Sumkmx Op = "sumkmax"
	Consec Op = "consec"
	Broken Op = "broken"
	Fstexc Op = "fstexclude"
)

// Signature is a candidate function type for an operator, together with the
// evaluation function that implements its exact numeric semantics.
type Signature struct {
	Op     Op
	Type   Func
	Impl   func(args ...Value) Value
}

// Value is a tagged ground value produced by evaluating an operator or
// folding a constant expression. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	I     int64
	B     bool
	F     float64
	Arr   []Value
}

// IntVal, BoolVal and FloatVal are convenience constructors.
func IntVal(i int64) Value   { return Value{Kind: Int, I: i} }
func BoolVal(b bool) Value   { return Value{Kind: Bool, B: b} }
func FloatVal(f float64) Value { return Value{Kind: Float, F: f} }

func (v Value) AsFloat() float64 {
	if v.Kind == Int {
		return float64(v.I)
	}
	return v.F
}

// TypeMismatch is returned by Resolve when no candidate signature fits.
type TypeMismatch struct {
	Op         Op
	Args       []Type
	Expected   Type
	Candidates []Signature
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("no signature for operator %q matches arguments %v with expected result %v",
		e.Op, e.Args, e.Expected)
}

// candidates holds, per operator, the ordered list of signatures tried
// during resolution. Order matters: resolve returns the first (hence
// "minimal") candidate that fits, so more specific signatures (int) must
// precede more general ones (float) for a given operator.
var candidates = map[Op][]Signature{
	Add: {
		binSig(Add, Int, Int, Int, func(a, b Value) Value { return IntVal(a.I + b.I) }),
		binSig(Add, Float, Float, Float, func(a, b Value) Value { return FloatVal(a.AsFloat() + b.AsFloat()) }),
	},
	Sub: {
		binSig(Sub, Int, Int, Int, func(a, b Value) Value { return IntVal(a.I - b.I) }),
		binSig(Sub, Float, Float, Float, func(a, b Value) Value { return FloatVal(a.AsFloat() - b.AsFloat()) }),
	},
	Mul: {
		binSig(Mul, Int, Int, Int, func(a, b Value) Value { return IntVal(a.I * b.I) }),
		binSig(Mul, Float, Float, Float, func(a, b Value) Value { return FloatVal(a.AsFloat() * b.AsFloat()) }),
	},
	Div: {
		binSig(Div, Int, Int, Int, func(a, b Value) Value { return IntVal(truncDiv(a.I, b.I)) }),
		binSig(Div, Float, Float, Float, func(a, b Value) Value { return FloatVal(a.AsFloat() / b.AsFloat()) }),
	},
	Mod: {
		// Integer % only; sign follows the dividend (spec §6).
		binSig(Mod, Int, Int, Int, func(a, b Value) Value { return IntVal(a.I % b.I) }),
	},
	Pow: {
		binSig(Pow, Float, Float, Float, func(a, b Value) Value { return FloatVal(math.Pow(a.AsFloat(), b.AsFloat())) }),
	},
	Log: {
		// log(x, b) = ln(x) / ln(b)
		binSig(Log, Float, Float, Float, func(a, b Value) Value {
			return FloatVal(math.Log(a.AsFloat()) / math.Log(b.AsFloat()))
		}),
	},
	Neg: {
		unSig(Neg, Int, Int, func(a Value) Value { return IntVal(-a.I) }),
		unSig(Neg, Float, Float, func(a Value) Value { return FloatVal(-a.AsFloat()) }),
	},
	Not: {
		unSig(Not, Bool, Bool, func(a Value) Value { return BoolVal(!a.B) }),
	},
	And: {binSig(And, Bool, Bool, Bool, func(a, b Value) Value { return BoolVal(a.B && b.B) })},
	Or:  {binSig(Or, Bool, Bool, Bool, func(a, b Value) Value { return BoolVal(a.B || b.B) })},
	Eq: {
		binSig(Eq, Int, Int, Bool, func(a, b Value) Value { return BoolVal(a.I == b.I) }),
		binSig(Eq, Float, Float, Bool, func(a, b Value) Value { return BoolVal(a.AsFloat() == b.AsFloat()) }),
		binSig(Eq, Bool, Bool, Bool, func(a, b Value) Value { return BoolVal(a.B == b.B) }),
	},
	Neq: {
		binSig(Neq, Int, Int, Bool, func(a, b Value) Value { return BoolVal(a.I != b.I) }),
		binSig(Neq, Float, Float, Bool, func(a, b Value) Value { return BoolVal(a.AsFloat() != b.AsFloat()) }),
		binSig(Neq, Bool, Bool, Bool, func(a, b Value) Value { return BoolVal(a.B != b.B) }),
	},
	Lt: {
		binSig(Lt, Int, Int, Bool, func(a, b Value) Value { return BoolVal(a.I < b.I) }),
		binSig(Lt, Float, Float, Bool, func(a, b Value) Value { return BoolVal(a.AsFloat() < b.AsFloat()) }),
	},
	Le: {
		binSig(Le, Int, Int, Bool, func(a, b Value) Value { return BoolVal(a.I <= b.I) }),
		binSig(Le, Float, Float, Bool, func(a, b Value) Value { return BoolVal(a.AsFloat() <= b.AsFloat()) }),
	},
	Gt: {
		binSig(Gt, Int, Int, Bool, func(a, b Value) Value { return BoolVal(a.I > b.I) }),
		binSig(Gt, Float, Float, Bool, func(a, b Value) Value { return BoolVal(a.AsFloat() > b.AsFloat()) }),
	},
	Ge: {
		binSig(Ge, Int, Int, Bool, func(a, b Value) Value { return BoolVal(a.I >= b.I) }),
		binSig(Ge, Float, Float, Bool, func(a, b Value) Value { return BoolVal(a.AsFloat() >= b.AsFloat()) }),
	},
}

func truncDiv(a, b int64) int64 {
	// Go's integer division already truncates toward zero, matching spec §6.
	return a / b
}

func binSig(op Op, p1, p2, res Kind, impl func(a, b Value) Value) Signature {
	return Signature{
		Op:   op,
		Type: Func{Params: []Type{Ground{p1}, Ground{p2}}, Result: Ground{res}},
		Impl: func(args ...Value) Value { return impl(args[0], args[1]) },
	}
}

func unSig(op Op, p, res Kind, impl func(a Value) Value) Signature {
	return Signature{
		Op:   op,
		Type: Func{Params: []Type{Ground{p}}, Result: Ground{res}},
		Impl: func(args ...Value) Value { return impl(args[0]) },
	}
}

// Candidates returns the ordered list of signatures known for an operator.
func Candidates(op Op) []Signature {
	return candidates[op]
}

// Resolve selects the least candidate signature of op such that each
// argument type subtypes the corresponding parameter, and the signature's
// result subtypes expected. "Least" means first match in declaration order,
// which is arranged int-before-float per operator above.
func Resolve(op Op, argTypes []Type, expected Type) (Signature, error) {
	for _, c := range candidates[op] {
		if len(c.Type.Params) != len(argTypes) {
			continue
		}

		ok := true

		for i, a := range argTypes {
			if !Subtype(a, c.Type.Params[i]) {
				ok = false
				break
			}
		}

		if ok && Subtype(c.Type.Result, expected) {
			return c, nil
		}
	}

	return Signature{}, &TypeMismatch{Op: op, Args: argTypes, Expected: expected, Candidates: candidates[op]}
}

// Apply evaluates a resolved signature against concrete values.
func Apply(sig Signature, values ...Value) Value {
	return sig.Impl(values...)
}
