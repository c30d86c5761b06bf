// Package types defines FIG's ground type system: the handful of value
// domains that IOSA model declarations and expressions range over, plus the
// subtyping and join rules used by the type checker and operator resolver.
package types

import "fmt"

// Kind identifies one of the ground type families.
type Kind uint8

// The ground types recognised throughout the pipeline.
const (
	// Unknown is the bottom type: it subtypes (and is compatible with)
	// every other type.  It arises when an expression could not be typed,
	// e.g. because an earlier error already broke the containing node.
	Unknown Kind = iota
	Int
	Bool
	Float
	Clock
	ArrayOfInt
	ArrayOfBool
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Float:
		return "float"
	case Clock:
		return "clock"
	case ArrayOfInt:
		return "array<int>"
	case ArrayOfBool:
		return "array<bool>"
	default:
		return "???"
	}
}

// Type is either a ground type or a function type t1 -> t2.  Operator
// signatures are represented as (unary or binary) function types built from
// this same interface, so that subtype/join can treat them uniformly.
type Type interface {
	fmt.Stringer
	// isType is unexported to keep Type closed to this package's variants.
	isType()
}

// Ground wraps a Kind as a Type.
type Ground struct{ Kind Kind }

func (Ground) isType() {}

func (g Ground) String() string { return g.Kind.String() }

// NewGround is shorthand for constructing a Ground type.
func NewGround(k Kind) Ground { return Ground{k} }

// Func represents a function type over one or two arguments, used for
// operator signatures.  Arity is len(Params).
type Func struct {
	Params []Type
	Result Type
}

func (Func) isType() {}

func (f Func) String() string {
	s := "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + f.Result.String()
}

// Subtype implements the reflexive subtyping relation described in spec
// §3.1: reflexive on ground types, int <= float, unknown <= t for every t,
// contravariant on function arguments and covariant on function results.
func Subtype(t, u Type) bool {
	switch tt := t.(type) {
	case Ground:
		if tt.Kind == Unknown {
			return true
		}

		uu, ok := u.(Ground)
		if !ok {
			return false
		}

		if uu.Kind == Unknown {
			return true
		}

		if tt.Kind == uu.Kind {
			return true
		}

		return tt.Kind == Int && uu.Kind == Float
	case Func:
		uu, ok := u.(Func)
		if !ok || len(tt.Params) != len(uu.Params) {
			return false
		}
		// contravariant in arguments
		for i := range tt.Params {
			if !Subtype(uu.Params[i], tt.Params[i]) {
				return false
			}
		}
		// covariant in result
		return Subtype(tt.Result, uu.Result)
	default:
		return false
	}
}

// Join computes the least upper bound of two ground types under Subtype.
// Join of incompatible ground types yields Unknown rather
// than failing, leaving the caller to raise a proper type error with more
// context.
func Join(t, u Type) Type {
	gt, ok1 := t.(Ground)
	gu, ok2 := u.(Ground)

	if !ok1 || !ok2 {
		return Ground{Unknown}
	}

	switch {
	case gt.Kind == Unknown:
		return gu
	case gu.Kind == Unknown:
		return gt
	case gt.Kind == gu.Kind:
		return gt
	case gt.Kind == Int && gu.Kind == Float, gt.Kind == Float && gu.Kind == Int:
		return Ground{Float}
	default:
		return Ground{Unknown}
	}
}

// IsNumeric reports whether a ground type is int or float.
func IsNumeric(t Type) bool {
	g, ok := t.(Ground)
	return ok && (g.Kind == Int || g.Kind == Float)
}

// IsArray reports whether a ground type is one of the array kinds.
func IsArray(t Type) bool {
	g, ok := t.(Ground)
	return ok && (g.Kind == ArrayOfInt || g.Kind == ArrayOfBool)
}

// AsType wraps a Kind as a Ground Type, for call sites (e.g. the constant
// folder) that only have a concrete value's Kind on hand and need a Type to
// feed back into operator resolution.
func (k Kind) AsType() Type { return Ground{k} }
