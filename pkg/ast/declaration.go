package ast

import "github.com/raulmonti/fig/pkg/types"

// Decl is implemented by every declaration variant (spec §3.2). A
// declaration may be marked constant; constant-marked declarations populate
// the global constants table (C3) and must be acyclic (spec §3.2 invariant).
type Decl interface {
	Node
	isDecl()
	Name() string
	IsConstant() bool
	DeclaredType() types.Type
}

// Initialized declares a variable with just an initial value and no
// explicit range. The model builder gives it the full range of its type,
// and the IOSA analyzer applies no range check to it.
type Initialized struct {
	Id       string
	Init     Expr
	Constant bool
	Type     types.Type
}

func (*Initialized) isNode()               {}
func (*Initialized) isDecl()               {}
func (d *Initialized) Name() string        { return d.Id }
func (d *Initialized) IsConstant() bool    { return d.Constant }
func (d *Initialized) DeclaredType() types.Type { return d.Type }

// Ranged declares an integer variable with an explicit [Lower..Upper] range
// and an initial value, e.g. "p : [0..1] init 0".
type Ranged struct {
	Id       string
	Lower    Expr
	Upper    Expr
	Init     Expr
	Constant bool
}

func (*Ranged) isNode()            {}
func (*Ranged) isDecl()            {}
func (d *Ranged) Name() string     { return d.Id }
func (d *Ranged) IsConstant() bool { return d.Constant }
func (d *Ranged) DeclaredType() types.Type { return types.Ground{Kind: types.Int} }

// ClockDecl declares a stochastic clock. Its distribution is registered
// separately in the scope's clock_dist table (spec §3.3) rather than held
// here, since a clock may be referenced by name from many transitions before
// any of them supplies the (shared) distribution.
type ClockDecl struct {
	Id string
}

func (*ClockDecl) isNode()            {}
func (*ClockDecl) isDecl()            {}
func (d *ClockDecl) Name() string     { return d.Id }
func (d *ClockDecl) IsConstant() bool { return false }
func (d *ClockDecl) DeclaredType() types.Type { return types.Ground{Kind: types.Clock} }

// Array declares a fixed-size array, optionally ranged, with either a
// single initializer applied to every element or one initializer per
// element.
type Array struct {
	Id       string
	Size     Expr
	Lower    Expr // nil if unranged
	Upper    Expr // nil if unranged
	Elements []Expr // len 1 (broadcast) or len == folded Size
	Constant bool
	Element  types.Kind // types.Int or types.Bool
}

func (*Array) isNode()            {}
func (*Array) isDecl()            {}
func (d *Array) Name() string     { return d.Id }
func (d *Array) IsConstant() bool { return d.Constant }
func (d *Array) DeclaredType() types.Type {
	if d.Element == types.Bool {
		return types.Ground{Kind: types.ArrayOfBool}
	}
	return types.Ground{Kind: types.ArrayOfInt}
}
