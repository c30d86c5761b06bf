package ast

import "github.com/raulmonti/fig/pkg/types"

// Expr is implemented by every expression variant (spec §3.2). Every
// expression carries an inferred Type once the type checker (C5) has run;
// operator nodes additionally carry the resolved Signature chosen by C1.
// Both fields start nil/zero and are filled in-place by typecheck, mirroring
// the teacher's practice of annotating AST nodes during resolution rather
// than building a parallel typed tree (pkg/corset/compiler/typing.go).
type Expr interface {
	Node
	isExpr()
	// InferredType returns the type assigned by the checker, or nil before
	// type-checking has run.
	InferredType() types.Type
}

// IConst is an integer literal.
type IConst struct {
	Value int64
	Type  types.Type
}

func (*IConst) isNode() {}
func (*IConst) isExpr() {}
func (e *IConst) InferredType() types.Type { return e.Type }

// BConst is a boolean literal.
type BConst struct {
	Value bool
	Type  types.Type
}

func (*BConst) isNode() {}
func (*BConst) isExpr() {}
func (e *BConst) InferredType() types.Type { return e.Type }

// FConst is a float literal.
type FConst struct {
	Value float64
	Type  types.Type
}

func (*FConst) isNode() {}
func (*FConst) isExpr() {}
func (e *FConst) InferredType() types.Type { return e.Type }

// LocExp reads the current value of a Location (a variable or array
// element) within an expression.
type LocExp struct {
	Loc  Location
	Type types.Type
}

func (*LocExp) isNode() {}
func (*LocExp) isExpr() {}
func (e *LocExp) InferredType() types.Type { return e.Type }

// UnOpExp applies a unary operator to a single argument.
type UnOpExp struct {
	Op   types.Op
	Arg  Expr
	Type types.Type
	Sig  *types.Signature
}

func (*UnOpExp) isNode() {}
func (*UnOpExp) isExpr() {}
func (e *UnOpExp) InferredType() types.Type { return e.Type }

// BinOpExp applies a binary operator to two arguments.
type BinOpExp struct {
	Op    types.Op
	Left  Expr
	Right Expr
	Type  types.Type
	Sig   *types.Signature
}

func (*BinOpExp) isNode() {}
func (*BinOpExp) isExpr() {}
func (e *BinOpExp) InferredType() types.Type { return e.Type }

// ArrayCallExp applies one of the array helper functions (fsteq, lsteq,
// rndeq, minfrom, maxfrom, sumfrom, sumkmax, consec, broken, fstexclude;
// spec §3.1) to an array location and zero or more scalar arguments.
type ArrayCallExp struct {
	Op   types.Op
	Arr  Location
	Args []Expr
	Type types.Type
}

func (*ArrayCallExp) isNode() {}
func (*ArrayCallExp) isExpr() {}
func (e *ArrayCallExp) InferredType() types.Type { return e.Type }
