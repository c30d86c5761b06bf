// Package ast defines FIG's abstract syntax tree: a tagged hierarchy of
// small interfaces (Node, Expr, Decl, Transition, Effect, Distribution,
// Property) implemented by concrete structs, in the style of the teacher's
// pkg/corset/ast package. Nodes are plain heap-allocated Go values connected
// by ordinary pointers rather than an arena of indices: FIG models are small
// enough (tens to low hundreds of nodes) that the extra indirection an arena
// would buy isn't worth the loss of direct field access while walking the
// tree during type-checking and model building.
//
// Source locations are not embedded in node structs. Instead, a
// *source.Maps[Node] built during parsing associates each Node with its
// originating span, exactly as the teacher's resolver threads a
// *source.Maps[ast.Node] through every pass (pkg/corset/compiler/resolver.go).
// This keeps node structs comparable (needed as map keys in scope tables and
// source maps) and keeps the "where did this come from" concern out of every
// node variant.
package ast

// Node is implemented by every AST variant. It exists purely as a marker so
// that *source.Maps[Node] can key diagnostics on any tree element; there is
// deliberately no Accept/visitor method on the interface itself (see
// visitor.go for why).
type Node interface {
	isNode()
}

// Model is the root of a parsed FIG program: an ordered list of modules plus
// top-level declarations (global constants) and properties (spec §3.2).
type Model struct {
	Modules   []*Module
	Globals   []Decl
	Properties []Property
}

func (*Model) isNode() {}

// Module is one IOSA automaton: a name, its local declarations, and its
// transitions, in source order (spec §3.2).
type Module struct {
	Name         string
	Declarations []Decl
	Transitions  []Transition
}

func (*Module) isNode() {}
