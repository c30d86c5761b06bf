package ast

// Location identifies an assignable place: either a plain identifier or an
// array element access (spec §3.2). Locations appear as the LHS of
// assignments and clock resets, and are embedded in LocExp when read from.
type Location interface {
	Node
	isLocation()
	// Ident returns the base identifier name, which for an IndexedLocation
	// is the array's name rather than a synthesised per-element name.
	Ident() string
}

// Identifier is a plain variable or clock reference.
type Identifier struct {
	Name string
	// Binding is filled in by the type checker once the identifier has been
	// resolved against a scope (spec §4.5 step 2). nil until resolved.
	Binding Decl
}

func (*Identifier) isNode()     {}
func (*Identifier) isLocation() {}
func (i *Identifier) Ident() string { return i.Name }

// IndexedIdentifier is an array element access arr[Index].
type IndexedIdentifier struct {
	Name    string
	Index   Expr
	Binding Decl
}

func (*IndexedIdentifier) isNode()     {}
func (*IndexedIdentifier) isLocation() {}
func (i *IndexedIdentifier) Ident() string { return i.Name }
