package ast

// Property is implemented by the three property-body shapes of spec §3.2.
type Property interface {
	Node
	isProperty()
	// Name optionally labels the property for reporting; may be empty.
	Name() string
}

type baseProperty struct{ Nm string }

func (p baseProperty) Name() string { return p.Nm }

// Transient represents "P(left U right)": the probability of reaching a
// Right-state while remaining in Left-states. Both sides must be DNF (spec
// §3.2 invariant, enforced by C5).
type Transient struct {
	baseProperty
	Left  Expr
	Right Expr
}

func (*Transient) isNode()     {}
func (*Transient) isProperty() {}

// NewTransient builds a transient property.
func NewTransient(name string, left, right Expr) *Transient {
	return &Transient{baseProperty{Nm: name}, left, right}
}

// Rate represents "S(expr)": the long-run fraction of time spent in
// expr-states. Expr must be DNF.
type Rate struct {
	baseProperty
	Body Expr
}

func (*Rate) isNode()     {}
func (*Rate) isProperty() {}

// NewRate builds a rate property.
func NewRate(name string, body Expr) *Rate {
	return &Rate{baseProperty{Nm: name}, body}
}

// TBoundSS represents a time-bounded steady-state property: the probability
// of being in an Expr-state at some time uniformly drawn from [Low, Upp].
type TBoundSS struct {
	baseProperty
	Low  Expr
	Upp  Expr
	Body Expr
}

func (*TBoundSS) isNode()     {}
func (*TBoundSS) isProperty() {}

// NewTBoundSS builds a time-bounded steady-state property.
func NewTBoundSS(name string, low, upp, body Expr) *TBoundSS {
	return &TBoundSS{baseProperty{Nm: name}, low, upp, body}
}
