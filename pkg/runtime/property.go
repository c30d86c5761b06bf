package runtime

// PropertyKind mirrors the three property-body shapes of spec §3.2,
// compiled down to the expression-runtime representation the estimation
// controller (C9) checks against a Traial's state.
type PropertyKind uint8

const (
	TransientProperty PropertyKind = iota
	RateProperty
	TBoundSSProperty
)

func (k PropertyKind) String() string {
	switch k {
	case TransientProperty:
		return "transient"
	case RateProperty:
		return "rate"
	case TBoundSSProperty:
		return "tbound-ss"
	default:
		return "unknown"
	}
}

// Property is a compiled, pinned property body: every Expr field of the
// checked ast.Property has become a Precondition over the network's shared
// State, so checking it at simulation time costs one Eval call rather than
// a fresh fold of the original AST.
type Property struct {
	Name string
	Kind PropertyKind

	// Transient
	Left, Right *Precondition

	// Rate, TBoundSS
	Body *Precondition

	// TBoundSS, folded to concrete bounds at model-build time (spec §3.2:
	// distribution/range expressions must compile-time reduce).
	Low, Upp float64
}

// Pin pins every Precondition this property carries.
func (p *Property) Pin(pos PositionsMap) {
	if p.Left != nil {
		p.Left.Pin(pos)
	}

	if p.Right != nil {
		p.Right.Pin(pos)
	}

	if p.Body != nil {
		p.Body.Pin(pos)
	}
}

// Rare reports whether state satisfies the property's rare-event
// predicate: reaching Right for Transient, or Body for Rate/TBoundSS.
func (p *Property) Rare(state *State) (bool, error) {
	switch p.Kind {
	case TransientProperty:
		return p.Right.Eval(state)
	default:
		return p.Body.Eval(state)
	}
}

// Stop reports whether state leaves the property's "keep simulating"
// region: leaving Left for Transient (neither a goal nor a stop state
// means the trajectory continues). Rate and TBoundSS have no stop
// predicate distinct from Rare: steady-state/time-bounded properties are
// checked at every step rather than terminated on first exit.
func (p *Property) Stop(state *State) (bool, error) {
	if p.Kind != TransientProperty {
		return false, nil
	}

	inLeft, err := p.Left.Eval(state)
	if err != nil {
		return false, err
	}

	return !inLeft, nil
}
