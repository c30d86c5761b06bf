package ast

// DistKind enumerates the distribution families a clock reset may use
// (spec §3.2). Kind must be unique per clock across all of its resets
// (spec §3.3); parameters may still vary and are checked later by C5.
type DistKind uint8

const (
	Erlang DistKind = iota
	Normal
	Lognormal
	Uniform
	Exponential
	Weibull
	Rayleigh
	Gamma
	Hyperexponential2
	Dirac
)

func (k DistKind) String() string {
	names := [...]string{
		"erlang", "normal", "lognormal", "uniform", "exponential",
		"weibull", "rayleigh", "gamma", "hyperexponential2", "dirac",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// arity gives the expected parameter count for each distribution kind
// (one-, two- or three-parameter per spec §3.2).
var arity = map[DistKind]int{
	Erlang: 2, Normal: 2, Lognormal: 2, Uniform: 2, Exponential: 1,
	Weibull: 2, Rayleigh: 1, Gamma: 2, Hyperexponential2: 3, Dirac: 1,
}

// Arity returns the number of float-valued parameters a distribution kind
// expects.
func Arity(k DistKind) int { return arity[k] }

// Distribution is a clock-reset distribution: a kind plus its (float,
// compile-time-reducible per spec §9 Open Questions) parameters.
type Distribution struct {
	Kind   DistKind
	Params []Expr
}

func (*Distribution) isNode() {}
