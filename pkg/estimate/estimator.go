package estimate

import "math"

// ConfidenceInterval accumulates simulation outcomes into a running point
// estimate and interval, and reports when that interval satisfies a
// ConfidenceCriterion (spec §4.9: estimate_value loops until its estimator
// is satisfied). Mean, Proportion, Wilson, Rate and Transient differ in
// which closed form they use for the interval half-width, and all take
// their observations through the same Update call regardless of property
// kind. Mean and Rate keep running moments of the observed values;
// Proportion, Wilson and Transient count how many observations are nonzero.
type ConfidenceInterval interface {
	// Update folds one more observation (the controller passes the point
	// estimate of one valid simulation batch) into the running estimate.
	Update(point float64)

	// N returns how many observations have been folded in so far.
	N() int64

	// Point returns the current point estimate.
	Point() float64

	// HalfWidth returns the interval's current half-width at its configured
	// confidence level.
	HalfWidth() float64

	// Satisfied reports whether the interval meets crit: an absolute
	// half-width at most crit.Precision, or, if crit.Relative, a half-width
	// at most crit.Precision times the point estimate.
	Satisfied(crit ConfidenceCriterion) bool
}

// moments is the running first and second moment used by Mean and, through
// it, Rate (Welford's online algorithm, avoiding the numerical instability of
// accumulating sum and sum-of-squares directly).
type moments struct {
	n    int64
	mean float64
	m2   float64
}

func (m *moments) update(x float64) {
	m.n++
	delta := x - m.mean
	m.mean += delta / float64(m.n)
	m.m2 += delta * (x - m.mean)
}

func (m *moments) variance() float64 {
	if m.n < 2 {
		return 0
	}

	return m.m2 / float64(m.n-1)
}

func (m *moments) stderr() float64 {
	if m.n == 0 {
		return math.Inf(1)
	}

	return math.Sqrt(m.variance() / float64(m.n))
}

func satisfied(point, halfWidth float64, crit ConfidenceCriterion) bool {
	bound := crit.Precision
	if crit.Relative {
		bound *= math.Abs(point)
	}

	return halfWidth <= bound
}

// Mean estimates E[X] from independent real-valued observations, via a
// normal-approximation interval (spec §4.9's default closed form for
// properties whose outcome is a real quantity rather than a 0/1 indicator,
// e.g. a rate estimate's per-run contribution).
type Mean struct {
	moments
	level float64
}

// NewMean returns a Mean estimator at the given confidence level (e.g. 0.95).
func NewMean(level float64) *Mean { return &Mean{level: level} }

func (e *Mean) Update(x float64) { e.moments.update(x) }
func (e *Mean) N() int64         { return e.moments.n }
func (e *Mean) Point() float64   { return e.moments.mean }

func (e *Mean) HalfWidth() float64 {
	return zScore(e.level) * e.moments.stderr()
}

func (e *Mean) Satisfied(crit ConfidenceCriterion) bool {
	return e.moments.n > 0 && satisfied(e.Point(), e.HalfWidth(), crit)
}

// Proportion estimates P(rare event) from a stream of 0/1 indicators, via
// the Wald normal-approximation interval (spec §4.9, transient and
// steady-state rare-event probabilities).
type Proportion struct {
	n, successes int64
	level        float64
}

// NewProportion returns a Proportion estimator at the given confidence level.
func NewProportion(level float64) *Proportion { return &Proportion{level: level} }

func (e *Proportion) Update(x float64) {
	e.n++

	if x != 0 {
		e.successes++
	}
}

func (e *Proportion) N() int64       { return e.n }
func (e *Proportion) Point() float64 { return float64(e.successes) / float64(e.n) }

func (e *Proportion) HalfWidth() float64 {
	p := e.Point()

	return zScore(e.level) * math.Sqrt(p*(1-p)/float64(e.n))
}

func (e *Proportion) Satisfied(crit ConfidenceCriterion) bool {
	return e.n > 0 && satisfied(e.Point(), e.HalfWidth(), crit)
}

// Wilson estimates P(rare event) like Proportion, but via the Wilson score
// interval, which stays well-behaved when the point estimate is near 0 or 1
// (the common case for a rare-event probability before importance splitting
// has done its job) instead of Wald's interval collapsing to zero width.
type Wilson struct {
	n, successes int64
	level        float64
}

// NewWilson returns a Wilson estimator at the given confidence level.
func NewWilson(level float64) *Wilson { return &Wilson{level: level} }

func (e *Wilson) Update(x float64) {
	e.n++

	if x != 0 {
		e.successes++
	}
}

func (e *Wilson) N() int64 { return e.n }

func (e *Wilson) center() (phat, mid, halfWidth float64) {
	z := zScore(e.level)
	n := float64(e.n)
	phat = float64(e.successes) / n
	z2 := z * z

	denom := 1 + z2/n
	mid = (phat + z2/(2*n)) / denom
	halfWidth = (z / denom) * math.Sqrt(phat*(1-phat)/n+z2/(4*n*n))

	return phat, mid, halfWidth
}

func (e *Wilson) Point() float64 {
	_, mid, _ := e.center()

	return mid
}

func (e *Wilson) HalfWidth() float64 {
	_, _, hw := e.center()

	return hw
}

func (e *Wilson) Satisfied(crit ConfidenceCriterion) bool {
	return e.n > 0 && satisfied(e.Point(), e.HalfWidth(), crit)
}

// Rate estimates a steady-state rate (events per unit time) from per-run
// rate observations. It shares Mean's normal-approximation math: a rate
// estimate is a real-valued sample mean, not an indicator proportion.
type Rate struct {
	Mean
}

// NewRate returns a Rate estimator at the given confidence level.
func NewRate(level float64) *Rate { return &Rate{Mean: *NewMean(level)} }

// Transient estimates a transient (reachability-within-region) probability
// from per-run 0/1 indicators. It shares Proportion's math: a transient
// property's outcome per run is "did the rare event happen before leaving
// the region", an indicator exactly like a steady-state hit.
type Transient struct {
	Proportion
}

// NewTransient returns a Transient estimator at the given confidence level.
func NewTransient(level float64) *Transient { return &Transient{Proportion: *NewProportion(level)} }

// zScore returns the standard normal quantile for a two-sided confidence
// level (e.g. 0.95 -> ~1.96), via the identity between the normal quantile
// function and the inverse error function. No third-party statistics
// library exists anywhere in the example corpus, so this is implemented
// directly against math.Erfinv rather than introducing a new dependency for
// a single function.
func zScore(level float64) float64 {
	if level <= 0 {
		level = 0.5
	}

	if level >= 1 {
		level = 0.999999999
	}

	p := 1 - (1-level)/2

	return math.Sqrt2 * math.Erfinv(2*p-1)
}
