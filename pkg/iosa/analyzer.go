package iosa

import (
	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/diag"
	"github.com/raulmonti/fig/pkg/eval"
	"github.com/raulmonti/fig/pkg/scope"
	"github.com/raulmonti/fig/pkg/types"
	"github.com/raulmonti/fig/pkg/util/source"
)

// confluenceDepth bounds the reachability search used by the non-confluence
// check (see Graph.reachableWithin): FIG's committed-action chains are
// short, so a handful of steps is enough to find the common merge state a
// correct IOSA model always has.
const confluenceDepth = 6

// DefaultMaxStates bounds BFS enumeration; exceeding it is a fatal build
// error per spec §4.6 ("abort with an error if enumeration exceeds a
// configured bound").
const DefaultMaxStates = 200000

// Result is everything the analyzer computed for one module.
type Result struct {
	Module            string
	Graph             *Graph
	NonConfluent      [][2]Edge
	TriggeringClosure map[string]map[string]bool
	InitialEdges      []Edge
	SpontaneousEdges  []Edge
}

// Analyzer holds the per-module state threaded through one Analyze call.
type Analyzer struct {
	Module    *scope.Module
	AST       *ast.Module
	Log       *diag.Log
	MaxStates int
	srcmap    *source.Maps[ast.Node]

	bounds map[string][2]int64
}

// New constructs an Analyzer for one module. srcmap may be nil.
func New(m *scope.Module, mod *ast.Module, srcmap *source.Maps[ast.Node]) *Analyzer {
	return &Analyzer{Module: m, AST: mod, Log: diag.NewLog(), MaxStates: DefaultMaxStates, srcmap: srcmap}
}

func (a *Analyzer) span(n ast.Node) source.Span {
	if a.srcmap != nil && a.srcmap.Has(n) {
		return a.srcmap.Get(n)
	}

	return source.Span{}
}

// Analyze runs the full explicit-state analysis described in spec §4.6 and
// returns the constructed graph plus every derived structure, alongside its
// own diagnostic log (warnings for non-determinism potentials, fatal errors
// for enumeration overruns or out-of-range transitions).
func (a *Analyzer) Analyze() *Result {
	a.bounds = a.computeBounds()

	g := a.enumerate()

	initState := encodeState(a.varNames(), a.initialEnv())

	nonConfluent := a.nonConfluentPairs(g)
	initialEdges := g.Outgoing(initState)

	var spontaneous []Edge
	spontaneousLabels := map[string]bool{}

	for _, e := range initialEdges {
		if e.Kind.IsOutputLike() || e.Kind == ast.TauLabel {
			spontaneous = append(spontaneous, e)
			spontaneousLabels[e.Label] = true
		}
	}

	closure := a.triggeringClosure(g, spontaneousLabels)

	rootLabels := map[string]bool{}
	for _, e := range initialEdges {
		rootLabels[e.Label] = true
	}

	smt := newEnumeratedSmt(g.States, a.Module)

	a.emitConfluenceWarnings(nonConfluent, closure, rootLabels)
	a.checkOutputDeterminism(g, smt)
	a.checkInputDeterminism(g, smt)
	a.checkClockExhaustion(g)

	return &Result{
		Module:            a.AST.Name,
		Graph:             g,
		NonConfluent:      nonConfluent,
		TriggeringClosure: closure,
		InitialEdges:      initialEdges,
		SpontaneousEdges:  spontaneous,
	}
}

func (a *Analyzer) varNames() []string {
	var names []string

	for _, d := range a.Module.LocalDecls() {
		if _, isClock := d.(*ast.ClockDecl); !isClock {
			names = append(names, d.Name())
		}
	}

	return names
}

func (a *Analyzer) computeBounds() map[string][2]int64 {
	b := map[string][2]int64{}

	for _, d := range a.Module.LocalDecls() {
		r, ok := d.(*ast.Ranged)
		if !ok {
			continue
		}

		lo := eval.Fold(r.Lower, a.Module)
		up := eval.Fold(r.Upper, a.Module)

		if lo.Reducible && up.Reducible {
			b[r.Id] = [2]int64{lo.Value.I, up.Value.I}
		}
	}

	return b
}

func zeroValue(k types.Kind) types.Value {
	if k == types.Bool {
		return types.BoolVal(false)
	}

	return types.IntVal(0)
}

func (a *Analyzer) initialEnv() map[string]types.Value {
	env := map[string]types.Value{}

	for _, d := range a.Module.LocalDecls() {
		switch dd := d.(type) {
		case *ast.Ranged:
			if res := eval.Fold(dd.Init, a.Module); res.Reducible {
				env[dd.Id] = res.Value
			}
		case *ast.Initialized:
			if res := eval.Fold(dd.Init, a.Module); res.Reducible {
				env[dd.Id] = res.Value
			}
		case *ast.Array:
			env[dd.Id] = a.initialArray(dd)
		}
	}

	return env
}

func (a *Analyzer) initialArray(dd *ast.Array) types.Value {
	size := 1
	if sizeRes := eval.Fold(dd.Size, a.Module); sizeRes.Reducible {
		size = int(sizeRes.Value.I)
	}

	elems := make([]types.Value, size)

	for i := range elems {
		var ve ast.Expr

		switch {
		case len(dd.Elements) == 1:
			ve = dd.Elements[0]
		case i < len(dd.Elements):
			ve = dd.Elements[i]
		}

		if ve == nil {
			elems[i] = zeroValue(dd.Element)
			continue
		}

		if res := eval.Fold(ve, a.Module); res.Reducible {
			elems[i] = res.Value
		} else {
			elems[i] = zeroValue(dd.Element)
		}
	}

	kind := types.ArrayOfInt
	if dd.Element == types.Bool {
		kind = types.ArrayOfBool
	}

	return types.Value{Kind: kind, Arr: elems}
}

func cloneEnv(env map[string]types.Value) map[string]types.Value {
	out := make(map[string]types.Value, len(env))

	for k, v := range env {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v types.Value) types.Value {
	if v.Arr == nil {
		return v
	}

	arr := make([]types.Value, len(v.Arr))
	copy(arr, v.Arr)

	return types.Value{Kind: v.Kind, Arr: arr}
}

func (a *Analyzer) withinBounds(env map[string]types.Value) bool {
	for name, rng := range a.bounds {
		v, ok := env[name]
		if !ok {
			continue
		}

		if v.I < rng[0] || v.I > rng[1] {
			return false
		}
	}

	return true
}

// applyBranch evaluates every assignment of br against the pre-state env
// (simultaneous update semantics) and returns the resulting state plus
// whether it is in-range.
func (a *Analyzer) applyBranch(env map[string]types.Value, br *ast.Branch) (map[string]types.Value, bool) {
	next := cloneEnv(env)
	ok := true

	for _, asg := range br.Assignments {
		res := eval.FoldWithEnv(asg.Rhs, a.Module, env)
		if !res.Reducible {
			ok = false
			continue
		}

		switch loc := asg.Loc.(type) {
		case *ast.Identifier:
			next[loc.Name] = res.Value
		case *ast.IndexedIdentifier:
			idx := eval.FoldWithEnv(loc.Index, a.Module, env)
			arrVal := next[loc.Name]

			if !idx.Reducible || int(idx.Value.I) < 0 || int(idx.Value.I) >= len(arrVal.Arr) {
				ok = false
				continue
			}

			arrVal.Arr[idx.Value.I] = res.Value
			next[loc.Name] = arrVal
		}
	}

	if ok {
		ok = a.withinBounds(next)
	}

	return next, ok
}

func guardHolds(m eval.Constants, env map[string]types.Value, guard ast.Expr) bool {
	if guard == nil {
		return true
	}

	res := eval.FoldWithEnv(guard, m, env)

	return res.Reducible && res.Value.Kind == types.Bool && res.Value.B
}

func (a *Analyzer) enumerate() *Graph {
	g := newGraph()

	initEnv := a.initialEnv()
	names := a.varNames()
	initState := encodeState(names, initEnv)

	g.addState(initState, initEnv)
	queue := []LocalState{initState}

	for len(queue) > 0 {
		if len(g.States) > a.MaxStates {
			a.Log.ErrorfNoSpan(diag.BuildErr, "module %q: state enumeration exceeded bound of %d states", a.AST.Name, a.MaxStates)
			break
		}

		cur := queue[0]
		queue = queue[1:]
		env := g.States[cur]

		for _, t := range a.AST.Transitions {
			if !guardHolds(a.Module, env, t.Guard()) {
				continue
			}

			for _, br := range t.Branches() {
				next, ok := a.applyBranch(env, br)
				if !ok {
					a.Log.Errorf(diag.RuntimeErr, a.span(t), "module %q: transition %q leaves a declared range", a.AST.Name, t.Label())
					continue
				}

				dst := encodeState(names, next)
				if g.addState(dst, next) {
					queue = append(queue, dst)
				}

				g.addEdge(Edge{Src: cur, Dst: dst, Label: t.Label(), Kind: t.Kind(), Branch: br, Tx: t})
			}
		}
	}

	return g
}

func (a *Analyzer) nonConfluentPairs(g *Graph) [][2]Edge {
	var pairs [][2]Edge

	for s := range g.States {
		var committed []Edge

		for _, e := range g.Outgoing(s) {
			if e.Kind.IsCommitted() && e.Kind.IsOutputLike() {
				committed = append(committed, e)
			}
		}

		for i := 0; i < len(committed); i++ {
			for j := i + 1; j < len(committed); j++ {
				e1, e2 := committed[i], committed[j]

				r1 := g.reachableWithin(e1.Dst, confluenceDepth)
				r2 := g.reachableWithin(e2.Dst, confluenceDepth)

				confluent := false

				for st := range r1 {
					if r2[st] {
						confluent = true
						break
					}
				}

				if !confluent {
					pairs = append(pairs, [2]Edge{e1, e2})
				}
			}
		}
	}

	return pairs
}

// triggeringClosure computes the direct "a triggers committed-output b"
// relation and its reflexive-transitive closure via the classical O(n^3)
// sweep (spec §4.6).
func (a *Analyzer) triggeringClosure(g *Graph, spontaneousLabels map[string]bool) map[string]map[string]bool {
	closure := map[string]map[string]bool{}
	labelSet := map[string]bool{}

	add := func(x, y string) {
		if closure[x] == nil {
			closure[x] = map[string]bool{}
		}

		closure[x][y] = true
		labelSet[x] = true
		labelSet[y] = true
	}

	for _, e := range g.Edges {
		labelSet[e.Label] = true

		for _, e2 := range g.Outgoing(e.Dst) {
			if e2.Kind.IsCommitted() && e2.Kind.IsOutputLike() && !spontaneousLabels[e2.Label] {
				add(e.Label, e2.Label)
			}
		}
	}

	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}

	for _, l := range labels {
		add(l, l)
	}

	for _, k := range labels {
		for _, i := range labels {
			if !closure[i][k] {
				continue
			}

			for _, j := range labels {
				if closure[k][j] {
					add(i, j)
				}
			}
		}
	}

	return closure
}

func triggeredBySomeRoot(label string, closure map[string]map[string]bool, roots map[string]bool) bool {
	if roots[label] {
		return true
	}

	for r := range roots {
		if closure[r][label] {
			return true
		}
	}

	return false
}

func (a *Analyzer) emitConfluenceWarnings(pairs [][2]Edge, closure map[string]map[string]bool, roots map[string]bool) {
	for _, pr := range pairs {
		aLabel, bLabel := pr[0].Label, pr[1].Label

		if triggeredBySomeRoot(aLabel, closure, roots) && triggeredBySomeRoot(bLabel, closure, roots) {
			a.Log.Warnf(diag.IOSAWarn, a.span(pr[0].Tx),
				"potential non-determinism: committed outputs %q and %q do not provably reach a common state", aLabel, bLabel)
		}
	}
}

// checkOutputDeterminism enforces spec §4.6: two output transitions sharing
// a triggering clock must either have disjoint guards, or produce the same
// update and reset the same clocks, for every state where both are enabled.
func (a *Analyzer) checkOutputDeterminism(g *Graph, smt Smt) {
	byClock := map[string][]ast.Transition{}

	for _, t := range a.AST.Transitions {
		if t.Kind().IsOutputLike() {
			if c := t.TriggerClock(); c != nil {
				byClock[c.Name] = append(byClock[c.Name], t)
			}
		}
	}

	for clock, txs := range byClock {
		for i := 0; i < len(txs); i++ {
			for j := i + 1; j < len(txs); j++ {
				a.compareSharedClockPair(g, smt, clock, txs[i], txs[j])
			}
		}
	}
}

// compareSharedClockPair first asks the Smt backend whether t1 and t2's
// guards can hold simultaneously in any reachable state (disjoint guards
// need no further check); only when they overlap does it walk the
// enumerated states looking for one where the resulting updates actually
// differ.
func (a *Analyzer) compareSharedClockPair(g *Graph, smt Smt, clock string, t1, t2 ast.Transition) {
	smt.Push()

	if t1.Guard() != nil {
		smt.Assert(t1.Guard(), nil)
	}

	if t2.Guard() != nil {
		smt.Assert(t2.Guard(), nil)
	}

	overlap := smt.Check()
	smt.Pop()

	if !overlap {
		return
	}

	for _, env := range g.States {
		if !guardHolds(a.Module, env, t1.Guard()) || !guardHolds(a.Module, env, t2.Guard()) {
			continue
		}

		if resetClockSet(t1) != resetClockSet(t2) || !a.sameUpdate(env, t1, t2) {
			a.Log.Warnf(diag.IOSAWarn, a.span(t1),
				"transitions %q and %q share triggering clock %q with overlapping guards but differing updates", t1.Label(), t2.Label(), clock)

			return
		}
	}
}

func (a *Analyzer) sameUpdate(env map[string]types.Value, t1, t2 ast.Transition) bool {
	r1 := a.branchOutcomes(env, t1)
	r2 := a.branchOutcomes(env, t2)

	if len(r1) != len(r2) {
		return false
	}

	for i := range r1 {
		if encodeState(a.varNames(), r1[i]) != encodeState(a.varNames(), r2[i]) {
			return false
		}
	}

	return true
}

func (a *Analyzer) branchOutcomes(env map[string]types.Value, t ast.Transition) []map[string]types.Value {
	var outcomes []map[string]types.Value

	for _, br := range t.Branches() {
		next, ok := a.applyBranch(env, br)
		if ok {
			outcomes = append(outcomes, next)
		}
	}

	return outcomes
}

func resetClockSet(t ast.Transition) string {
	seen := map[string]bool{}
	var names []string

	for _, br := range t.Branches() {
		for _, r := range br.Resets {
			if !seen[r.Clock.Name] {
				seen[r.Clock.Name] = true
				names = append(names, r.Clock.Name)
			}
		}
	}

	return encodeState(names, nil)
}

// checkInputDeterminism enforces spec §4.6: two input transitions sharing a
// label must produce identical postcondition effects and reset the same
// clocks, for every state where both are enabled. Pairs whose guards the
// Smt backend finds disjoint are skipped.
func (a *Analyzer) checkInputDeterminism(g *Graph, smt Smt) {
	byLabel := map[string][]ast.Transition{}

	for _, t := range a.AST.Transitions {
		if t.Kind() == ast.InputLabel || t.Kind() == ast.InputCommittedLabel {
			byLabel[t.Label()] = append(byLabel[t.Label()], t)
		}
	}

	for label, txs := range byLabel {
		for i := 0; i < len(txs); i++ {
			for j := i + 1; j < len(txs); j++ {
				t1, t2 := txs[i], txs[j]

				smt.Push()

				if t1.Guard() != nil {
					smt.Assert(t1.Guard(), nil)
				}

				if t2.Guard() != nil {
					smt.Assert(t2.Guard(), nil)
				}

				overlap := smt.Check()
				smt.Pop()

				if !overlap {
					continue
				}

				for _, env := range g.States {
					if !guardHolds(a.Module, env, t1.Guard()) || !guardHolds(a.Module, env, t2.Guard()) {
						continue
					}

					if resetClockSet(t1) != resetClockSet(t2) || !a.sameUpdate(env, t1, t2) {
						a.Log.Warnf(diag.IOSAWarn, a.span(t1),
							"input transitions labeled %q produce different updates in the same state", label)

						break
					}
				}
			}
		}
	}
}

// checkClockExhaustion enforces spec §4.6's exhausted-clock reachability
// check: for each output/tau edge whose branch does not reset its own
// triggering clock, it warns when some other transition leaving the same
// state, without resetting that clock either, reaches a state where the
// first transition's guard still holds. It walks the enumerated graph
// directly and does not use the Smt backend.
func (a *Analyzer) checkClockExhaustion(g *Graph) {
	for _, e := range g.Edges {
		if !e.Kind.IsOutputLike() && e.Kind != ast.TauLabel {
			continue
		}

		clock := e.Tx.TriggerClock()
		if clock == nil {
			continue
		}

		if resetSetContains(e.Branch, clock.Name) {
			continue
		}

		for _, other := range g.Outgoing(e.Src) {
			if other.Tx == e.Tx || resetSetContains(other.Branch, clock.Name) {
				continue
			}

			if guardHolds(a.Module, g.States[other.Dst], e.Tx.Guard()) {
				a.Log.Warnf(diag.IOSAWarn, a.span(e.Tx),
					"clock %q may be exhausted by transition %q before %q fires", clock.Name, other.Tx.Label(), e.Tx.Label())
			}
		}
	}
}

func resetSetContains(br *ast.Branch, clock string) bool {
	if br == nil {
		return false
	}

	for _, r := range br.Resets {
		if r.Clock.Name == clock {
			return true
		}
	}

	return false
}
