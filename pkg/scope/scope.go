// Package scope implements FIG's scope and symbol tables (C3): one scope per
// module plus a global constants table, populated during type checking and
// read-only thereafter (spec §3.3). The design mirrors the teacher's
// ModuleScope (pkg/corset/compiler/scope.go) but is flattened to a single
// level, since IOSA modules do not nest the way corset modules/perspectives
// do.
package scope

import (
	"github.com/raulmonti/fig/pkg/ast"
)

// Global holds the model-wide constants table (spec §3.3: "global
// constants: id -> Decl") plus one Module scope per declared automaton.
type Global struct {
	constants map[string]ast.Decl
	order     []string
	modules   map[string]*Module
}

// NewGlobal constructs an empty global scope.
func NewGlobal() *Global {
	return &Global{constants: map[string]ast.Decl{}, modules: map[string]*Module{}}
}

// InsertGlobal registers a global (necessarily constant) declaration.
// Returns false if the name is already taken.
func (g *Global) InsertGlobal(d ast.Decl) bool {
	if _, exists := g.constants[d.Name()]; exists {
		return false
	}

	g.constants[d.Name()] = d
	g.order = append(g.order, d.Name())

	return true
}

// Constant looks up a global constant by name.
func (g *Global) Constant(name string) (ast.Decl, bool) {
	d, ok := g.constants[name]
	return d, ok
}

// Constants returns all global constants in declaration order.
func (g *Global) Constants() []ast.Decl {
	out := make([]ast.Decl, len(g.order))
	for i, n := range g.order {
		out[i] = g.constants[n]
	}

	return out
}

// NewModule creates and registers a new module scope under this global
// scope, or returns false if a module of that name already exists.
func (g *Global) NewModule(name string) (*Module, bool) {
	if _, exists := g.modules[name]; exists {
		return nil, false
	}

	m := &Module{
		name:              name,
		global:            g,
		localDecls:        map[string]ast.Decl{},
		labelType:         map[string]ast.LabelKind{},
		clockDist:         map[string]*ast.Distribution{},
		labelTransitions:  map[string][]ast.Transition{},
		clockTriggers:     map[string][]ast.Transition{},
	}
	g.modules[name] = m

	return m, true
}

// Module looks up a previously created module scope by name.
func (g *Global) Module(name string) (*Module, bool) {
	m, ok := g.modules[name]
	return m, ok
}

// Modules returns all module scopes; iteration order is unspecified, callers
// needing source order should walk the AST's Model.Modules directly.
func (g *Global) Modules() map[string]*Module { return g.modules }

// FindInAllModules searches every module's local_decls for an identifier.
// Spec §4.3: "used only while type-checking properties, which may reference
// any module's variables." Returns the first module found to declare it and
// its Decl. Modules are searched in map iteration order, so when more than
// one module declares the same name, which of them is returned is
// unspecified; no uniqueness check is made.
func (g *Global) FindInAllModules(id string) (*Module, ast.Decl, bool) {
	for _, m := range g.modules {
		if d, ok := m.localDecls[id]; ok {
			return m, d, true
		}
	}

	return nil, nil, false
}

// Module is the per-automaton scope: local declarations, label-kind
// registry, clock-distribution registry, and the label/clock multisets
// described in spec §3.3.
type Module struct {
	name   string
	global *Global

	localDecls map[string]ast.Decl

	labelType        map[string]ast.LabelKind
	clockDist        map[string]*ast.Distribution
	labelTransitions map[string][]ast.Transition
	clockTriggers    map[string][]ast.Transition

	declOrder []string
}

// Name returns the module's name.
func (m *Module) Name() string { return m.name }

// InsertLocal registers a local declaration. Returns false if the name is
// already declared in this module (spec §3.3: "Redeclaration is an error").
func (m *Module) InsertLocal(d ast.Decl) bool {
	if _, exists := m.localDecls[d.Name()]; exists {
		return false
	}

	m.localDecls[d.Name()] = d
	m.declOrder = append(m.declOrder, d.Name())

	return true
}

// LocalDecls returns this module's declarations in insertion order.
func (m *Module) LocalDecls() []ast.Decl {
	out := make([]ast.Decl, len(m.declOrder))
	for i, n := range m.declOrder {
		out[i] = m.localDecls[n]
	}

	return out
}

// FindIdentifier resolves id, searching local declarations first then the
// global constants table (spec §4.3).
func (m *Module) FindIdentifier(id string) (ast.Decl, bool) {
	if d, ok := m.localDecls[id]; ok {
		return d, true
	}

	return m.global.Constant(id)
}

// Constant implements eval.Constants for a module scope by delegating to
// FindIdentifier: a module-local declaration shadows a same-named global,
// which matters when folding a range/size/distribution expression that
// refers back to an earlier local constant (spec §4.3).
func (m *Module) Constant(id string) (ast.Decl, bool) {
	return m.FindIdentifier(id)
}

// RegisterLabel records the kind of a label as used by one transition.
// Returns conflict=true and the previously registered kind if a different
// kind was already registered for this label (spec §4.3: "label type must be
// consistent across all transitions carrying the same label").
func (m *Module) RegisterLabel(label string, kind ast.LabelKind) (conflict bool, existing ast.LabelKind) {
	prev, seen := m.labelType[label]
	if seen && prev != kind {
		return true, prev
	}

	m.labelType[label] = kind
	m.labelTransitions[label] = append(m.labelTransitions[label], nil) // placeholder, see RegisterTransition

	return false, kind
}

// RegisterTransition records t under its label, for later lookup (e.g. by
// the IOSA analyzer's input/output determinism checks).
func (m *Module) RegisterTransition(label string, t ast.Transition) {
	txs := m.labelTransitions[label]
	// Drop the placeholder pushed by RegisterLabel, if still present.
	if n := len(txs); n > 0 && txs[n-1] == nil {
		txs = txs[:n-1]
	}

	m.labelTransitions[label] = append(txs, t)
}

// LabelTransitions returns every transition registered under a label.
func (m *Module) LabelTransitions(label string) []ast.Transition {
	return m.labelTransitions[label]
}

// LabelKind returns the registered kind of a label, if any.
func (m *Module) LabelKind(label string) (ast.LabelKind, bool) {
	k, ok := m.labelType[label]
	return k, ok
}

// RegisterClockReset records the distribution used to reset a clock.
// Returns a conflict if a reset of a different Kind was already registered
// for the same clock (spec §3.3: "clock-distribution kind must be unique
// per clock"); parameters are allowed to differ and are checked later.
func (m *Module) RegisterClockReset(clock string, dist *ast.Distribution) (conflict bool, existing ast.DistKind) {
	if prev, ok := m.clockDist[clock]; ok {
		if prev.Kind != dist.Kind {
			return true, prev.Kind
		}

		return false, prev.Kind
	}

	m.clockDist[clock] = dist

	return false, dist.Kind
}

// ClockDistribution returns the representative distribution registered for
// a clock, if any.
func (m *Module) ClockDistribution(clock string) (*ast.Distribution, bool) {
	d, ok := m.clockDist[clock]
	return d, ok
}

// RegisterTriggeringClock records that clock triggers output or tau
// transition t.
func (m *Module) RegisterTriggeringClock(clock string, t ast.Transition) {
	m.clockTriggers[clock] = append(m.clockTriggers[clock], t)
}

// ClockTriggers returns every output or tau transition triggered by a clock.
func (m *Module) ClockTriggers(clock string) []ast.Transition {
	return m.clockTriggers[clock]
}

// VarNames returns the names of this module's local declarations in
// insertion order; used by C10 to test clause membership.
func (m *Module) VarNames() []string {
	names := make([]string, len(m.declOrder))
	copy(names, m.declOrder)

	return names
}
