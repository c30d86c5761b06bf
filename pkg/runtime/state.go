// Package runtime implements the state-backed expression runtime and the
// runtime entities it operates on (C8, plus the State/Clock/ModuleNetwork
// shapes of C7): a dense positional value store, compiled
// preconditions/postconditions pinned to that store, a traial pool, and the
// sealed ModuleNetwork that composes everything. Grounded on the original
// FIG implementation's ExpState.h/ExpStateUpdater.h for the
// position-indexed evaluation strategy.
package runtime

import "fmt"

// Cell is one fixed-width signed-integer slot of a flattened network state:
// a simple variable or one element of an array region (spec §3.4, §6 "all
// state values are fixed-width signed integers"). Kind distinguishes a
// boolean cell (stored as 0/1) from a plain int cell so the expression
// runtime can hand the evaluator a correctly-typed Value.
type Cell struct {
	Name   string
	Lo, Up int64
	Value  int64
	Kind   CellKind
}

type CellKind uint8

const (
	IntCell CellKind = iota
	BoolCell
)

// PositionsMap resolves a variable or array name to the index of its first
// cell in a State (spec §3.4, §4.7's "pin_up_vars").
type PositionsMap map[string]int

// State is the dense, positionally-addressed value store the simulator
// reads and writes (spec §3.4): one Cell per simple variable, and one
// contiguous region of Cells per array, in declaration order.
type State struct {
	cells    []Cell
	pos      PositionsMap
	sizes    map[string]int
	varnames []string
}

// NewState constructs an empty state; ModuleNetwork.Seal populates it via
// AddVariable/AddArray in module-then-declaration order.
func NewState() *State {
	return &State{pos: PositionsMap{}, sizes: map[string]int{}}
}

// AddVariable appends a single-cell simple variable and returns its
// position.
func (s *State) AddVariable(name string, lo, up, init int64, kind CellKind) int {
	p := len(s.cells)
	s.pos[name] = p
	s.cells = append(s.cells, Cell{Name: name, Lo: lo, Up: up, Value: init, Kind: kind})
	s.varnames = append(s.varnames, name)

	return p
}

// AddArray appends one contiguous cell per element of init and returns the
// position of the first element.
func (s *State) AddArray(name string, lo, up int64, init []int64, kind CellKind) int {
	p := len(s.cells)
	s.pos[name] = p
	s.sizes[name] = len(init)

	for _, v := range init {
		s.cells = append(s.cells, Cell{Name: name, Lo: lo, Up: up, Value: v, Kind: kind})
	}

	s.varnames = append(s.varnames, name)

	return p
}

// Positions returns the name -> first-cell-position map built while the
// state was populated.
func (s *State) Positions() PositionsMap { return s.pos }

// VarNames returns every simple-variable and array name, in declaration
// order.
func (s *State) VarNames() []string { return s.varnames }

// ArraySize returns the element count of an array name, or 0 if name is not
// an array.
func (s *State) ArraySize(name string) int { return s.sizes[name] }

// CellKind returns the storage kind of the cell at pos.
func (s *State) CellKind(pos int) CellKind { return s.cells[pos].Kind }

// Get and Set provide O(1) positional access to a single cell's value.
func (s *State) Get(pos int) int64     { return s.cells[pos].Value }
func (s *State) Set(pos int, v int64) { s.cells[pos].Value = v }

// IsValid reports whether every cell's value lies within its declared
// range; encode_state's injectivity (spec §3.4) depends on this holding at
// all times.
func (s *State) IsValid() bool {
	for _, c := range s.cells {
		if c.Value < c.Lo || c.Value > c.Up {
			return false
		}
	}

	return true
}

// Clone returns an independent deep copy, used by the traial pool to hand
// out scratch states that can be mutated without aliasing the pool's
// originals (spec testable property #9).
func (s *State) Clone() *State {
	cells := make([]Cell, len(s.cells))
	copy(cells, s.cells)

	pos := make(PositionsMap, len(s.pos))
	for k, v := range s.pos {
		pos[k] = v
	}

	sizes := make(map[string]int, len(s.sizes))
	for k, v := range s.sizes {
		sizes[k] = v
	}

	return &State{cells: cells, pos: pos, sizes: sizes, varnames: append([]string(nil), s.varnames...)}
}

func (s *State) String() string {
	out := "{"

	for i, c := range s.cells {
		if i > 0 {
			out += ", "
		}

		out += fmt.Sprintf("%s=%d", c.Name, c.Value)
	}

	return out + "}"
}
