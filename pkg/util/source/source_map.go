package source

// Span identifies a contiguous range of a FIG model or properties file by
// byte offset, rather than by a copied substring, so a diagnostic can later
// recover the enclosing line without retaining its own copy of the source
// text (spec §7: diagnostics report "a source span" alongside their
// message).
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span, panicking if the bounds are inverted: every
// other package constructs a Span only from positions it already knows are
// ordered (a front-end's current lexing offset and the token just consumed),
// so an inverted span here means that caller has a bug.
func NewSpan(start, end int) Span {
	if start > end {
		panic("source: invalid span")
	}

	return Span{start, end}
}

// Start returns the span's starting byte offset.
func (s *Span) Start() int { return s.start }

// End returns one past the span's last byte offset.
func (s *Span) End() int { return s.end }

// Length returns the number of bytes the span covers.
func (s *Span) Length() int { return s.end - s.start }

// Maps associates AST nodes with the span of source they were built from.
// A future model/properties parser populates one of these per run via Put;
// the type checker (C5) and IOSA analyzer (C6) only ever read it back via
// Has/Get to attach a span to a diagnostic, so this stays a single flat
// table rather than the teacher's per-file Map/Maps split, which exists to
// let go-corset join mappings recorded by several independently-parsed
// source files under one constraint system — FIG only ever has the one
// model file and one properties file open in the same parse, so that join
// machinery has nothing to do here.
type Maps[T comparable] struct {
	spans map[T]Span
}

// NewSourceMaps constructs an empty node-to-span table.
func NewSourceMaps[T comparable]() *Maps[T] {
	return &Maps[T]{spans: map[T]Span{}}
}

// Put records the span a node was parsed from. Panics if node is already
// registered, since a front-end should only ever record a node's span once,
// at the point it finishes building that node.
func (m *Maps[T]) Put(node T, span Span) {
	if _, ok := m.spans[node]; ok {
		panic("source: node already has a recorded span")
	}

	m.spans[node] = span
}

// Has reports whether node has a recorded span.
func (m *Maps[T]) Has(node T) bool {
	_, ok := m.spans[node]
	return ok
}

// Get returns the span recorded for node, or the zero Span if none was
// recorded; it does not panic. C5/C6 call Get only after Has already
// guarded it.
func (m *Maps[T]) Get(node T) Span {
	return m.spans[node]
}
