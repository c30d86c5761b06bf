// Package diag implements the error/warning accumulator (C11) attached to
// every analysis pass of the FIG pipeline.  Passes never panic or return
// early on the first problem; they append to a Log and keep going so that as
// many diagnostics as possible surface in one run (spec §4.11, §7).
package diag

import (
	"fmt"

	"github.com/raulmonti/fig/pkg/util/source"
)

// Severity distinguishes fatal diagnostics from advisory ones.
type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Category is the closed taxonomy of diagnostics from spec §7.
type Category uint8

const (
	SyntaxErr Category = iota
	ScopeErr
	TypeErr
	RangeErr
	IOSAWarn
	BuildErr
	RuntimeErr
)

func (c Category) String() string {
	switch c {
	case SyntaxErr:
		return "syntax"
	case ScopeErr:
		return "scope"
	case TypeErr:
		return "type"
	case RangeErr:
		return "range"
	case IOSAWarn:
		return "iosa"
	case BuildErr:
		return "build"
	case RuntimeErr:
		return "runtime"
	default:
		return "unknown"
	}
}

// fatalCategories are the categories IsFatal reports as fatal; IOSAWarn is
// not among them (spec §4.11, §7). A diagnostic's severity is set by the
// Log method that records it (Errorf or Warnf), not by this table.
var fatalCategories = map[Category]bool{
	SyntaxErr: true,
	ScopeErr:  true,
	TypeErr:   true,
	RangeErr:  true,
	BuildErr:  true,
	RuntimeErr: true,
}

// Diagnostic is one accumulated entry: a severity, an optional source span,
// and a human-readable message.
type Diagnostic struct {
	Severity Severity
	Category Category
	Span     source.Span
	HasSpan  bool
	Message  string
}

func (d Diagnostic) Error() string {
	if d.HasSpan {
		return fmt.Sprintf("%s: %s (%d:%d)", d.Category, d.Message, d.Span.Start(), d.Span.End())
	}
	return fmt.Sprintf("%s: %s", d.Category, d.Message)
}

// Log accumulates diagnostics produced by a pass.  It is passed by pointer
// to every visitor/pass function; nothing in this package ever panics.
type Log struct {
	entries []Diagnostic
}

// NewLog constructs an empty diagnostic log.
func NewLog() *Log { return &Log{} }

// Errorf records a fatal diagnostic of the given category at the given span.
func (l *Log) Errorf(cat Category, span source.Span, format string, args ...any) {
	l.entries = append(l.entries, Diagnostic{
		Severity: Error, Category: cat, Span: span, HasSpan: true,
		Message: fmt.Sprintf(format, args...),
	})
}

// ErrorfNoSpan records a fatal diagnostic with no associated source location
// (e.g. a whole-model invariant violation discovered well after parsing).
func (l *Log) ErrorfNoSpan(cat Category, format string, args ...any) {
	l.entries = append(l.entries, Diagnostic{
		Severity: Error, Category: cat, Message: fmt.Sprintf(format, args...),
	})
}

// Warnf records an advisory diagnostic (used exclusively by the IOSA
// analyzer for non-determinism potentials, per spec §7).
func (l *Log) Warnf(cat Category, span source.Span, format string, args ...any) {
	l.entries = append(l.entries, Diagnostic{
		Severity: Warning, Category: cat, Span: span, HasSpan: true,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any fatal diagnostic has been recorded.  Passes
// downstream of a failing pass consult this to decide whether to run at all
// (spec §4.11: "the pipeline halts after each pass that has produced at
// least one error").
func (l *Log) HasErrors() bool {
	for _, e := range l.entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

// Entries returns all accumulated diagnostics in recording order.
func (l *Log) Entries() []Diagnostic { return l.entries }

// Errors returns only the fatal diagnostics.
func (l *Log) Errors() []Diagnostic {
	var out []Diagnostic
	for _, e := range l.entries {
		if e.Severity == Error {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns only the advisory diagnostics.
func (l *Log) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, e := range l.entries {
		if e.Severity == Warning {
			out = append(out, e)
		}
	}
	return out
}

// Merge appends another log's entries onto this one; used when a pass fans
// out sub-passes (e.g. per-module IOSA analysis) and needs to combine their
// diagnostics.
func (l *Log) Merge(other *Log) {
	l.entries = append(l.entries, other.entries...)
}

// IsFatal reports whether a category is always-fatal (as opposed to IOSA's
// warning-only category).
func IsFatal(cat Category) bool { return fatalCategories[cat] }

// Render produces a multi-line, human-readable rendering of the log's
// entries, including source-line context when a *source.File is supplied for
// the diagnostic's file. This mirrors the teacher's line-highlighting
// SyntaxError rendering (pkg/util/source/source_file.go).
func Render(l *Log, file *source.File) string {
	var out string

	for _, e := range l.Entries() {
		out += e.Error() + "\n"

		if e.HasSpan && file != nil {
			line := file.FindFirstEnclosingLine(e.Span)
			out += fmt.Sprintf("  line %d: %s\n", line.Number(), line.String())
		}
	}

	return out
}
