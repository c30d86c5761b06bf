package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/util/source"
)

func TestLogHasErrorsOnlyAfterFatalEntry(t *testing.T) {
	l := NewLog()
	assert.False(t, l.HasErrors())

	l.Warnf(IOSAWarn, source.Span{}, "a non-deterministic choice at %q", "x")
	assert.False(t, l.HasErrors())

	l.Errorf(TypeErr, source.Span{}, "bad type")
	assert.True(t, l.HasErrors())
}

func TestErrorsAndWarningsPartitionEntries(t *testing.T) {
	l := NewLog()
	l.ErrorfNoSpan(BuildErr, "build failed")
	l.Warnf(IOSAWarn, source.Span{}, "warn")

	assert.Len(t, l.Errors(), 1)
	assert.Len(t, l.Warnings(), 1)
	assert.Len(t, l.Entries(), 2)
}

func TestMergeAppendsEntriesFromOtherLog(t *testing.T) {
	l1 := NewLog()
	l1.ErrorfNoSpan(ScopeErr, "a")

	l2 := NewLog()
	l2.ErrorfNoSpan(RangeErr, "b")

	l1.Merge(l2)

	assert.Len(t, l1.Entries(), 2)
}

func TestIsFatalDistinguishesIOSAFromOtherCategories(t *testing.T) {
	assert.False(t, IsFatal(IOSAWarn))
	assert.True(t, IsFatal(TypeErr))
	assert.True(t, IsFatal(BuildErr))
}

func TestDiagnosticErrorIncludesSpanWhenPresent(t *testing.T) {
	d := Diagnostic{Category: TypeErr, Message: "oops", HasSpan: true}
	assert.Contains(t, d.Error(), "type: oops")

	noSpan := Diagnostic{Category: ScopeErr, Message: "oops"}
	assert.Equal(t, "scope: oops", noSpan.Error())
}
