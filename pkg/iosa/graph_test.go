package iosa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/types"
)

func TestEncodeStateIsOrderIndependent(t *testing.T) {
	env := map[string]types.Value{"a": types.IntVal(1), "b": types.BoolVal(true)}

	s1 := encodeState([]string{"a", "b"}, env)
	s2 := encodeState([]string{"b", "a"}, env)

	assert.Equal(t, s1, s2)
}

func TestEncodeStateDistinguishesDifferentValues(t *testing.T) {
	s1 := encodeState([]string{"a"}, map[string]types.Value{"a": types.IntVal(1)})
	s2 := encodeState([]string{"a"}, map[string]types.Value{"a": types.IntVal(2)})

	assert.NotEqual(t, s1, s2)
}

func TestGraphAddStateReportsFirstInsertOnly(t *testing.T) {
	g := newGraph()

	assert.True(t, g.addState("s0", nil))
	assert.False(t, g.addState("s0", nil))
}

func TestGraphOutgoingAndByLabel(t *testing.T) {
	g := newGraph()
	g.addState("s0", nil)
	g.addState("s1", nil)

	e := Edge{Src: "s0", Dst: "s1", Label: "a", Kind: ast.OutputLabel}
	g.addEdge(e)

	assert.Equal(t, []Edge{e}, g.Outgoing("s0"))
	assert.Equal(t, []Edge{e}, g.ByLabel("a"))
	assert.Empty(t, g.Outgoing("s1"))
}

func TestReachableWithinRespectsDepthBound(t *testing.T) {
	g := newGraph()
	g.addState("s0", nil)
	g.addState("s1", nil)
	g.addState("s2", nil)
	g.addEdge(Edge{Src: "s0", Dst: "s1", Label: "a"})
	g.addEdge(Edge{Src: "s1", Dst: "s2", Label: "b"})

	near := g.reachableWithin("s0", 1)
	assert.True(t, near["s1"])
	assert.False(t, near["s2"])

	far := g.reachableWithin("s0", 2)
	assert.True(t, far["s2"])
}

func TestReachableWithinIncludesStartState(t *testing.T) {
	g := newGraph()
	g.addState("s0", nil)

	r := g.reachableWithin("s0", 3)
	assert.True(t, r["s0"])
}
