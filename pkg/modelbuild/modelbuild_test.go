package modelbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/runtime"
	"github.com/raulmonti/fig/pkg/scope"
	"github.com/raulmonti/fig/pkg/types"
)

// buildFixture constructs a one-module, one-transition, one-property model:
// module m has a ranged variable x in [0..5] starting at 0, an output
// transition "inc" triggered by clock c that fires when x<5 and sets x to
// x+1, and a transient property asking whether x reaches 5 while staying
// below it beforehand.
func buildFixture(t *testing.T) (*scope.Global, *ast.Model) {
	t.Helper()

	global := scope.NewGlobal()
	ms, ok := global.NewModule("m")
	assert.True(t, ok)

	xDecl := &ast.Ranged{
		Id:    "x",
		Lower: &ast.IConst{Value: 0, Type: types.Ground{Kind: types.Int}},
		Upper: &ast.IConst{Value: 5, Type: types.Ground{Kind: types.Int}},
		Init:  &ast.IConst{Value: 0, Type: types.Ground{Kind: types.Int}},
	}
	assert.True(t, ms.InsertLocal(xDecl))

	clockDecl := &ast.ClockDecl{Id: "c"}
	assert.True(t, ms.InsertLocal(clockDecl))

	guard := &ast.BinOpExp{
		Op:    types.Lt,
		Left:  &ast.LocExp{Loc: &ast.Identifier{Name: "x"}, Type: types.Ground{Kind: types.Int}},
		Right: &ast.IConst{Value: 5, Type: types.Ground{Kind: types.Int}},
		Type:  types.Ground{Kind: types.Bool},
	}

	rhs := &ast.BinOpExp{
		Op:    types.Add,
		Left:  &ast.LocExp{Loc: &ast.Identifier{Name: "x"}, Type: types.Ground{Kind: types.Int}},
		Right: &ast.IConst{Value: 1, Type: types.Ground{Kind: types.Int}},
		Type:  types.Ground{Kind: types.Int},
	}

	branch := &ast.Branch{
		Assignments: []*ast.Assignment{{Loc: &ast.Identifier{Name: "x"}, Rhs: rhs}},
		Resets:      []*ast.ClockReset{{Clock: &ast.Identifier{Name: "c"}, Dist: &ast.Distribution{Kind: ast.Exponential, Params: []ast.Expr{&ast.FConst{Value: 1.0, Type: types.Ground{Kind: types.Float}}}}}},
	}

	transition := ast.NewOutput("inc", guard, []*ast.Branch{branch}, &ast.Identifier{Name: "c"})

	mod := &ast.Module{
		Name:         "m",
		Declarations: []ast.Decl{xDecl, clockDecl},
		Transitions:  []ast.Transition{transition},
	}

	reach5 := &ast.BinOpExp{
		Op:    types.Eq,
		Left:  &ast.LocExp{Loc: &ast.Identifier{Name: "x"}, Type: types.Ground{Kind: types.Int}},
		Right: &ast.IConst{Value: 5, Type: types.Ground{Kind: types.Int}},
		Type:  types.Ground{Kind: types.Bool},
	}

	model := &ast.Model{
		Modules:    []*ast.Module{mod},
		Properties: []ast.Property{ast.NewTransient("reach5", guard, reach5)},
	}

	return global, model
}

func TestBuildProducesSealedNetworkAndPinnedProperties(t *testing.T) {
	global, model := buildFixture(t)

	network, props, log := Build(global, model)

	assert.False(t, log.HasErrors())
	assert.True(t, network.Sealed())
	assert.Len(t, network.Modules(), 1)

	prop, ok := props["reach5"]
	assert.True(t, ok)

	rare, err := prop.Rare(network.State())
	assert.NoError(t, err)
	assert.False(t, rare) // x starts at 0, not 5
}

func TestBuildPopulatesVariableBounds(t *testing.T) {
	global, model := buildFixture(t)

	network, _, log := Build(global, model)
	assert.False(t, log.HasErrors())

	pos := network.State().Positions()
	xPos, ok := pos["x"]
	assert.True(t, ok)
	assert.Equal(t, int64(0), network.State().Get(xPos))
}

func TestAddModuleAfterBuildSealReturnsErr(t *testing.T) {
	global, model := buildFixture(t)

	network, _, log := Build(global, model)
	assert.False(t, log.HasErrors())

	err := network.AddModule(runtime.NewModuleInstance("extra", nil))
	assert.Error(t, err)
}
