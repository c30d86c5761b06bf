package iosa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/scope"
	"github.com/raulmonti/fig/pkg/types"
)

func ic(v int64) ast.Expr {
	return &ast.IConst{Value: v, Type: types.Ground{Kind: types.Int}}
}

func idExpr(name string) ast.Expr {
	return &ast.LocExp{Loc: &ast.Identifier{Name: name}, Type: types.Ground{Kind: types.Int}}
}

func counterFixture(upper int64) (*scope.Module, *ast.Module) {
	g := scope.NewGlobal()
	m, _ := g.NewModule("m")

	x := &ast.Ranged{Id: "x", Lower: ic(0), Upper: ic(upper), Init: ic(0)}
	m.InsertLocal(x)

	guard := &ast.BinOpExp{Op: types.Lt, Left: idExpr("x"), Right: ic(upper), Type: types.Ground{Kind: types.Bool}}
	branch := &ast.Branch{
		Assignments: []*ast.Assignment{{
			Loc: &ast.Identifier{Name: "x"},
			Rhs: &ast.BinOpExp{Op: types.Add, Left: idExpr("x"), Right: ic(1), Type: types.Ground{Kind: types.Int}},
		}},
		Resets: []*ast.ClockReset{{
			Clock: &ast.Identifier{Name: "c"},
			Dist:  &ast.Distribution{Kind: ast.Exponential, Params: []ast.Expr{&ast.FConst{Value: 1.0, Type: types.Ground{Kind: types.Float}}}},
		}},
	}
	out := ast.NewOutput("inc", guard, []*ast.Branch{branch}, &ast.Identifier{Name: "c"})

	mod := &ast.Module{Name: "m", Declarations: []ast.Decl{x}, Transitions: []ast.Transition{out}}

	return m, mod
}

func TestAnalyzeEnumeratesEveryReachableLocalState(t *testing.T) {
	m, mod := counterFixture(2)
	a := New(m, mod, nil)

	res := a.Analyze()

	assert.Len(t, res.Graph.States, 3)
	assert.False(t, a.Log.HasErrors())
}

func TestAnalyzeReportsInitialEdgeAsSpontaneous(t *testing.T) {
	m, mod := counterFixture(1)
	a := New(m, mod, nil)

	res := a.Analyze()

	assert.Len(t, res.InitialEdges, 1)
	assert.Len(t, res.SpontaneousEdges, 1)
	assert.Equal(t, "inc", res.SpontaneousEdges[0].Label)
}

func TestAnalyzeFlagsOutOfRangeTransitionAsError(t *testing.T) {
	m, mod := counterFixture(2)
	// Remove the guard so the transition fires past the declared upper bound.
	mod.Transitions[0].(*ast.Output).Pre = nil

	a := New(m, mod, nil)
	a.Analyze()

	assert.True(t, a.Log.HasErrors())
}

func TestAnalyzeAbortsWhenStateBoundExceeded(t *testing.T) {
	m, mod := counterFixture(100)
	a := New(m, mod, nil)
	a.MaxStates = 2

	a.Analyze()

	assert.True(t, a.Log.HasErrors())
}

func TestAnalyzeAllMergesPerModuleLogs(t *testing.T) {
	g := scope.NewGlobal()
	g.NewModule("m")

	_, mod := counterFixture(2)
	model := &ast.Model{Modules: []*ast.Module{mod}}

	results, log := AnalyzeAll(g, model, nil)

	assert.Contains(t, results, "m")
	assert.False(t, log.HasErrors())
}

func TestAnalyzeAllReportsMissingScope(t *testing.T) {
	g := scope.NewGlobal()
	_, mod := counterFixture(2)
	model := &ast.Model{Modules: []*ast.Module{mod}}

	_, log := AnalyzeAll(g, model, nil)

	assert.True(t, log.HasErrors())
}
