package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/types"
)

func intConst(v int64) ast.Expr {
	return &ast.IConst{Value: v, Type: types.Ground{Kind: types.Int}}
}

func ident(name string) ast.Expr {
	return &ast.LocExp{Loc: &ast.Identifier{Name: name}, Type: types.Ground{Kind: types.Int}}
}

func lt(e ast.Expr, v int64) ast.Expr {
	return &ast.BinOpExp{Op: types.Lt, Left: e, Right: intConst(v), Type: types.Ground{Kind: types.Bool}}
}

func validModel() *ast.Model {
	x := &ast.Ranged{Id: "x", Lower: intConst(0), Upper: intConst(5), Init: intConst(0)}
	clock := &ast.ClockDecl{Id: "c"}

	guard := lt(ident("x"), 5)
	branch := &ast.Branch{
		Assignments: []*ast.Assignment{{Loc: &ast.Identifier{Name: "x"}, Rhs: &ast.BinOpExp{Op: types.Add, Left: ident("x"), Right: intConst(1), Type: types.Ground{Kind: types.Int}}}},
		Resets:      []*ast.ClockReset{{Clock: &ast.Identifier{Name: "c"}, Dist: &ast.Distribution{Kind: ast.Exponential, Params: []ast.Expr{&ast.FConst{Value: 1.0, Type: types.Ground{Kind: types.Float}}}}}},
	}
	out := ast.NewOutput("inc", guard, []*ast.Branch{branch}, &ast.Identifier{Name: "c"})

	mod := &ast.Module{Name: "m", Declarations: []ast.Decl{x, clock}, Transitions: []ast.Transition{out}}

	prop := ast.NewTransient("reach5", guard, &ast.BinOpExp{Op: types.Eq, Left: ident("x"), Right: intConst(5), Type: types.Ground{Kind: types.Bool}})

	return &ast.Model{Modules: []*ast.Module{mod}, Properties: []ast.Property{prop}}
}

func TestCheckAcceptsValidModel(t *testing.T) {
	global, log := Check(validModel(), nil)

	assert.False(t, log.HasErrors())

	_, ok := global.Module("m")
	assert.True(t, ok)
}

func TestCheckRejectsDuplicateModuleName(t *testing.T) {
	m := validModel()
	m.Modules = append(m.Modules, &ast.Module{Name: "m"})

	_, log := Check(m, nil)
	assert.True(t, log.HasErrors())
}

func TestCheckRejectsOutOfRangeInit(t *testing.T) {
	x := &ast.Ranged{Id: "x", Lower: intConst(0), Upper: intConst(5), Init: intConst(9)}
	mod := &ast.Module{Name: "m", Declarations: []ast.Decl{x}}

	_, log := Check(&ast.Model{Modules: []*ast.Module{mod}}, nil)
	assert.True(t, log.HasErrors())
}

func TestCheckRejectsUnknownIdentifier(t *testing.T) {
	guard := lt(ident("ghost"), 5)
	out := ast.NewOutput("a", guard, nil, &ast.Identifier{Name: "c"})
	clock := &ast.ClockDecl{Id: "c"}
	mod := &ast.Module{Name: "m", Declarations: []ast.Decl{clock}, Transitions: []ast.Transition{out}}

	_, log := Check(&ast.Model{Modules: []*ast.Module{mod}}, nil)
	assert.True(t, log.HasErrors())
}

func TestCheckRejectsNonDNFProperty(t *testing.T) {
	body := &ast.UnOpExp{
		Op:  types.Not,
		Arg: &ast.BinOpExp{Op: types.Or, Left: lt(ident("x"), 1), Right: lt(ident("x"), 2), Type: types.Ground{Kind: types.Bool}},
		Type: types.Ground{Kind: types.Bool},
	}

	prop := ast.NewRate("p", body)

	_, log := Check(&ast.Model{Properties: []ast.Property{prop}}, nil)
	assert.True(t, log.HasErrors())
}

func TestCheckRejectsMismatchedClockDistributionKinds(t *testing.T) {
	clock := &ast.ClockDecl{Id: "c"}

	reset1 := &ast.ClockReset{Clock: &ast.Identifier{Name: "c"}, Dist: &ast.Distribution{Kind: ast.Exponential, Params: []ast.Expr{&ast.FConst{Value: 1.0, Type: types.Ground{Kind: types.Float}}}}}
	reset2 := &ast.ClockReset{Clock: &ast.Identifier{Name: "c"}, Dist: &ast.Distribution{Kind: ast.Uniform, Params: []ast.Expr{&ast.FConst{Value: 0.0, Type: types.Ground{Kind: types.Float}}, &ast.FConst{Value: 1.0, Type: types.Ground{Kind: types.Float}}}}}

	t1 := ast.NewOutput("a", &ast.BConst{Value: true, Type: types.Ground{Kind: types.Bool}}, []*ast.Branch{{Resets: []*ast.ClockReset{reset1}}}, &ast.Identifier{Name: "c"})
	t2 := ast.NewOutput("b", &ast.BConst{Value: true, Type: types.Ground{Kind: types.Bool}}, []*ast.Branch{{Resets: []*ast.ClockReset{reset2}}}, &ast.Identifier{Name: "c"})

	mod := &ast.Module{Name: "m", Declarations: []ast.Decl{clock}, Transitions: []ast.Transition{t1, t2}}

	_, log := Check(&ast.Model{Modules: []*ast.Module{mod}}, nil)
	assert.True(t, log.HasErrors())
}
