package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/types"
)

type noConstants struct{}

func (noConstants) Constant(string) (ast.Decl, bool) { return nil, false }

func TestFoldConstantArithmetic(t *testing.T) {
	e := &ast.BinOpExp{
		Op:    types.Add,
		Left:  &ast.IConst{Value: 2, Type: types.Ground{Kind: types.Int}},
		Right: &ast.IConst{Value: 3, Type: types.Ground{Kind: types.Int}},
	}

	res := Fold(e, nil)
	assert.True(t, res.Reducible)
	assert.Equal(t, int64(5), res.Value.I)
}

func TestFoldArrayElementIsNeverCompileTimeConstant(t *testing.T) {
	loc := &ast.IndexedIdentifier{Name: "arr", Index: &ast.IConst{Value: 0, Type: types.Ground{Kind: types.Int}}}
	e := &ast.LocExp{Loc: loc, Type: types.Ground{Kind: types.Int}}

	res := Fold(e, noConstants{})
	assert.False(t, res.Reducible)
}

func TestFoldArrayCallWithEnvResolvesFsteq(t *testing.T) {
	call := &ast.ArrayCallExp{
		Op:   types.Fsteq,
		Arr:  &ast.Identifier{Name: "arr"},
		Args: []ast.Expr{&ast.IConst{Value: 2, Type: types.Ground{Kind: types.Int}}},
	}

	env := map[string]types.Value{
		"arr": {Kind: types.ArrayOfInt, Arr: ints(1, 2, 3)},
	}

	res := FoldWithEnv(call, nil, env)
	assert.True(t, res.Reducible)
	assert.Equal(t, int64(1), res.Value.I)
}

func TestFoldArrayCallWithoutEnvIsNotReducible(t *testing.T) {
	call := &ast.ArrayCallExp{
		Op:   types.Fsteq,
		Arr:  &ast.Identifier{Name: "arr"},
		Args: []ast.Expr{&ast.IConst{Value: 2, Type: types.Ground{Kind: types.Int}}},
	}

	res := Fold(call, nil)
	assert.False(t, res.Reducible)
}
