package iosa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/ast"
	"github.com/raulmonti/fig/pkg/types"
)

func xLessThan(v int64) ast.Expr {
	x := &ast.LocExp{Loc: &ast.Identifier{Name: "x"}, Type: types.Ground{Kind: types.Int}}
	bound := &ast.IConst{Value: v, Type: types.Ground{Kind: types.Int}}

	return &ast.BinOpExp{Op: types.Lt, Left: x, Right: bound, Type: types.Ground{Kind: types.Bool}}
}

func falseConst() ast.Expr {
	return &ast.BConst{Value: false, Type: types.Ground{Kind: types.Bool}}
}

func TestEnumeratedSmtCheckFindsSatisfyingState(t *testing.T) {
	states := map[LocalState]map[string]types.Value{
		"s0": {"x": types.IntVal(0)},
		"s1": {"x": types.IntVal(9)},
	}

	smt := newEnumeratedSmt(states, nil)
	smt.Assert(xLessThan(5), nil)

	assert.True(t, smt.Check())
}

func TestEnumeratedSmtCheckFailsWhenNoStateSatisfies(t *testing.T) {
	states := map[LocalState]map[string]types.Value{
		"s0": {"x": types.IntVal(9)},
	}

	smt := newEnumeratedSmt(states, nil)
	smt.Assert(xLessThan(5), nil)

	assert.False(t, smt.Check())
}

func TestEnumeratedSmtCheckIsTrueWithNoAssertions(t *testing.T) {
	smt := newEnumeratedSmt(map[LocalState]map[string]types.Value{}, nil)
	assert.True(t, smt.Check())
}

func TestEnumeratedSmtPushPopRestoresAssertions(t *testing.T) {
	states := map[LocalState]map[string]types.Value{
		"s0": {"x": types.IntVal(0)},
	}

	smt := newEnumeratedSmt(states, nil)
	smt.Push()
	smt.Assert(falseConst(), nil)
	assert.False(t, smt.Check())
	smt.Pop()

	assert.True(t, smt.Check())
}
