package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/ast"
)

func rangedX() *ast.Ranged {
	return &ast.Ranged{Id: "x"}
}

func TestNewModuleRejectsDuplicateName(t *testing.T) {
	g := NewGlobal()

	_, ok := g.NewModule("m")
	assert.True(t, ok)

	_, ok = g.NewModule("m")
	assert.False(t, ok)
}

func TestInsertLocalRejectsRedeclaration(t *testing.T) {
	g := NewGlobal()
	m, _ := g.NewModule("m")

	assert.True(t, m.InsertLocal(rangedX()))
	assert.False(t, m.InsertLocal(rangedX()))
}

func TestFindIdentifierPrefersLocalOverGlobal(t *testing.T) {
	g := NewGlobal()
	g.InsertGlobal(&ast.Ranged{Id: "shared"})

	m, _ := g.NewModule("m")
	local := &ast.Ranged{Id: "shared", Lower: &ast.IConst{Value: 1}}
	m.InsertLocal(local)

	d, ok := m.FindIdentifier("shared")
	assert.True(t, ok)
	assert.Same(t, ast.Decl(local), d)
}

func TestFindIdentifierFallsBackToGlobalConstant(t *testing.T) {
	g := NewGlobal()
	c := &ast.Ranged{Id: "k"}
	g.InsertGlobal(c)

	m, _ := g.NewModule("m")

	d, ok := m.FindIdentifier("k")
	assert.True(t, ok)
	assert.Same(t, ast.Decl(c), d)
}

func TestFindInAllModulesLocatesDeclarationAcrossModules(t *testing.T) {
	g := NewGlobal()
	m1, _ := g.NewModule("m1")
	m2, _ := g.NewModule("m2")
	_ = m1

	y := &ast.Ranged{Id: "y"}
	m2.InsertLocal(y)

	found, d, ok := g.FindInAllModules("y")
	assert.True(t, ok)
	assert.Equal(t, "m2", found.Name())
	assert.Same(t, ast.Decl(y), d)
}

func TestFindInAllModulesReportsMissingIdentifier(t *testing.T) {
	g := NewGlobal()
	g.NewModule("m")

	_, _, ok := g.FindInAllModules("ghost")
	assert.False(t, ok)
}

func TestRegisterLabelDetectsKindConflict(t *testing.T) {
	g := NewGlobal()
	m, _ := g.NewModule("m")

	conflict, _ := m.RegisterLabel("a", ast.OutputLabel)
	assert.False(t, conflict)

	conflict, existing := m.RegisterLabel("a", ast.InputLabel)
	assert.True(t, conflict)
	assert.Equal(t, ast.OutputLabel, existing)
}

func TestRegisterLabelAllowsRepeatedSameKind(t *testing.T) {
	g := NewGlobal()
	m, _ := g.NewModule("m")

	conflict, _ := m.RegisterLabel("a", ast.OutputLabel)
	assert.False(t, conflict)

	conflict, _ = m.RegisterLabel("a", ast.OutputLabel)
	assert.False(t, conflict)
}

func TestRegisterClockResetDetectsDistributionKindConflict(t *testing.T) {
	g := NewGlobal()
	m, _ := g.NewModule("m")

	conflict, _ := m.RegisterClockReset("c", &ast.Distribution{Kind: ast.Exponential})
	assert.False(t, conflict)

	conflict, existing := m.RegisterClockReset("c", &ast.Distribution{Kind: ast.Uniform})
	assert.True(t, conflict)
	assert.Equal(t, ast.Exponential, existing)
}

func TestRegisterTransitionDropsLabelPlaceholder(t *testing.T) {
	g := NewGlobal()
	m, _ := g.NewModule("m")

	m.RegisterLabel("a", ast.OutputLabel)
	tx := ast.NewOutput("a", nil, nil, &ast.Identifier{Name: "c"})
	m.RegisterTransition("a", tx)

	txs := m.LabelTransitions("a")
	assert.Len(t, txs, 1)
	assert.Same(t, ast.Transition(tx), txs[0])
}

func TestVarNamesPreservesInsertionOrder(t *testing.T) {
	g := NewGlobal()
	m, _ := g.NewModule("m")

	m.InsertLocal(&ast.Ranged{Id: "b"})
	m.InsertLocal(&ast.Ranged{Id: "a"})

	assert.Equal(t, []string{"b", "a"}, m.VarNames())
}
