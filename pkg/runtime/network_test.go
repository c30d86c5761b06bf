package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddModuleAfterSealReturnsErrSealed(t *testing.T) {
	net := NewModuleNetwork()
	assert.NoError(t, net.Seal(func(*ModuleInstance, *State) {}))

	err := net.AddModule(NewModuleInstance("m", nil))
	assert.Error(t, err)
	assert.IsType(t, &ErrSealed{}, err)
}

func TestSealTwiceReturnsErrSealed(t *testing.T) {
	net := NewModuleNetwork()
	assert.NoError(t, net.Seal(func(*ModuleInstance, *State) {}))

	err := net.Seal(func(*ModuleInstance, *State) {})
	assert.Error(t, err)
}

func TestSealPinsEveryTransitionGuard(t *testing.T) {
	net := NewModuleNetwork()

	mod := NewModuleInstance("m", []string{"x"})
	transition := &Transition{
		Label: "a",
		Guard: NewPrecondition(nil, nil),
	}
	mod.Transitions = append(mod.Transitions, transition)

	assert.NoError(t, net.AddModule(mod))

	assert.NoError(t, net.Seal(func(m *ModuleInstance, state *State) {
		state.AddVariable("x", 0, 10, 0, IntCell)
	}))

	ok, err := transition.Guard.Eval(net.State())
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestByLabelGroupsAcrossModules(t *testing.T) {
	net := NewModuleNetwork()

	m1 := NewModuleInstance("m1", nil)
	m1.Transitions = append(m1.Transitions, &Transition{Label: "sync", Guard: NewPrecondition(nil, nil)})

	m2 := NewModuleInstance("m2", nil)
	m2.Transitions = append(m2.Transitions, &Transition{Label: "sync", Guard: NewPrecondition(nil, nil)})

	assert.NoError(t, net.AddModule(m1))
	assert.NoError(t, net.AddModule(m2))

	assert.Len(t, net.ByLabel("sync"), 2)
	assert.Empty(t, net.ByLabel("nope"))
}
