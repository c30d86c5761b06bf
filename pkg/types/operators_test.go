package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePicksIntOverFloatWhenArgumentsAreInt(t *testing.T) {
	sig, err := Resolve(Add, []Type{Ground{Int}, Ground{Int}}, Ground{Int})
	assert.NoError(t, err)
	assert.Equal(t, Ground{Int}, sig.Type.Result)

	v := Apply(sig, IntVal(2), IntVal(3))
	assert.Equal(t, int64(5), v.I)
}

func TestResolvePromotesIntArgumentToFloatSignature(t *testing.T) {
	sig, err := Resolve(Add, []Type{Ground{Int}, Ground{Float}}, Ground{Float})
	assert.NoError(t, err)

	v := Apply(sig, IntVal(2), FloatVal(1.5))
	assert.Equal(t, 3.5, v.F)
}

func TestResolveFailsWhenNoSignatureMatches(t *testing.T) {
	_, err := Resolve(And, []Type{Ground{Int}, Ground{Int}}, Ground{Bool})
	assert.Error(t, err)

	var mismatch *TypeMismatch
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, And, mismatch.Op)
}

func TestResolveFailsWhenExpectedResultIsIncompatible(t *testing.T) {
	_, err := Resolve(Eq, []Type{Ground{Int}, Ground{Int}}, Ground{Int})
	assert.Error(t, err)
}

func TestModSignsFollowDividend(t *testing.T) {
	sig, err := Resolve(Mod, []Type{Ground{Int}, Ground{Int}}, Ground{Int})
	assert.NoError(t, err)

	v := Apply(sig, IntVal(-7), IntVal(3))
	assert.Equal(t, int64(-1), v.I)
}

func TestDivTruncatesTowardZero(t *testing.T) {
	sig, err := Resolve(Div, []Type{Ground{Int}, Ground{Int}}, Ground{Int})
	assert.NoError(t, err)

	v := Apply(sig, IntVal(-7), IntVal(2))
	assert.Equal(t, int64(-3), v.I)
}

func TestCandidatesReturnsOrderedSignatures(t *testing.T) {
	cands := Candidates(Add)
	assert.Len(t, cands, 2)
	assert.Equal(t, Ground{Int}, cands[0].Type.Result)
	assert.Equal(t, Ground{Float}, cands[1].Type.Result)
}

func TestNotRejectsWrongArity(t *testing.T) {
	_, err := Resolve(Not, []Type{Ground{Bool}, Ground{Bool}}, Ground{Bool})
	assert.Error(t, err)
}
