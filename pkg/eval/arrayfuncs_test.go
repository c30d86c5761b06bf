package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raulmonti/fig/pkg/types"
)

func ints(vs ...int64) []types.Value {
	out := make([]types.Value, len(vs))
	for i, v := range vs {
		out[i] = types.IntVal(v)
	}

	return out
}

func TestFsteqFindsFirstMatch(t *testing.T) {
	v, ok := fsteq(ints(1, 2, 3, 2), ints(2))
	assert.True(t, ok)
	assert.Equal(t, int64(1), v.I)
}

func TestFsteqNoMatchReturnsMinusOne(t *testing.T) {
	v, ok := fsteq(ints(1, 2, 3), ints(9))
	assert.True(t, ok)
	assert.Equal(t, int64(-1), v.I)
}

func TestLsteqFindsLastMatch(t *testing.T) {
	v, ok := lsteq(ints(1, 2, 3, 2), ints(2))
	assert.True(t, ok)
	assert.Equal(t, int64(3), v.I)
}

func TestMinfromAndMaxfrom(t *testing.T) {
	arr := ints(5, 1, 9, 2)

	min, ok := minfrom(arr, ints(1))
	assert.True(t, ok)
	assert.Equal(t, int64(1), min.I)

	max, ok := maxfrom(arr, ints(1))
	assert.True(t, ok)
	assert.Equal(t, int64(2), max.I)
}

func TestSumfrom(t *testing.T) {
	v, ok := sumfrom(ints(1, 2, 3, 4), ints(2))
	assert.True(t, ok)
	assert.Equal(t, int64(7), v.I)
}

func TestSumkmaxSumsKGreatest(t *testing.T) {
	v, ok := sumkmax(ints(5, 1, 9, 2, 7), ints(2))
	assert.True(t, ok)
	assert.Equal(t, int64(16), v.I) // 9 + 7
}

func TestSumkmaxRejectsOutOfRangeK(t *testing.T) {
	_, ok := sumkmax(ints(1, 2, 3), ints(10))
	assert.False(t, ok)
}

func TestConsecDetectsRunOfTrue(t *testing.T) {
	arr := []types.Value{types.BoolVal(true), types.BoolVal(true), types.BoolVal(false), types.BoolVal(true)}

	v, ok := consec(arr, ints(2))
	assert.True(t, ok)
	assert.Equal(t, int64(1), v.I)

	v, ok = consec(arr, ints(3))
	assert.True(t, ok)
	assert.Equal(t, int64(0), v.I)
}

func TestBrokenMutatesArrayInPlace(t *testing.T) {
	arr := ints(0, 3, 0, 5)

	result, ok := broken(arr, ints(0))
	assert.True(t, ok)
	assert.Equal(t, int64(0), result.I)

	assert.Equal(t, int64(1), arr[0].I) // set to 1
	assert.Equal(t, int64(4), arr[1].I) // incremented, was nonzero
	assert.Equal(t, int64(0), arr[2].I) // left alone, was already zero
	assert.Equal(t, int64(6), arr[3].I) // incremented
}

func TestFstexcludeSkipsGivenIndex(t *testing.T) {
	arr := []types.Value{types.BoolVal(true), types.BoolVal(true), types.BoolVal(false)}

	v, ok := fstexclude(arr, ints(0))
	assert.True(t, ok)
	assert.Equal(t, int64(1), v.I)
}

func TestBoundedIndexRejectsOutOfRange(t *testing.T) {
	_, ok := boundedIndex(ints(1, 2), ints(5))
	assert.False(t, ok)
}

func TestApplyArrayFuncDispatchesByOp(t *testing.T) {
	v, ok := applyArrayFunc(types.Fsteq, ints(4, 5, 6), ints(5))
	assert.True(t, ok)
	assert.Equal(t, int64(1), v.I)

	_, ok = applyArrayFunc(types.Op("unknown"), ints(1), ints(1))
	assert.False(t, ok)
}
