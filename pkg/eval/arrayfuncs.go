package eval

import (
	"math/rand"

	"github.com/raulmonti/fig/pkg/types"
)

// applyArrayFunc implements the array helper functions of spec §4.2,
// grounded on the original FIG implementation's ArrayFunctions.h (an
// exprtk::igeneric_function per helper). arr is the live array's element
// values; most helpers are pure and only read arr, but broken mutates it in
// place, relying on the caller (Updater.Apply) writing the mutated slice
// back into the owning state after evaluation.
func applyArrayFunc(op types.Op, arr []types.Value, args []types.Value) (types.Value, bool) {
	switch op {
	case types.Fsteq:
		return fsteq(arr, args)
	case types.Lsteq:
		return lsteq(arr, args)
	case types.Rndeq:
		return rndeq(arr, args)
	case types.Minfr:
		return minfrom(arr, args)
	case types.Maxfr:
		return maxfrom(arr, args)
	case types.Sumfr:
		return sumfrom(arr, args)
	case types.Sumkmx:
		return sumkmax(arr, args)
	case types.Consec:
		return consec(arr, args)
	case types.Broken:
		return broken(arr, args)
	case types.Fstexc:
		return fstexclude(arr, args)
	default:
		return types.Value{}, false
	}
}

func asInt(v types.Value) int64 {
	if v.Kind == types.Bool {
		if v.B {
			return 1
		}

		return 0
	}

	return v.I
}

func truthy(v types.Value) bool {
	if v.Kind == types.Bool {
		return v.B
	}

	return v.I != 0
}

// fsteq(array, e): first j with array[j]==e, or -1.
func fsteq(arr []types.Value, args []types.Value) (types.Value, bool) {
	if len(args) != 1 {
		return types.Value{}, false
	}

	target := asInt(args[0])

	for j, v := range arr {
		if asInt(v) == target {
			return types.IntVal(int64(j)), true
		}
	}

	return types.IntVal(-1), true
}

// lsteq(array, e): greatest j with array[j]==e, or -1.
func lsteq(arr []types.Value, args []types.Value) (types.Value, bool) {
	if len(args) != 1 {
		return types.Value{}, false
	}

	target := asInt(args[0])
	found := int64(-1)

	for j, v := range arr {
		if asInt(v) == target {
			found = int64(j)
		}
	}

	return types.IntVal(found), true
}

// rndeq(array, e): a uniformly chosen j with array[j]==e, or -1.
func rndeq(arr []types.Value, args []types.Value) (types.Value, bool) {
	if len(args) != 1 {
		return types.Value{}, false
	}

	target := asInt(args[0])

	var positions []int

	for j, v := range arr {
		if asInt(v) == target {
			positions = append(positions, j)
		}
	}

	if len(positions) == 0 {
		return types.IntVal(-1), true
	}

	return types.IntVal(int64(positions[rand.Intn(len(positions))])), true
}

// minfrom(array, j): position of the minimum of array[j:].
func minfrom(arr []types.Value, args []types.Value) (types.Value, bool) {
	j, ok := boundedIndex(arr, args)
	if !ok {
		return types.Value{}, false
	}

	selected := j
	min := asInt(arr[j])

	for i := j + 1; i < len(arr); i++ {
		if v := asInt(arr[i]); v < min {
			min = v
			selected = i
		}
	}

	return types.IntVal(int64(selected)), true
}

// maxfrom(array, j): position of the maximum of array[j:].
func maxfrom(arr []types.Value, args []types.Value) (types.Value, bool) {
	j, ok := boundedIndex(arr, args)
	if !ok {
		return types.Value{}, false
	}

	selected := j
	max := asInt(arr[j])

	for i := j + 1; i < len(arr); i++ {
		if v := asInt(arr[i]); v > max {
			max = v
			selected = i
		}
	}

	return types.IntVal(int64(selected)), true
}

// sumfrom(array, j): array[j] + array[j+1] + ... + array[len-1].
func sumfrom(arr []types.Value, args []types.Value) (types.Value, bool) {
	j, ok := boundedIndex(arr, args)
	if !ok {
		return types.Value{}, false
	}

	var sum int64
	for i := j; i < len(arr); i++ {
		sum += asInt(arr[i])
	}

	return types.IntVal(sum), true
}

// sumkmax(array, k): sum of the k greatest elements of array.
func sumkmax(arr []types.Value, args []types.Value) (types.Value, bool) {
	if len(args) != 1 {
		return types.Value{}, false
	}

	k := int(asInt(args[0]))
	if k < 0 || k > len(arr) {
		return types.Value{}, false
	}

	sorted := make([]int64, len(arr))
	for i, v := range arr {
		sorted[i] = asInt(v)
	}

	for i := 0; i < k; i++ {
		maxIdx := i

		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[maxIdx] {
				maxIdx = j
			}
		}

		sorted[i], sorted[maxIdx] = sorted[maxIdx], sorted[i]
	}

	var sum int64
	for i := 0; i < k; i++ {
		sum += sorted[i]
	}

	return types.IntVal(sum), true
}

// consec(array, k): 1 if some k consecutive elements of array (read as
// booleans) all hold, 0 otherwise.
func consec(arr []types.Value, args []types.Value) (types.Value, bool) {
	if len(args) != 1 {
		return types.Value{}, false
	}

	k := asInt(args[0])

	for i := 0; i < len(arr); i++ {
		var count int64

		for j := i; j < len(arr) && int64(j) < int64(i)+k; j++ {
			if !truthy(arr[j]) {
				break
			}

			count++
		}

		if count == k {
			return types.IntVal(1), true
		}
	}

	return types.IntVal(0), true
}

// broken(array, j): sets array[j]=1 and increments every other nonzero
// element, mutating arr in place; always reduces to 0. Per spec §9 Design
// Notes, this is only permitted on a postcondition right-hand side, never in
// a guard (it would make guard evaluation non-idempotent).
func broken(arr []types.Value, args []types.Value) (types.Value, bool) {
	j, ok := boundedIndex(arr, args)
	if !ok {
		return types.Value{}, false
	}

	arr[j] = sameKind(arr[j], 1)

	for i := range arr {
		if i != j {
			if v := asInt(arr[i]); v != 0 {
				arr[i] = sameKind(arr[i], v+1)
			}
		}
	}

	return types.IntVal(0), true
}

// fstexclude(array, j): first i != j with array[i] truthy, or -1.
func fstexclude(arr []types.Value, args []types.Value) (types.Value, bool) {
	if len(args) != 1 {
		return types.Value{}, false
	}

	j := asInt(args[0])

	for i, v := range arr {
		if int64(i) != j && truthy(v) {
			return types.IntVal(int64(i)), true
		}
	}

	return types.IntVal(-1), true
}

func boundedIndex(arr []types.Value, args []types.Value) (int, bool) {
	if len(arr) == 0 || len(args) != 1 {
		return 0, false
	}

	j := asInt(args[0])
	if j < 0 || int(j) >= len(arr) {
		return 0, false
	}

	return int(j), true
}

func sameKind(like types.Value, i int64) types.Value {
	if like.Kind == types.Bool {
		return types.BoolVal(i != 0)
	}

	return types.IntVal(i)
}
