package util

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBatch struct {
	jobs, deps []uint
	order      *[]uint
	id         uint
	fail       bool
}

func (b fakeBatch) Jobs() []uint         { return b.jobs }
func (b fakeBatch) Dependencies() []uint { return b.deps }

func (b fakeBatch) Run() error {
	if b.order != nil {
		*b.order = append(*b.order, b.id)
	}

	if b.fail {
		return fmt.Errorf("boom")
	}

	return nil
}

func TestParExecRunsDependentBatchesInOrder(t *testing.T) {
	var order []uint

	// b2 depends on b1's job 0, so ParExec must run b1's round to
	// completion before b2 becomes ready, even though both are handed to
	// it in the same worklist.
	b1 := fakeBatch{jobs: []uint{0}, order: &order, id: 0}
	b2 := fakeBatch{jobs: []uint{1}, deps: []uint{0}, order: &order, id: 1}

	err := ParExec([]ParBatchJob{b1, b2})
	assert.NoError(t, err)
	assert.Equal(t, []uint{0, 1}, order)
}

func TestParExecReturnsFirstError(t *testing.T) {
	b1 := fakeBatch{jobs: []uint{0}, fail: true}

	err := ParExec([]ParBatchJob{b1})
	assert.Error(t, err)
}

func TestParExecPanicsWhenNothingIsReady(t *testing.T) {
	// b1 and b2 each wait on the other's job, so neither can ever run.
	b1 := fakeBatch{jobs: []uint{0}, deps: []uint{1}}
	b2 := fakeBatch{jobs: []uint{1}, deps: []uint{0}}

	assert.Panics(t, func() {
		_ = ParExec([]ParBatchJob{b1, b2})
	})
}

func TestParMapAppliesFnToEveryItem(t *testing.T) {
	results, err := ParMap([]int{1, 2, 3}, func(v int) (int, error) {
		return v * v, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9}, results)
}

func TestParMapReturnsErrorFromAnyCall(t *testing.T) {
	_, err := ParMap([]int{1, 2, 3}, func(v int) (int, error) {
		if v == 2 {
			return 0, fmt.Errorf("bad value")
		}

		return v, nil
	})

	assert.Error(t, err)
}
