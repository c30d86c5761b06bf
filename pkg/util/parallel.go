package util

import "golang.org/x/sync/errgroup"

// ParBatchJob is an atomic unit of work that may depend on other units
// finishing first. All jobs named by Jobs() become available together once
// Run completes; Dependencies() names the jobs that must already be done
// before this batch is eligible to run.
type ParBatchJob interface {
	// Jobs returns the job identifiers this batch satisfies once it runs.
	Jobs() []uint
	// Dependencies returns the job identifiers that must already be done
	// before this batch can run.
	Dependencies() []uint
	// Run executes this batch.
	Run() error
}

// ParExec runs worklist to completion. Within each round every batch whose
// dependencies are already satisfied runs concurrently via errgroup; the
// next round only starts once the whole current one finishes, since a
// dependency on a job started in the same round would otherwise be
// unobservable. ParExec returns the first error any batch reports, after
// letting the rest of that round finish.
func ParExec[J ParBatchJob](worklist []J) error {
	todo := initToDoList(worklist)
	remaining := worklist

	for len(remaining) > 0 {
		ready, rest := partitionReady(todo, remaining)
		if len(ready) == 0 {
			panic("no job is ready to run")
		}

		var g errgroup.Group
		for _, b := range ready {
			g.Go(b.Run)
		}

		if err := g.Wait(); err != nil {
			return err
		}

		for _, b := range ready {
			for _, j := range b.Jobs() {
				todo[j] = false
			}
		}

		remaining = rest
	}

	return nil
}

// initToDoList builds the set of job identifiers that remain to be
// completed; identifiers never named by any batch's Jobs() are assumed
// already done.
func initToDoList[J ParBatchJob](batches []J) []bool {
	n := uint(0)
	for _, b := range batches {
		for _, j := range b.Jobs() {
			n = max(n, j+1)
		}
	}

	todo := make([]bool, n)
	for _, b := range batches {
		for _, j := range b.Jobs() {
			todo[j] = true
		}
	}

	return todo
}

// partitionReady splits worklist into the batches whose dependencies are
// all satisfied against todo, and the rest.
func partitionReady[J ParBatchJob](todo []bool, worklist []J) (ready, rest []J) {
	for _, b := range worklist {
		if readyJob(todo, b) {
			ready = append(ready, b)
		} else {
			rest = append(rest, b)
		}
	}

	return ready, rest
}

// readyJob reports whether every dependency of batch is already done.
func readyJob[J ParBatchJob](todo []bool, batch J) bool {
	for _, j := range batch.Dependencies() {
		if j < uint(len(todo)) && todo[j] {
			return false
		}
	}

	return true
}

// ParMap applies fn to every item concurrently and returns the results in
// input order, or the first error any call returns (after the rest of the
// in-flight calls finish).
func ParMap[T, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	results := make([]R, len(items))

	var g errgroup.Group

	for i, item := range items {
		g.Go(func() error {
			r, err := fn(item)
			if err != nil {
				return err
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
