package runtime

import (
	"fmt"
	"sync"
)

// Traial is one simulation trajectory's mutable state: the shared-network
// value assignment plus the importance-splitting bookkeeping a simulation
// engine attaches to it. The concrete meaning of Importance/Depth is owned
// by whichever engine is running (spec Non-goals: engine internals are out
// of scope); the pool only guarantees the State itself is a fresh,
// independent copy.
type Traial struct {
	State      *State
	Importance int
	Depth      int
}

// TraialPool hands out and reclaims a fixed number of Traial objects so an
// estimation run's peak memory is bounded by its configured pool size
// rather than by how many trajectories an engine happens to spawn (spec
// §3.4, testable property #9: "the number of traials in circulation plus
// the number available never exceeds the pool's configured capacity").
//
// A sync.Mutex guards the free list directly: sync.Pool's contents can be
// dropped by the garbage collector between Get calls, which would silently
// violate the conservation invariant this type exists to uphold.
type TraialPool struct {
	mu       sync.Mutex
	template *State
	free     []*Traial
	capacity int
	inUse    int
}

// NewTraialPool preallocates capacity Traials, each an independent clone of
// template's zero/initial state.
func NewTraialPool(template *State, capacity int) *TraialPool {
	p := &TraialPool{template: template, capacity: capacity}

	for i := 0; i < capacity; i++ {
		p.free = append(p.free, &Traial{State: template.Clone()})
	}

	return p
}

// ErrPoolExhausted is returned by Get when every Traial is already checked
// out.
var ErrPoolExhausted = fmt.Errorf("runtime: traial pool exhausted")

// Get checks out one Traial, resetting it to the pool's template state.
func (p *TraialPool) Get() (*Traial, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return nil, ErrPoolExhausted
	}

	n := len(p.free) - 1
	t := p.free[n]
	p.free = p.free[:n]
	p.inUse++

	t.State = p.template.Clone()
	t.Importance = 0
	t.Depth = 0

	return t, nil
}

// GetCopies checks out n independent Traials, each seeded from src's
// current state rather than the pool's template — used when an engine
// splits one trajectory into several at an importance threshold.
func (p *TraialPool) GetCopies(src *Traial, n int) ([]*Traial, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) < n {
		return nil, ErrPoolExhausted
	}

	out := make([]*Traial, n)

	for i := 0; i < n; i++ {
		last := len(p.free) - 1
		t := p.free[last]
		p.free = p.free[:last]
		p.inUse++

		t.State = src.State.Clone()
		t.Importance = src.Importance
		t.Depth = src.Depth
		out[i] = t
	}

	return out, nil
}

// Return reclaims a Traial, making it available to a future Get/GetCopies.
func (p *TraialPool) Return(t *Traial) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.free = append(p.free, t)
	p.inUse--
}

// ReturnAll reclaims every Traial in ts in one call.
func (p *TraialPool) ReturnAll(ts []*Traial) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.free = append(p.free, ts...)
	p.inUse -= len(ts)
}

// Capacity returns the pool's fixed total size.
func (p *TraialPool) Capacity() int { return p.capacity }

// InUse returns how many Traials are currently checked out; InUse()+len(free)
// always equals Capacity().
func (p *TraialPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.inUse
}
