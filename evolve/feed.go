package evolve

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// OverflowPolicy decides what a full Feed does with a new snapshot.
type OverflowPolicy string

const (
	// DropOldest discards the oldest queued snapshot to make room.
	DropOldest OverflowPolicy = "drop_oldest"
	// DropNewest discards the snapshot being published.
	DropNewest OverflowPolicy = "drop_newest"
)

// ParseOverflowPolicy maps a config value to a policy. Empty means DropOldest.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(s) {
	case "", DropOldest:
		return DropOldest, nil
	case DropNewest:
		return DropNewest, nil
	}
	return "", fmt.Errorf("%w: invalid overflow policy '%s', must be one of '%s', '%s'",
		ErrInvalidConfig, s, DropOldest, DropNewest)
}

// Snapshot is the immutable per-generation progress record pushed to observers.
type Snapshot[T any] struct {
	Generation        int
	CurrentBestScores []float64
	BestScores        []float64
	Best              T
}

// Feed is a one-way bounded channel from an algorithm to a progress observer.
// Publish never blocks; when the buffer is full the overflow policy applies.
type Feed[T any] struct {
	ch      chan Snapshot[T]
	policy  OverflowPolicy
	mu      sync.Mutex
	closed  bool
	dropped atomic.Uint64
}

// NewFeed creates a feed buffering up to capacity snapshots.
func NewFeed[T any](capacity int, policy OverflowPolicy) *Feed[T] {
	if capacity < 1 {
		capacity = 1
	}
	if policy == "" {
		policy = DropOldest
	}
	return &Feed[T]{
		ch:     make(chan Snapshot[T], capacity),
		policy: policy,
	}
}

// Publish enqueues a snapshot and reports whether it was kept.
func (f *Feed[T]) Publish(s Snapshot[T]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}

	select {
	case f.ch <- s:
		return true
	default:
	}

	if f.policy == DropNewest {
		f.dropped.Add(1)
		return false
	}

	// Make room by discarding the oldest entry. The consumer may have drained
	// the buffer in the meantime, in which case nothing is discarded.
	select {
	case <-f.ch:
		f.dropped.Add(1)
	default:
	}
	select {
	case f.ch <- s:
		return true
	default:
		f.dropped.Add(1)
		return false
	}
}

// Snapshots is the receiving end for the observer.
func (f *Feed[T]) Snapshots() <-chan Snapshot[T] {
	return f.ch
}

// Close ends the stream. Later publishes are ignored.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

// Dropped returns the number of snapshots discarded by the overflow policy.
func (f *Feed[T]) Dropped() uint64 {
	return f.dropped.Load()
}

// Policy returns the overflow policy.
func (f *Feed[T]) Policy() OverflowPolicy {
	return f.policy
}
