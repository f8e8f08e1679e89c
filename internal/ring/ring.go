// Package ring implements a fixed-capacity, wait-free single-producer
// single-consumer queue. It is the only component in this module that
// crosses a thread boundary: one connection's reader goroutine produces
// into it, and the single matching goroutine consumes from it.
//
// The design is lifted from a textbook SPSC ring (cache-padded
// push/pop indices, each side caching the other's last-observed index
// to skip an atomic load in the common case) and adapted to Go's atomic
// package, whose Load/Store on an atomic.Uint64 already carry
// sequentially-consistent ordering — strictly stronger than the
// acquire/release pairing the design calls for, so the contract is
// satisfied without needing separate memory-order parameters.
package ring

import "sync/atomic"

// cacheLineSize is the padding unit used to keep the producer's and
// consumer's hot fields off each other's cache line.
const cacheLineSize = 64

// Ring is a bounded SPSC queue of values of type T. The zero value is
// not usable; construct with New. A Ring must not be copied after first
// use — aliasing its buffer would violate the single-producer/
// single-consumer contract the whole design rests on.
type Ring[T any] struct {
	buf      []T
	capacity uint64

	_ [cacheLineSize]byte

	// pushIndex is advanced only by the producer. Readers (the
	// consumer) load it with acquire-equivalent semantics to observe a
	// slot the producer has published.
	pushIndex atomic.Uint64

	_ [cacheLineSize - 8]byte

	// popIndex is advanced only by the consumer. The producer loads it
	// to learn how much space has been freed.
	popIndex atomic.Uint64

	_ [cacheLineSize - 8]byte

	// pushIndexCache is the consumer's private, non-atomic memo of the
	// last push index it observed — it lets TryPop skip the atomic load
	// of pushIndex entirely while the queue still looks non-empty.
	pushIndexCache uint64

	_ [cacheLineSize - 8]byte

	// popIndexCache is the producer's equivalent memo of popIndex.
	popIndexCache uint64

	_ [cacheLineSize - 8]byte
}

// New constructs a Ring with the given fixed capacity. Capacity must be
// greater than zero.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Ring[T]{
		buf:      make([]T, capacity),
		capacity: uint64(capacity),
	}
}

// Capacity returns the fixed capacity the ring was constructed with.
func (r *Ring[T]) Capacity() int { return int(r.capacity) }

// Len returns the current number of queued values. Safe to call from
// either side, but the result may be stale the instant it's returned.
func (r *Ring[T]) Len() int {
	push := r.pushIndex.Load()
	pop := r.popIndex.Load()
	return int(push - pop)
}

// TryPush attempts to enqueue value without blocking. It returns false
// if the ring is full. Must only be called by the single producer.
func (r *Ring[T]) TryPush(value T) bool {
	push := r.pushIndex.Load()
	if r.full(push, r.popIndexCache) {
		r.popIndexCache = r.popIndex.Load()
		if r.full(push, r.popIndexCache) {
			return false
		}
	}

	r.buf[push%r.capacity] = value
	r.pushIndex.Store(push + 1)
	return true
}

// TryPop attempts to dequeue the oldest value without blocking. It
// returns false if the ring is empty. Must only be called by the single
// consumer.
func (r *Ring[T]) TryPop() (T, bool) {
	pop := r.popIndex.Load()
	if r.empty(r.pushIndexCache, pop) {
		r.pushIndexCache = r.pushIndex.Load()
		if r.empty(r.pushIndexCache, pop) {
			var zero T
			return zero, false
		}
	}

	slot := pop % r.capacity
	value := r.buf[slot]
	var zero T
	r.buf[slot] = zero // drop the reference so a popped pointer value isn't kept alive
	r.popIndex.Store(pop + 1)
	return value, true
}

func (r *Ring[T]) empty(push, pop uint64) bool { return push == pop }
func (r *Ring[T]) full(push, pop uint64) bool  { return push-pop == r.capacity }
