// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPSC is an FAA-based multi-producer single-consumer bounded queue.
//
// Producers use FAA to blindly claim positions (SCQ-style), requiring 2n
// physical slots for capacity n.
//
// Memory: 2n slots for capacity n (16+ bytes per slot)
type MPSC[T any] struct {
	_        pad
	head     atomix.Uint64 // Consumer index (single consumer writes, but producers read)
	_        pad
	tail     atomix.Uint64 // Producer index (FAA)
	_        pad
	draining atomix.Bool // Drain mode: no more enqueues
	_        pad
	buffer   []mpscSlot[T]
	capacity uint64 // n (usable capacity)
	size     uint64 // 2n (physical slots)
	mask     uint64 // 2n - 1
}

type mpscSlot[T any] struct {
	cycle atomix.Uint64 // Round number
	data  T
	_     padShort
}

// NewMPSC creates a new FAA-based MPSC queue.
// Capacity rounds up to the next power of 2.
func NewMPSC[T any](capacity int) *MPSC[T] {
	if capacity < 2 {
		panic("ring: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	size := n * 2

	q := &MPSC[T]{
		buffer:   make([]mpscSlot[T], size),
		capacity: n,
		size:     size,
		mask:     size - 1,
	}

	for i := uint64(0); i < size; i++ {
		q.buffer[i].cycle.StoreRelaxed(i / n)
	}

	return q
}

// Drain signals that no more enqueues will occur.
// This is a hint for graceful shutdown — the caller ensures no further
// enqueues will be attempted after calling Drain.
func (q *MPSC[T]) Drain() {
	q.draining.StoreRelease(true)
}

// Enqueue adds an element to the queue (multiple producers safe).
// Returns ErrWouldBlock if the queue is full.
func (q *MPSC[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadRelaxed()
		if tail >= head+q.capacity {
			return ErrWouldBlock
		}

		myTail := q.tail.AddAcqRel(1) - 1

		slot := &q.buffer[myTail&q.mask]
		expectedCycle := myTail / q.capacity

		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			slot.data = *elem
			slot.cycle.StoreRelease(expectedCycle + 1)
			return nil
		}

		if int64(slotCycle) < int64(expectedCycle) {
			return ErrWouldBlock // Queue full
		}
		sw.Once()
	}
}

// MPSCReservation is a slot claimed by Reserve but not yet published by
// Commit. The caller writes through Data and must call Commit exactly
// once to make the write visible to the consumer.
type MPSCReservation[T any] struct {
	slot  *mpscSlot[T]
	cycle uint64
}

// Data returns a pointer to the reserved slot's storage for in-place
// writes, avoiding the extra copy Enqueue performs from elem.
func (r *MPSCReservation[T]) Data() *T {
	return &r.slot.data
}

// Reserve claims a slot without publishing it (multiple producers
// safe), splitting Enqueue's FAA reservation step from its cycle-store
// commit step. Returns ErrWouldBlock if the queue is full.
func (q *MPSC[T]) Reserve() (*MPSCReservation[T], error) {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadRelaxed()
		if tail >= head+q.capacity {
			return nil, ErrWouldBlock
		}

		myTail := q.tail.AddAcqRel(1) - 1

		slot := &q.buffer[myTail&q.mask]
		expectedCycle := myTail / q.capacity

		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			return &MPSCReservation[T]{slot: slot, cycle: expectedCycle}, nil
		}

		if int64(slotCycle) < int64(expectedCycle) {
			return nil, ErrWouldBlock
		}
		sw.Once()
	}
}

// Commit publishes a slot reserved by Reserve, making it visible to
// Dequeue. The reservation must not be used again after Commit returns.
func (q *MPSC[T]) Commit(r *MPSCReservation[T]) {
	r.slot.cycle.StoreRelease(r.cycle + 1)
}

// Valid reports whether the queue's producer/consumer indices satisfy
// the ring invariant c_head ≤ p_head ∧ (p_head − c_head) ≤ capacity.
// Intended for persistent-storage consumers checking recovered state
// before resuming operation.
func (q *MPSC[T]) Valid() bool {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadAcquire()
	return head <= tail && tail-head <= q.capacity
}

// Repair is a no-op. MPSC has no livelock-prevention threshold to
// reset: a slot reserved but never committed keeps its pre-reservation
// cycle value, and the single consumer's Dequeue treats that as
// not-yet-produced (ErrWouldBlock) rather than blocking forever. The
// consumer does not move past that slot, so items committed after it
// stay unreachable; Repair does not change this. Repair is provided for
// interface symmetry with MPMC and SPMC and to give callers an explicit
// recovery step to call after reloading persisted head/tail state.
func (q *MPSC[T]) Repair() {}

// Dequeue removes and returns an element (single consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPSC[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	cycle := head / q.capacity
	slot := &q.buffer[head&q.mask]

	slotCycle := slot.cycle.LoadAcquire()

	if slotCycle != cycle+1 {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := slot.data
	var zero T
	slot.data = zero
	nextEnqCycle := (head + q.size) / q.capacity
	slot.cycle.StoreRelease(nextEnqCycle)
	q.head.StoreRelaxed(head + 1)

	return elem, nil
}

// Cap returns the queue capacity.
func (q *MPSC[T]) Cap() int {
	return int(q.capacity)
}
