// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates Dequeue found the queue empty. Sourced from iox
// for ecosystem consistency with package ring and package stack.
var ErrWouldBlock = iox.ErrWouldBlock

// SPSCNode is the intrusive record a [SPSC] queue links its stub and
// elements through.
type SPSCNode[T any] struct {
	next  atomix.Uintptr // *SPSCNode[T]
	Value T
}

type pad [64]byte

// SPSC is a single-producer, single-consumer, wait-free linked FIFO queue.
// Enqueue and Dequeue never spin or retry: each runs in a bounded number
// of steps regardless of what the other side is doing.
type SPSC[T any] struct {
	_    pad
	head atomix.Uintptr // *SPSCNode[T]; consumer-owned
	_    pad
	tail atomix.Uintptr // *SPSCNode[T]; producer-owned
	_    pad
}

// NewSPSC returns an empty queue, seeded with a stub node so head and
// tail are never nil.
func NewSPSC[T any]() *SPSC[T] {
	stub := &SPSCNode[T]{}
	p := uintptr(unsafe.Pointer(stub))
	q := &SPSC[T]{}
	q.head.StoreRelaxed(p)
	q.tail.StoreRelaxed(p)
	return q
}

// Enqueue links node onto the tail. Must only be called by the single
// producer goroutine. Never blocks and never fails.
func (q *SPSC[T]) Enqueue(node *SPSCNode[T]) {
	node.next.StoreRelaxed(0)
	tail := (*SPSCNode[T])(unsafe.Pointer(q.tail.LoadRelaxed()))
	// Release fence: the consumer's acquire load of this link must see
	// node's fields once it observes the new next pointer.
	tail.next.StoreRelease(uintptr(unsafe.Pointer(node)))
	q.tail.StoreRelaxed(uintptr(unsafe.Pointer(node)))
}

// Dequeue removes and returns the oldest enqueued value, along with the
// now-unreachable stub node for the caller to retire through a
// reclamation engine if any other goroutine could still be dereferencing
// it (not a concern for pure SPSC use — head is only ever read by this
// same consumer goroutine — but the returned node still must not be
// reused until Go's own garbage collector would otherwise have reclaimed
// it, since something else may transiently still hold an alias). Returns
// (zero, nil, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, *SPSCNode[T], error) {
	var zero T
	head := (*SPSCNode[T])(unsafe.Pointer(q.head.LoadRelaxed()))
	next := head.next.LoadAcquire()
	if next == 0 {
		return zero, nil, ErrWouldBlock
	}
	nextNode := (*SPSCNode[T])(unsafe.Pointer(next))
	value := nextNode.Value
	q.head.StoreRelaxed(next)
	return value, head, nil
}
