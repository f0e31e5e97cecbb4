// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Node is the intrusive record [MPMC] links its stub and elements
// through. next is tagged (counter, pointer) to defeat ABA on the node's
// own link field, the same way MPMC's head and tail are tagged.
type Node[T any] struct {
	next  atomix.Uint128 // lo=tag, hi=*Node[T]
	Value T
}

// MPMC is Michael & Scott's lock-free linked FIFO queue: any number of
// concurrent producers and consumers, tagged (pointer, counter) head and
// tail defeating ABA without requiring a reclamation engine to guarantee
// non-reuse of the atomic words themselves. Requires
// atomix.CASDwordAvailable; see [MPMCHP] for platforms without a
// double-word CAS.
type MPMC[T any] struct {
	_    pad
	head atomix.Uint128 // lo=tag, hi=*Node[T]
	_    pad
	tail atomix.Uint128 // lo=tag, hi=*Node[T]
	_    pad
}

// NewMPMC returns an empty queue seeded with stub.
func NewMPMC[T any](stub *Node[T]) *MPMC[T] {
	stub.next.StoreRelaxed(0, 0)
	p := uint64(uintptr(unsafe.Pointer(stub)))
	q := &MPMC[T]{}
	q.head.StoreRelaxed(0, p)
	q.tail.StoreRelaxed(0, p)
	return q
}

// Enqueue links node onto the tail. Safe for any number of concurrent
// Enqueue/Dequeue calls.
func (q *MPMC[T]) Enqueue(node *Node[T]) {
	node.next.StoreRelaxed(0, 0)
	sw := spin.Wait{}
	for {
		tailTag, tailPtr := q.tail.LoadAcquire()
		tail := (*Node[T])(unsafe.Pointer(uintptr(tailPtr)))
		nextTag, nextPtr := tail.next.LoadAcquire()
		tailTag2, tailPtr2 := q.tail.LoadAcquire()
		if tailTag != tailTag2 || tailPtr != tailPtr2 {
			sw.Once()
			continue
		}
		if nextPtr == 0 {
			if tail.next.CompareAndSwapAcqRel(nextTag, nextPtr, nextTag+1, uint64(uintptr(unsafe.Pointer(node)))) {
				q.tail.CompareAndSwapAcqRel(tailTag, tailPtr, tailTag+1, uint64(uintptr(unsafe.Pointer(node))))
				return
			}
		} else {
			// Tail lagging one behind: help it catch up before retrying.
			q.tail.CompareAndSwapAcqRel(tailTag, tailPtr, tailTag+1, nextPtr)
		}
		sw.Once()
	}
}

// Dequeue removes and returns the oldest enqueued value, along with the
// now-unreachable former head node for the caller to retire through a
// reclamation engine before reuse if any other goroutine could still be
// mid-traversal over it (the tag defeats ABA on the head word itself, but
// not a stale in-flight read of the node's memory by a concurrent
// Dequeue that has not yet reached its own revalidation check). Returns
// (zero, nil, ErrWouldBlock) if the queue is empty.
func (q *MPMC[T]) Dequeue() (T, *Node[T], error) {
	var zero T
	sw := spin.Wait{}
	for {
		headTag, headPtr := q.head.LoadAcquire()
		tailTag, tailPtr := q.tail.LoadAcquire()
		head := (*Node[T])(unsafe.Pointer(uintptr(headPtr)))
		nextTag, nextPtr := head.next.LoadAcquire()
		headTag2, headPtr2 := q.head.LoadAcquire()
		if headTag != headTag2 || headPtr != headPtr2 {
			sw.Once()
			continue
		}
		if headPtr == tailPtr {
			if nextPtr == 0 {
				return zero, nil, ErrWouldBlock
			}
			// Tail lagging: help it catch up, then retry.
			q.tail.CompareAndSwapAcqRel(tailTag, tailPtr, tailTag+1, nextPtr)
			sw.Once()
			continue
		}
		_ = nextTag
		next := (*Node[T])(unsafe.Pointer(uintptr(nextPtr)))
		value := next.Value
		if q.head.CompareAndSwapAcqRel(headTag, headPtr, headTag+1, nextPtr) {
			return value, head, nil
		}
		sw.Once()
	}
}
