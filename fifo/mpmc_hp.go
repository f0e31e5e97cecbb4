// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"sync"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"github.com/concurrencykit/ck-go/hazard"
)

// hpHeadSlot and hpNextSlot are the two hazard slots MPMCHP needs per
// goroutine: one to pin the node currently believed to be the head, one
// to pin the node it is about to read the value out of.
const (
	hpHeadSlot = 0
	hpNextSlot = 1
)

// NodeHP is the intrusive record [MPMCHP] links its stub and elements
// through. Unlike [Node], next is a plain single-width pointer — ABA is
// prevented by hazard pointers rather than a tag.
type NodeHP[T any] struct {
	next  atomix.Uintptr // *NodeHP[T]
	Value T
}

// MPMCHP is Michael & Scott's lock-free linked FIFO queue using
// hazard-pointer-protected single-width pointers in place of [MPMC]'s
// tagged 128-bit CAS, for platforms where a double-word CAS is
// unavailable (atomix.CASDwordAvailable is false).
type MPMCHP[T any] struct {
	_    pad
	head atomix.Uintptr // *NodeHP[T]
	_    pad
	tail atomix.Uintptr // *NodeHP[T]
	_    pad
	hz   *hazard.Domain

	// live anchors a real, GC-traced *NodeHP[T] for every node currently
	// reachable through head/tail/next — those fields carry only a bit
	// pattern inside an atomix.Uintptr, invisible to the collector. An
	// entry is added the instant a node is handed to Enqueue and removed
	// only once hazard.Record.Retire's reclaim callback fires, i.e. after
	// a Scan has already proven no goroutine's hazard slot still
	// publishes it. Without this table a node enqueued from an ephemeral
	// caller (no surviving Go reference of its own) would be eligible for
	// collection while still linked into the queue.
	live sync.Map // uintptr(unsafe.Pointer(node)) -> *NodeHP[T]
}

// NewMPMCHP returns an empty queue seeded with stub, protected by hz. hz
// must be shared with every other goroutine operating on this queue —
// MPMCHP needs at least 2 hazard slots per participating goroutine.
func NewMPMCHP[T any](hz *hazard.Domain, stub *NodeHP[T]) *MPMCHP[T] {
	stub.next.StoreRelaxed(0)
	p := uintptr(unsafe.Pointer(stub))
	q := &MPMCHP[T]{hz: hz}
	q.live.Store(p, stub)
	q.head.StoreRelaxed(p)
	q.tail.StoreRelaxed(p)
	return q
}

// Enqueue links node onto the tail. rec must be the calling goroutine's
// own hazard.Record, obtained once from the queue's hazard.Domain via
// Domain.Join and reused across calls. node needs no Go reference kept
// alive by the caller after this call returns — the queue itself anchors
// one in live until the node is dequeued and reclaimed.
func (q *MPMCHP[T]) Enqueue(rec *hazard.Record, node *NodeHP[T]) {
	node.next.StoreRelaxed(0)
	q.live.Store(uintptr(unsafe.Pointer(node)), node)
	sw := spin.Wait{}
	for {
		tail := rec.Protect(hpHeadSlot, q.tail.LoadAcquire())
		if tail != q.tail.LoadAcquire() {
			sw.Once()
			continue
		}
		tailNode := (*NodeHP[T])(unsafe.Pointer(tail))
		next := tailNode.next.LoadAcquire()
		if tail != q.tail.LoadAcquire() {
			sw.Once()
			continue
		}
		if next == 0 {
			if tailNode.next.CompareAndSwapAcqRel(0, uintptr(unsafe.Pointer(node))) {
				q.tail.CompareAndSwapAcqRel(tail, uintptr(unsafe.Pointer(node)))
				rec.Clear(hpHeadSlot)
				return
			}
		} else {
			q.tail.CompareAndSwapAcqRel(tail, next)
		}
		sw.Once()
	}
}

// Dequeue removes and returns the oldest enqueued value. rec must be the
// calling goroutine's own hazard.Record. The old head node is retired
// through rec once no hazard slot anywhere still names it, at which point
// its entry in q.live is dropped too; callers never see the node and
// never need to call a separate free/reclaim function themselves.
// Returns (zero, ErrWouldBlock) if the queue is empty.
func (q *MPMCHP[T]) Dequeue(rec *hazard.Record) (T, error) {
	var zero T
	sw := spin.Wait{}
	for {
		head := rec.Protect(hpHeadSlot, q.head.LoadAcquire())
		if head != q.head.LoadAcquire() {
			sw.Once()
			continue
		}
		tail := q.tail.LoadAcquire()
		headNode := (*NodeHP[T])(unsafe.Pointer(head))
		next := rec.Protect(hpNextSlot, headNode.next.LoadAcquire())
		if head != q.head.LoadAcquire() {
			sw.Once()
			continue
		}
		if head == tail {
			if next == 0 {
				rec.Clear(hpHeadSlot)
				rec.Clear(hpNextSlot)
				return zero, ErrWouldBlock
			}
			q.tail.CompareAndSwapAcqRel(tail, next)
			sw.Once()
			continue
		}
		nextNode := (*NodeHP[T])(unsafe.Pointer(next))
		value := nextNode.Value
		if q.head.CompareAndSwapAcqRel(head, next) {
			rec.Clear(hpHeadSlot)
			rec.Clear(hpNextSlot)
			rec.Retire(head, func() { q.live.Delete(head) })
			return value, nil
		}
		sw.Once()
	}
}
