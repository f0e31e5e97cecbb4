// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stack

import (
	"sync"
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"github.com/concurrencykit/ck-go/hazard"
)

// hpStackSlot is the one hazard slot MPMCHP needs per goroutine: pinning
// the node currently believed to be the head while its next link is read.
const hpStackSlot = 0

// NodeHP is the intrusive record [MPMCHP] links nodes through. Unlike
// [Node], next is stored in an atomix.Uintptr rather than a plain
// unsafe.Pointer field: ABA on the head word is prevented by hazard
// pointers rather than by tagging it, and MPMCHP's own live table (not
// node.next) is what keeps a pushed node's Go reference alive.
type NodeHP[T any] struct {
	next  atomix.Uintptr // *NodeHP[T]
	Value T
}

// MPMCHP is a Treiber stack using a single hazard-pointer-protected,
// single-width head pointer in place of [MPMC]'s tagged 128-bit CAS, for
// platforms where a double-word CAS is unavailable
// (atomix.CASDwordAvailable is false).
type MPMCHP[T any] struct {
	_    pad
	head atomix.Uintptr // *NodeHP[T]
	_    pad
	hz   *hazard.Domain

	// live anchors a real, GC-traced *NodeHP[T] for every node currently
	// reachable through head/next, which otherwise carry only a bit
	// pattern inside an atomix.Uintptr invisible to the collector. See
	// fifo.MPMCHP's live field for the identical rationale.
	live sync.Map // uintptr(unsafe.Pointer(node)) -> *NodeHP[T]
}

// NewMPMCHP returns an empty stack protected by hz. hz must be shared
// with every other goroutine operating on this stack — MPMCHP needs at
// least 1 hazard slot per participating goroutine.
func NewMPMCHP[T any](hz *hazard.Domain) *MPMCHP[T] {
	return &MPMCHP[T]{hz: hz}
}

// Push adds node to the top of the stack. node needs no Go reference kept
// alive by the caller after this call returns — the stack itself anchors
// one in live until the node is popped and reclaimed.
func (s *MPMCHP[T]) Push(node *NodeHP[T]) {
	s.live.Store(uintptr(unsafe.Pointer(node)), node)
	sw := spin.Wait{}
	for {
		h := s.head.LoadAcquire()
		node.next.StoreRelaxed(h)
		if s.head.CompareAndSwapAcqRel(h, uintptr(unsafe.Pointer(node))) {
			return
		}
		sw.Once()
	}
}

// PopMPMCHP removes and returns the top value. rec must be the calling
// goroutine's own hazard.Record, obtained once from the stack's
// hazard.Domain via Domain.Join and reused across calls. The popped
// node is retired through rec once no hazard slot anywhere still names
// it; callers never see the node and never call a separate free
// themselves. Returns (zero, ErrWouldBlock) if the stack is empty.
func (s *MPMCHP[T]) PopMPMCHP(rec *hazard.Record) (T, error) {
	var zero T
	sw := spin.Wait{}
	for {
		h := rec.Protect(hpStackSlot, s.head.LoadAcquire())
		if h != s.head.LoadAcquire() {
			sw.Once()
			continue
		}
		if h == 0 {
			rec.Clear(hpStackSlot)
			return zero, ErrWouldBlock
		}
		node := (*NodeHP[T])(unsafe.Pointer(h))
		next := node.next.LoadAcquire()
		if s.head.CompareAndSwapAcqRel(h, next) {
			rec.Clear(hpStackSlot)
			value := node.Value
			rec.Retire(h, func() { s.live.Delete(h) })
			return value, nil
		}
		sw.Once()
	}
}
