// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stack

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// ErrWouldBlock indicates a pop found the stack empty. Sourced from iox for
// ecosystem consistency with package ring and package fifo.
var ErrWouldBlock = iox.ErrWouldBlock

// Node is the intrusive record linked onto a stack. Callers allocate and
// own a Node until it is pushed; the stack owns the next link from Push
// until the matching pop returns the node to the caller.
type Node[T any] struct {
	next  unsafe.Pointer // *Node[T]; mutated only by the owning stack
	Value T
}

// Next returns the node linked after n by the stack that last pushed it.
// Only meaningful after BatchPop has detached a chain; valid until the
// node is pushed onto any stack again.
func (n *Node[T]) Next() *Node[T] {
	return (*Node[T])(n.next)
}

type pad [64]byte

// UPMC is a Treiber stack with an untagged head.
//
// Safe for concurrent Push and PopUPMC from any number of goroutines only
// when combined with a reclamation engine (epoch or hazard) that defers
// freeing a popped node until no reader can still observe it. Without
// that guarantee, reusing a freed node's address is vulnerable to ABA.
type UPMC[T any] struct {
	_    pad
	head atomix.Uintptr // *Node[T]
	_    pad
}

// Push adds node to the top of the stack.
func (s *UPMC[T]) Push(node *Node[T]) {
	for {
		h := s.head.LoadRelaxed()
		node.next = unsafe.Pointer(h)
		// Release fence before the CAS: a popper's acquire load of head
		// must see this node's fields once it observes the new head.
		if s.head.CompareAndSwapAcqRel(h, uintptr(unsafe.Pointer(node))) {
			return
		}
	}
}

// PopUPMC removes and returns the top node. Returns (nil, ErrWouldBlock)
// if the stack is empty.
//
// Callers must retire the returned node through a reclamation engine
// before freeing it if any other goroutine could still hold a pointer to
// it — see package epoch and package hazard.
func (s *UPMC[T]) PopUPMC() (*Node[T], error) {
	for {
		h := s.head.LoadAcquire()
		if h == 0 {
			return nil, ErrWouldBlock
		}
		node := (*Node[T])(unsafe.Pointer(h))
		next := uintptr(node.next)
		if s.head.CompareAndSwapAcqRel(h, next) {
			return node, nil
		}
	}
}

// BatchPop atomically detaches the entire stack and returns its head. The
// returned chain is linked through Node.next in LIFO (most-recently-pushed
// first) order, exactly as a sequence of PopUPMC calls would have
// returned them.
func (s *UPMC[T]) BatchPop() *Node[T] {
	h := s.head.SwapAcqRel(0)
	return (*Node[T])(unsafe.Pointer(h))
}

// MPMC is a Treiber stack with a tagged (pointer, counter) head, defeating
// ABA without requiring a reclamation engine to guarantee non-reuse.
//
// Safe for concurrent Push and PopMPMC from any number of goroutines.
// Requires a double-word CAS (atomix.CASDwordAvailable); see [MPMCHP]
// for the hazard-pointer fallback used when unavailable.
type MPMC[T any] struct {
	_    pad
	head atomix.Uint128 // lo=tag, hi=*Node[T]
	_    pad
}

// Push adds node to the top of the stack.
func (s *MPMC[T]) Push(node *Node[T]) {
	sw := spin.Wait{}
	for {
		tag, ptr := s.head.LoadAcquire()
		node.next = unsafe.Pointer(uintptr(ptr))
		if s.head.CompareAndSwapAcqRel(tag, ptr, tag+1, uint64(uintptr(unsafe.Pointer(node)))) {
			return
		}
		sw.Once()
	}
}

// PopMPMC removes and returns the top node. Returns (nil, ErrWouldBlock)
// if the stack is empty.
func (s *MPMC[T]) PopMPMC() (*Node[T], error) {
	sw := spin.Wait{}
	for {
		tag, ptr := s.head.LoadAcquire()
		if ptr == 0 {
			return nil, ErrWouldBlock
		}
		node := (*Node[T])(unsafe.Pointer(uintptr(ptr)))
		next := uint64(uintptr(node.next))
		if s.head.CompareAndSwapAcqRel(tag, ptr, tag+1, next) {
			return node, nil
		}
		sw.Once()
	}
}

// BatchPop atomically detaches the entire stack and returns its head,
// discarding the tag. The returned chain is linked in LIFO order.
func (s *MPMC[T]) BatchPop() *Node[T] {
	sw := spin.Wait{}
	for {
		tag, ptr := s.head.LoadAcquire()
		if s.head.CompareAndSwapAcqRel(tag, ptr, tag+1, 0) {
			return (*Node[T])(unsafe.Pointer(uintptr(ptr)))
		}
		sw.Once()
	}
}

// MPNC is a Treiber stack safe for multiple concurrent pushers, provided
// no pop runs concurrently with any push. Push uses an unconditional
// atomic swap instead of a CAS retry loop.
type MPNC[T any] struct {
	_    pad
	head atomix.Uintptr // *Node[T]
	_    pad
}

// PushMPNC adds node to the top of the stack. Safe with concurrent
// PushMPNC calls from other goroutines; undefined if any Pop or BatchPop
// on this stack runs concurrently with it.
func (s *MPNC[T]) PushMPNC(node *Node[T]) {
	old := s.head.SwapAcqRel(uintptr(unsafe.Pointer(node)))
	node.next = unsafe.Pointer(old)
}

// Pop removes and returns the top node. Must not be called concurrently
// with PushMPNC or with another Pop/BatchPop on the same stack. Returns
// (nil, ErrWouldBlock) if the stack is empty.
func (s *MPNC[T]) Pop() (*Node[T], error) {
	h := s.head.LoadRelaxed()
	if h == 0 {
		return nil, ErrWouldBlock
	}
	node := (*Node[T])(unsafe.Pointer(h))
	s.head.StoreRelaxed(uintptr(node.next))
	return node, nil
}

// BatchPop atomically detaches the entire stack and returns its head.
// Must not be called concurrently with PushMPNC or Pop: a push that has
// swapped the head but not yet linked node.next would leave the returned
// chain cut short.
func (s *MPNC[T]) BatchPop() *Node[T] {
	h := s.head.SwapAcqRel(0)
	return (*Node[T])(unsafe.Pointer(h))
}

// SPNC is a single-producer, no-concurrent-consumer stack: exactly one
// goroutine pushes, and no pop ever runs while a push might be in
// progress. No atomics are used; this is the degenerate, single-threaded
// case provided for API parity with the concurrent disciplines.
type SPNC[T any] struct {
	head *Node[T]
}

// Push adds node to the top of the stack.
func (s *SPNC[T]) Push(node *Node[T]) {
	node.next = unsafe.Pointer(s.head)
	s.head = node
}

// Pop removes and returns the top node. Returns (nil, ErrWouldBlock) if
// the stack is empty.
func (s *SPNC[T]) Pop() (*Node[T], error) {
	if s.head == nil {
		return nil, ErrWouldBlock
	}
	node := s.head
	s.head = (*Node[T])(node.next)
	return node, nil
}
