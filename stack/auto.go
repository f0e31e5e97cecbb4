// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stack

import (
	"sync"

	"code.hybscloud.com/atomix"

	"github.com/concurrencykit/ck-go/hazard"
)

// AutoMPMC is a multi-producer multi-consumer Treiber stack that picks
// its underlying algorithm once, at construction, based on
// atomix.CASDwordAvailable: the tagged 128-bit CAS [MPMC] when a
// double-word CAS is available, or the hazard-pointer-protected [MPMCHP]
// fallback when it is not. MPMC and MPMCHP remain available directly for
// callers that already know which their platform needs.
type AutoMPMC[T any] struct {
	useHP bool
	mpmc  *MPMC[T]
	hp    *MPMCHP[T]
	hz    *hazard.Domain

	live sync.Map // *Node[T] -> struct{}, see fifo.AutoMPMC.live
}

// NewAutoMPMC constructs the stack, selecting MPMC or MPMCHP per
// atomix.CASDwordAvailable.
func NewAutoMPMC[T any]() *AutoMPMC[T] {
	if atomix.CASDwordAvailable {
		return &AutoMPMC[T]{mpmc: &MPMC[T]{}}
	}
	hz := hazard.NewDomain(1)
	return &AutoMPMC[T]{useHP: true, hp: NewMPMCHP[T](hz), hz: hz}
}

// Push adds value to the top of the stack.
func (s *AutoMPMC[T]) Push(value T) {
	if s.useHP {
		s.hp.Push(&NodeHP[T]{Value: value})
		return
	}
	node := &Node[T]{Value: value}
	s.live.Store(node, struct{}{})
	s.mpmc.Push(node)
}

// Pop removes and returns the top value. rec is only consulted on the
// HP path and may be nil when atomix.CASDwordAvailable is true; callers
// that don't know which path they're on can obtain one unconditionally
// from a shared hazard.Domain and pass it regardless — it is ignored on
// the tagged-CAS path.
func (s *AutoMPMC[T]) Pop(rec *hazard.Record) (T, error) {
	if s.useHP {
		return s.hp.PopMPMCHP(rec)
	}
	var zero T
	node, err := s.mpmc.PopMPMC()
	if err != nil {
		return zero, err
	}
	s.live.Delete(node)
	return node.Value, nil
}

// Domain returns the hazard.Domain backing the HP path, or nil when the
// tagged-CAS path was selected. Callers on the HP path Join it once per
// goroutine and reuse the returned Record across Pop calls.
func (s *AutoMPMC[T]) Domain() *hazard.Domain {
	return s.hz
}
