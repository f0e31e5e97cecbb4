// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo

import (
	"sync"

	"code.hybscloud.com/atomix"

	"github.com/concurrencykit/ck-go/hazard"
)

// AutoMPMC is a multi-producer multi-consumer FIFO queue that picks its
// underlying algorithm once, at construction, based on
// atomix.CASDwordAvailable: the tagged 128-bit CAS [MPMC] when a
// double-word CAS is available, or the hazard-pointer-protected [MPMCHP]
// fallback when it is not. This is the automatic dispatch the platform-
// capability flag names — MPMC and MPMCHP themselves are still available
// directly for callers that already know which one their platform needs
// and want to avoid AutoMPMC's extra indirection and per-call
// hazard.Domain.Join/Leave when using the HP path.
type AutoMPMC[T any] struct {
	useHP bool
	mpmc  *MPMC[T]
	hp    *MPMCHP[T]
	hz    *hazard.Domain

	// live mirrors MPMCHP.live for the plain MPMC path: a node handed to
	// Enqueue with no other Go reference is otherwise reachable only
	// through MPMC's untraced atomix.Uint128 head/tail/next words.
	live sync.Map // *Node[T] -> struct{}
}

// NewAutoMPMC constructs the queue, selecting MPMC or MPMCHP per
// atomix.CASDwordAvailable.
func NewAutoMPMC[T any]() *AutoMPMC[T] {
	if atomix.CASDwordAvailable {
		stub := &Node[T]{}
		q := &AutoMPMC[T]{mpmc: NewMPMC[T](stub)}
		q.live.Store(stub, struct{}{})
		return q
	}
	hz := hazard.NewDomain(2)
	return &AutoMPMC[T]{useHP: true, hp: NewMPMCHP[T](hz, &NodeHP[T]{}), hz: hz}
}

// Enqueue adds value to the queue. Safe for any number of concurrent
// Enqueue/Dequeue calls.
func (q *AutoMPMC[T]) Enqueue(value T) {
	if q.useHP {
		rec := q.hz.Join()
		defer rec.Leave()
		q.hp.Enqueue(rec, &NodeHP[T]{Value: value})
		return
	}
	node := &Node[T]{Value: value}
	q.live.Store(node, struct{}{})
	q.mpmc.Enqueue(node)
}

// Dequeue removes and returns the oldest enqueued value. Returns (zero,
// ErrWouldBlock) if the queue is empty.
func (q *AutoMPMC[T]) Dequeue() (T, error) {
	if q.useHP {
		rec := q.hz.Join()
		defer rec.Leave()
		return q.hp.Dequeue(rec)
	}
	value, node, err := q.mpmc.Dequeue()
	if err == nil {
		q.live.Delete(node)
	}
	return value, err
}
