// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

const eventCountSpins = 64

// EventCount integrates OS-level blocking with a lock-free protocol: a
// producer's inc/add is a plain atomic fetch-add, cheap on the common
// uncontended path, but a waiter that has been spinning long enough
// parks on a Go channel (this module's equivalent of the external
// wait_on/wake primitive spec.md's platform contract describes) until
// woken by the next inc/add.
//
// The low bit of the counter word doubles as the "someone is parked"
// flag, set only once a waiter has given up spinning and is about to
// park, so the fast inc/add path only pays for a wake when one is
// actually owed.
type EventCount struct {
	word atomix.Uint64 // bit0: waiter parked; bits>>1: counter value

	mu   sync.Mutex
	wake chan struct{}
}

// NewEventCount returns an EventCount initialized to v.
func NewEventCount(v uint64) *EventCount {
	ec := &EventCount{wake: make(chan struct{})}
	ec.word.StoreRelease(v << 1)
	return ec
}

// Value returns the current counter value.
func (e *EventCount) Value() uint64 {
	return e.word.LoadAcquire() >> 1
}

// Add adds delta to the counter and wakes any parked waiters.
func (e *EventCount) Add(delta uint64) {
	old := e.word.AddAcqRel(delta << 1)
	if uint64(old)&1 != 0 {
		// Clear the parked flag before waking: every woken waiter sets it
		// again and re-checks the value before it parks once more.
		for v := old; v&1 != 0 && !e.word.CompareAndSwapAcqRel(v, v&^1); {
			v = e.word.LoadAcquire()
		}
		e.notify()
	}
}

func (e *EventCount) notify() {
	e.mu.Lock()
	close(e.wake)
	e.wake = make(chan struct{})
	e.mu.Unlock()
}

func (e *EventCount) setParkedFlag() {
	sw := spin.Wait{}
	for {
		v := e.word.LoadAcquire()
		if v&1 != 0 {
			return
		}
		if e.word.CompareAndSwapAcqRel(v, v|1) {
			return
		}
		sw.Once()
	}
}

// Wait blocks until Value() differs from old or deadline passes (the
// zero Time means no deadline), returning the observed value and whether
// it had changed.
func (e *EventCount) Wait(old uint64, deadline time.Time) (uint64, bool) {
	return e.WaitPred(old, deadline, nil)
}

// WaitPred is like Wait, but if pred is non-nil it is consulted after
// every spin iteration and every wake, short-circuiting the wait the
// moment it reports true.
func (e *EventCount) WaitPred(old uint64, deadline time.Time, pred func(v uint64) bool) (uint64, bool) {
	if v := e.Value(); v != old || (pred != nil && pred(v)) {
		return v, true
	}

	bo := iox.Backoff{}
	for i := 0; i < eventCountSpins; i++ {
		bo.Wait()
		if v := e.Value(); v != old || (pred != nil && pred(v)) {
			return v, true
		}
	}

	for {
		e.mu.Lock()
		ch := e.wake
		e.mu.Unlock()
		e.setParkedFlag()
		// Re-check after publishing the parked flag and before blocking,
		// closing the race where Add ran between the last spin check and
		// the flag being set.
		if v := e.Value(); v != old || (pred != nil && pred(v)) {
			return v, true
		}

		if deadline.IsZero() {
			<-ch
			continue
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return e.Value(), false
		}
		timer := time.NewTimer(remaining)
		select {
		case <-ch:
			timer.Stop()
		case <-timer.C:
			return e.Value(), false
		}
	}
}
