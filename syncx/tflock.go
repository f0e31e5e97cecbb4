// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

type tfSlot struct {
	flag atomix.Bool
	_    [63]byte // pad so adjacent waiters' flags never share a line
}

// TFLock is a ticket-queued flag lock (Anderson's array-based queuing
// lock): each waiter draws a ticket and spins on its own cache-line-
// padded flag rather than a single shared "now serving" word, so a
// release touches only the next waiter's line instead of invalidating
// every spinning core's cache.
//
// The number of slots bounds the number of threads that may be queued on
// the lock at once; a ticket wraps back to slot 0 after len(slots)
// holders, so slots must be at least as large as the expected number of
// concurrently blocked waiters.
type TFLock struct {
	ticket atomix.Uint64
	slots  []tfSlot
}

// NewTFLock returns an unlocked TFLock with room for slots concurrently
// queued waiters (minimum 1).
func NewTFLock(slots int) *TFLock {
	if slots < 1 {
		slots = 1
	}
	l := &TFLock{slots: make([]tfSlot, slots)}
	l.slots[0].flag.StoreRelease(true)
	return l
}

// Lock blocks until this ticket's turn arrives and returns a token that
// must be passed to Unlock.
func (l *TFLock) Lock() uint64 {
	my := l.ticket.AddAcqRel(1) - 1
	idx := my % uint64(len(l.slots))
	sw := spin.Wait{}
	for !l.slots[idx].flag.LoadAcquire() {
		sw.Once()
	}
	return my
}

// Unlock releases the lock held under token (the value Lock returned)
// and admits the next queued ticket holder.
func (l *TFLock) Unlock(token uint64) {
	idx := token % uint64(len(l.slots))
	next := (token + 1) % uint64(len(l.slots))
	l.slots[idx].flag.StoreRelease(false)
	l.slots[next].flag.StoreRelease(true)
}
