// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// PFLock is a phase-fair reader/writer lock: readers queued ahead of a
// writer are served without waiting on it, but once a writer reaches the
// head of the queue no reader or writer behind it is served until it
// finishes, bounding both reader and writer wait to at most one
// intervening phase of the other kind.
//
// Readers share a ticket space with writers; each ticket holder waits
// for its turn, then (for readers) immediately advances the turn so
// later queued readers do not wait on one another, while writers hold
// the turn until every reader that queued ahead of them has drained.
type PFLock struct {
	ticket  atomix.Uint64
	serving atomix.Uint64
	readers atomix.Int64
}

// RLock blocks until a read lock is acquired.
func (l *PFLock) RLock() {
	my := l.ticket.AddAcqRel(1) - 1
	sw := spin.Wait{}
	for l.serving.LoadAcquire() != my {
		sw.Once()
	}
	l.readers.AddAcqRel(1)
	l.serving.StoreRelease(my + 1)
}

// RUnlock releases a read lock.
func (l *PFLock) RUnlock() {
	l.readers.AddAcqRel(-1)
}

// Lock blocks until the write lock is acquired.
func (l *PFLock) Lock() {
	my := l.ticket.AddAcqRel(1) - 1
	sw := spin.Wait{}
	for l.serving.LoadAcquire() != my {
		sw.Once()
	}
	for l.readers.LoadAcquire() != 0 {
		sw.Once()
	}
}

// Unlock releases the write lock, admitting the next queued reader or
// writer.
func (l *PFLock) Unlock() {
	l.serving.AddAcqRel(1)
}
