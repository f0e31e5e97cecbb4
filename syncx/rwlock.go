// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RWLock is a reader/writer lock backed by a single signed counter: zero
// means unlocked, a positive value is the number of active readers, -1
// means a writer holds the lock. It favors simplicity over fairness; see
// [PFLock] for a phase-fair alternative that bounds writer starvation.
type RWLock struct {
	state atomix.Int64
}

// RLock blocks until a read lock is acquired.
func (l *RWLock) RLock() {
	sw := spin.Wait{}
	for {
		s := l.state.LoadAcquire()
		if s >= 0 && l.state.CompareAndSwapAcqRel(s, s+1) {
			return
		}
		sw.Once()
	}
}

// RUnlock releases a read lock.
func (l *RWLock) RUnlock() {
	l.state.AddAcqRel(-1)
}

// Lock blocks until the write lock is acquired; no readers or writers
// may hold the lock concurrently.
func (l *RWLock) Lock() {
	sw := spin.Wait{}
	for !l.state.CompareAndSwapAcqRel(0, -1) {
		sw.Once()
	}
}

// Unlock releases the write lock.
func (l *RWLock) Unlock() {
	l.state.StoreRelease(0)
}
