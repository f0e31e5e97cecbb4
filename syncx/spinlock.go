// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Spinlock is a test-and-test-and-set mutual exclusion lock. The zero
// value is an unlocked, ready-to-use Spinlock.
type Spinlock struct {
	locked atomix.Bool
}

// Lock blocks until the lock is acquired, spinning with an exponential
// CPU-stall hint rather than yielding to the OS scheduler.
func (l *Spinlock) Lock() {
	sw := spin.Wait{}
	for {
		if !l.locked.LoadAcquire() && l.locked.CompareAndSwapAcqRel(false, true) {
			return
		}
		sw.Once()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *Spinlock) TryLock() bool {
	return !l.locked.LoadAcquire() && l.locked.CompareAndSwapAcqRel(false, true)
}

// Unlock releases the lock. Unlock on an already-unlocked Spinlock is a
// precondition violation; the caller alone is responsible for pairing
// Lock and Unlock.
func (l *Spinlock) Unlock() {
	l.locked.StoreRelease(false)
}
