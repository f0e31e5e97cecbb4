// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

const byteLockSlots = 256

// ByteLock is a bounded-reader reader/writer lock: each reader claims one
// of a fixed 256 single-byte slots and sets it while reading; a writer
// scans the whole array for any nonzero byte. Unlike [BRLock], a reader
// slot is a single byte rather than a padded counter, so ByteLock is
// cheaper per reader but supports at most 256 distinct concurrent reader
// identities (reusing an identity while its slot is still set by another
// goroutine is a precondition violation).
type ByteLock struct {
	readers [byteLockSlots]atomix.Bool
	writer  atomix.Bool
}

// RLock acquires a read lock under the given reader identity (reduced
// modulo 256).
func (l *ByteLock) RLock(id int) {
	idx := uint(id) % byteLockSlots
	sw := spin.Wait{}
	for {
		l.readers[idx].StoreRelease(true)
		if !l.writer.LoadAcquire() {
			return
		}
		l.readers[idx].StoreRelease(false)
		sw.Once()
	}
}

// RUnlock releases a read lock acquired under the given identity.
func (l *ByteLock) RUnlock(id int) {
	l.readers[uint(id)%byteLockSlots].StoreRelease(false)
}

// Lock blocks until the write lock is acquired, which requires every
// reader slot to read as clear.
func (l *ByteLock) Lock() {
	sw := spin.Wait{}
	for !l.writer.CompareAndSwapAcqRel(false, true) {
		sw.Once()
	}
	for i := range l.readers {
		for l.readers[i].LoadAcquire() {
			sw.Once()
		}
	}
}

// Unlock releases the write lock.
func (l *ByteLock) Unlock() {
	l.writer.StoreRelease(false)
}
