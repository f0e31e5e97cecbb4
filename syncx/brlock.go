// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

type brShard struct {
	count atomix.Int64
	_     [56]byte
}

// BRLock is a big-reader lock: readers increment a cache-line-padded,
// per-shard counter instead of contending on one shared word, so the
// common read-mostly path never bounces a cache line between cores; a
// writer pays for this by summing every shard to zero before entering.
//
// Callers choose their own shard index per reader (a worker id, a
// hashed goroutine id, anything stable for the duration of the critical
// section) — BRLock does not assign shards itself.
type BRLock struct {
	shards [16]brShard
	writer atomix.Bool
}

// RLock acquires a read lock scoped to shard (reduced modulo the shard
// count).
func (l *BRLock) RLock(shard int) {
	s := &l.shards[uint(shard)%uint(len(l.shards))]
	sw := spin.Wait{}
	for {
		s.count.AddAcqRel(1)
		if !l.writer.LoadAcquire() {
			return
		}
		s.count.AddAcqRel(-1)
		sw.Once()
	}
}

// RUnlock releases a read lock acquired with the same shard index.
func (l *BRLock) RUnlock(shard int) {
	l.shards[uint(shard)%uint(len(l.shards))].count.AddAcqRel(-1)
}

// Lock blocks until the write lock is acquired, which requires every
// shard's reader count to reach zero.
func (l *BRLock) Lock() {
	sw := spin.Wait{}
	for !l.writer.CompareAndSwapAcqRel(false, true) {
		sw.Once()
	}
	for i := range l.shards {
		for l.shards[i].count.LoadAcquire() != 0 {
			sw.Once()
		}
	}
}

// Unlock releases the write lock.
func (l *BRLock) Unlock() {
	l.writer.StoreRelease(false)
}
