// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import "code.hybscloud.com/atomix"

// Locker is the minimal interface [Cohort] and [RWCohort] compose their
// node-local lock against; *Spinlock, *TFLock's Lock/Unlock pair wrapped
// in a closure, or any sync.Locker satisfies it.
type Locker interface {
	Lock()
	Unlock()
}

// Cohort composes a node-local lock with a global lock so that a thread
// releasing the lock hands the node-local half to a waiting same-node
// thread without releasing the global half, letting a burst of
// same-node acquisitions cross the (expensive, cross-node) global lock
// only once. This is a single-level simplification of the NUMA-aware
// cohort locks of Dice, Marathe, and Shalev: a full implementation
// additionally avoids starvation across nodes with a release-count
// threshold, which this version does not bound.
type Cohort struct {
	local   Spinlock
	global  Locker
	waiters atomix.Int64
	holding atomix.Bool
}

// NewCohort returns a Cohort composed with the given global lock.
func NewCohort(global Locker) *Cohort {
	return &Cohort{global: global}
}

// Lock blocks until both the node-local and (if not already held from a
// same-node handoff) global lock are acquired.
func (c *Cohort) Lock() {
	c.waiters.AddAcqRel(1)
	c.local.Lock()
	if !c.holding.LoadAcquire() {
		c.global.Lock()
		c.holding.StoreRelease(true)
	}
}

// Unlock releases the node-local lock; the global lock is released only
// once no other node-local waiter is queued behind this one.
func (c *Cohort) Unlock() {
	if c.waiters.AddAcqRel(-1) == 0 {
		c.holding.StoreRelease(false)
		c.global.Unlock()
	}
	c.local.Unlock()
}
