// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import "code.hybscloud.com/atomix"

// RWCohort is a NUMA-aware reader/writer lock: reads stay entirely
// node-local (they never touch the global lock), while writers use the
// same local/global handoff as [Cohort] so a burst of same-node writers
// crosses the global lock only once.
type RWCohort struct {
	local   RWLock
	global  Locker
	waiters atomix.Int64
	holding atomix.Bool
}

// NewRWCohort returns an RWCohort composed with the given global lock for
// writer arbitration across nodes.
func NewRWCohort(global Locker) *RWCohort {
	return &RWCohort{global: global}
}

// RLock acquires a node-local read lock; it never touches the global
// lock and so never blocks on a writer on another node.
func (c *RWCohort) RLock() {
	c.local.RLock()
}

// RUnlock releases a node-local read lock.
func (c *RWCohort) RUnlock() {
	c.local.RUnlock()
}

// Lock blocks until both the node-local write lock and (if not already
// held from a same-node handoff) the global lock are acquired.
func (c *RWCohort) Lock() {
	c.waiters.AddAcqRel(1)
	c.local.Lock()
	if !c.holding.LoadAcquire() {
		c.global.Lock()
		c.holding.StoreRelease(true)
	}
}

// Unlock releases the node-local write lock; the global lock is released
// only once no other node-local writer is queued behind this one.
func (c *RWCohort) Unlock() {
	if c.waiters.AddAcqRel(-1) == 0 {
		c.holding.StoreRelease(false)
		c.global.Unlock()
	}
	c.local.Unlock()
}
