// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package syncx implements the lock and barrier family: spinlock,
// reader/writer lock, phase-fair lock, ticket-queued flag lock,
// big-reader lock, byte-per-reader lock, cohort lock, reader/writer
// cohort lock, sense-reversing barrier, sequence lock, and event count.
//
// Every lock here shares the atomic layer's fences (code.hybscloud.com/
// atomix) and spins with code.hybscloud.com/spin's backoff hint the same
// way package ring's CAS retry loops do; none composes CPU transactional
// memory elision, which is deliberately out of scope for this module.
//
// [Spinlock], [RWLock], [PFLock], [BRLock], and [ByteLock] implement
// sync.Locker (Lock/Unlock); the reader/writer variants add
// RLock/RUnlock. [TFLock] does not: its Lock returns a ticket token that
// its Unlock takes. [Cohort] and [RWCohort] compose a NUMA-local lock with a
// global one so that a thread that releases and immediately reacquires a
// lock prefers handing it to a thread on the same node. [Barrier] is a
// sense-reversing execution barrier: a shared arrival counter and sense
// flag, plus a per-thread [LocalSense] slot so a thread looping back for
// the next round never races the previous round's release. [Sequence] is the single-writer, many-reader seqlock from
// spec.md §4.10. [EventCount] integrates OS-level blocking with
// lock-free protocols: waiters spin briefly, then park on an OS wait
// primitive, woken by any producer whose update passed through inc/add.
package syncx
