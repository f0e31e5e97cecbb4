// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stack provides Treiber stacks for several producer/consumer
// disciplines, all built on the same intrusive [Node] (or, for [MPMCHP],
// [NodeHP]) link.
//
// Variants are exported, matching the push/pop disciplines a Treiber
// stack supports:
//
//   - [UPMC]: untagged head. Safe for any number of concurrent pushers and
//     poppers *provided* a safe memory reclamation engine (see the epoch
//     and hazard packages) guarantees a popped node is never returned to
//     the allocator — and therefore never reused on the stack — while any
//     other thread might still be dereferencing it. Without such a
//     guarantee, untagged CAS is vulnerable to ABA.
//   - [MPMC]: tagged head (pointer, monotonic counter) via a 128-bit CAS.
//     Safe for any number of concurrent pushers and poppers with no
//     external reclamation guarantee — the tag alone defeats ABA.
//     Requires atomix.CASDwordAvailable.
//   - [MPMCHP]: the same push/pop discipline as MPMC, but with a single
//     hazard-pointer-protected head pointer in place of the tagged CAS,
//     for platforms where a double-word CAS is unavailable. Unlike UPMC,
//     MPMCHP keeps every pushed node reachable through its own internal
//     table (see MPMCHP.live) rather than relying on the caller's
//     reference, so it needs no external reclamation engine either.
//   - [AutoMPMC]: picks MPMC or MPMCHP once, at construction, based on
//     atomix.CASDwordAvailable, and exposes one Push/Pop pair over
//     whichever it picked.
//   - [MPNC]: multiple concurrent pushers, but pops must not run
//     concurrently with any push. Push uses an atomic swap instead of a
//     CAS loop, trading the retry loop for an unconditional single
//     instruction; safe only because nothing concurrently observes a
//     transient state where the new head's next pointer is not yet
//     patched.
//   - [SPNC]: single producer, no concurrent consumer — the degenerate,
//     single-threaded case. No atomics are used; the type exists purely
//     for API parity with the other disciplines.
//
// Ownership: after a successful Push, UPMC/MPMC/MPNC/SPNC own the [Node]
// until the matching pop returns it to the caller. A popped node must be
// retired through a reclamation engine (see package epoch or hazard)
// before reuse if any other thread could still hold a pointer to it —
// freeing it directly is undefined behavior in that case. MPMCHP instead
// retires internally through the hazard.Domain it was constructed with.
//
// Garbage collection: head (and, for [MPMC]/[MPMCHP], the packed tag word
// or hazard-protected pointer) carries a Node's address as a bit pattern
// inside an atomix cell, not as a Go-typed pointer field, so the garbage
// collector does not treat a stack's internal state as a reference
// keeping a pushed Node alive. For UPMC/MPMC/MPNC/SPNC, a caller must keep
// every pushed Node reachable through an ordinary Go reference (the
// variable it pushed from, a slice, a pool) for as long as any goroutine
// could still observe the stack containing it; letting a Node become
// otherwise unreachable the instant Push returns invites the collector to
// reclaim memory the stack's bit pattern still names. MPMCHP is the one
// exception — see MPMCHP's doc comment.
package stack
