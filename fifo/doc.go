// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fifo provides unbounded, intrusive-node linked FIFO queues,
// complementing package ring's bounded array-backed buffers for callers
// that cannot pre-size a queue or that need strict linearizable FIFO
// order beyond what a fixed capacity allows.
//
// Four variants are exported:
//
//   - [SPSC]: a single producer and a single consumer, wait-free, built on
//     an always-present stub node so Enqueue and Dequeue never contend
//     with each other's cache line.
//   - [MPMC]: Michael & Scott's lock-free queue, any number of concurrent
//     producers and consumers, using a tagged (pointer, counter) head and
//     tail via a 128-bit compare-and-swap (requires
//     atomix.CASDwordAvailable). The tag defeats ABA on the head and tail
//     words themselves.
//   - [MPMCHP]: the same algorithm with two hazard-pointer-protected,
//     single-width pointers substituted for the tagged CAS, for platforms
//     where a double-word CAS is unavailable. Dereferencing head or tail
//     goes through [hazard.Record.Protect]'s publish-then-reload pattern.
//   - [AutoMPMC]: picks MPMC or MPMCHP once, at construction, by
//     atomix.CASDwordAvailable, behind one Enqueue(value)/Dequeue()
//     surface.
//
// Dequeue hands the now-unreachable old head node back to the caller
// (SPSC, MPMC) rather than freeing it, mirroring package stack's
// ownership contract: a node returned this way must be retired through a
// reclamation engine before reuse if any other goroutine could still be
// mid-traversal over it. MPMCHP instead retires internally through the
// hazard.Domain it was constructed with, since its algorithm already
// requires one to dereference head and tail safely in the first place.
//
// Garbage collection: as with package stack, a queue's head/tail/tag
// words carry a Node's address as a bit pattern inside an atomix cell,
// not as a Go-typed pointer field, so the collector does not see them as
// references. Callers of SPSC and MPMC must keep enqueued Nodes reachable
// through an ordinary Go reference until the matching Dequeue returns
// them. MPMCHP is the exception among the three: it keeps its own
// Go-traced reference to every linked NodeHP internally (see mpmc_hp.go)
// from Enqueue until the node is retired, so a caller that hands it an
// otherwise-unreferenced NodeHP is safe. AutoMPMC allocates its own nodes
// and keeps them reachable on either path.
package fifo
