// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hazard implements hazard-pointer-based safe memory reclamation:
// a registry of per-goroutine [Record]s, each carrying a fixed number of
// hazard slots a reader publishes a pointer into before dereferencing it,
// and a threshold-triggered [Record.Scan] that reclaims a goroutine's
// retired pointers once no published slot anywhere still names them.
//
// A goroutine joins a [Domain] once via [Domain.Join] and keeps the
// returned [Record] for its lifetime; a [Record] is not safe for
// concurrent use from more than one goroutine. Before dereferencing a
// pointer read from a structure shared with other goroutines, the reader
// publishes it with [Record.Protect], then re-reads the source location:
// if the value changed, the reader must protect the new value and retry
// before trusting the pointer — the "publish-then-reload" double-check
// this package's algorithms all rely on, since a pointer can be retired
// and freed in the window between the reader's first load and its
// publish.
//
// The MPMCHP variants of package fifo and package stack are hazard's
// direct consumers in this module (and so are both packages' AutoMPMC
// when it picks the MPMCHP path): they substitute hazard-protected
// single-width pointers for the tagged 128-bit CAS the matching MPMC
// uses, for platforms where a double-word compare-and-swap is
// unavailable.
package hazard
