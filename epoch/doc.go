// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package epoch implements epoch-based reclamation (EBR): a global epoch
// counter advanced by consensus of an intrusive list of per-goroutine
// [Record]s, plus per-record buckets of callbacks deferred until no
// [Record] could still be observing the epoch they were retired in.
//
// A goroutine that will dereference pointers shared with other goroutines
// joins a [Domain] once, via [Domain.Join], keeping the returned [Record]
// for the goroutine's lifetime (a [Record] is not safe for concurrent use
// by more than one goroutine). Around every read of a shared pointer it
// calls [Record.Begin] / [Record.End]; [Record.Begin]/[Record.End] pairs
// nest, so helper functions may call them freely without the caller
// tracking whether it is already inside a critical section.
//
// When a pointer is unlinked from a shared structure and may still be
// visible to a concurrent reader's critical section, the unlinking
// goroutine calls [Record.Retire] with a callback that frees it. The
// callback does not run until [Record.Poll] (called periodically by any
// participating goroutine) has established that every [Record] has either
// left its critical section or observed an epoch at least two generations
// newer than the one active when the callback was retired.
//
// [Record.Retire]'s single-argument signature is exactly
// hashset.Reclaimer, so a *Record can be passed wherever [hashset.NewSet]
// or [hashset.NewRobinHood] wants one — hazard.Record cannot, since its
// Retire takes an extra mandatory pointer argument. No other package in
// this module takes a *Record directly: the MPMCHP variants of package
// stack and fifo take a *hazard.Record instead.
package epoch
