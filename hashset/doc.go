// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hashset implements an open-addressed, linear-probe hash set for
// a single writer and any number of concurrent wait-free readers (SPMC):
// [Set] is the plain variant, [RobinHood] swaps displaced entries forward
// on insert to bound the maximum probe length and let lookups terminate
// early.
//
// Both variants hold power-of-two capacity, publish newly-occupied slots
// with a release fence so a reader's acquire load always sees a fully
// initialized key, and grow or rebuild by allocating a fresh table,
// rehashing every live key into it, publishing the new table, and
// retiring the old one through a caller-supplied reclamation engine —
// concurrent readers still holding a pointer to the old table finish
// safely against memory that has not yet been reclaimed.
//
// Only Insert, Remove, Grow, and Rebuild may run on a Set/RobinHood at any
// given time (single writer); Lookup is wait-free and may run concurrently
// with all of them and with itself from any number of goroutines.
package hashset
