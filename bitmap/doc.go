// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bitmap implements a concurrent, word-granularity atomic bitset.
//
// Each word is an independent atomix.Uint64 cell; Set and Clear operate
// on one word via a compare-and-swap retry loop, the same pattern
// package ring uses for its slot-cycle updates, and Test is a single
// acquire load of the word. Iteration walks
// set bits using count-trailing-zeros on a cached copy of the current
// word, masking out the lowest set bit after yielding it so the same bit
// is never produced twice even if the live word changes mid-iteration.
//
// Bulk Union and Intersect apply per-word atomically but are not
// linearizable across the whole bitmap: a concurrent Set/Clear on a word
// not yet visited by the bulk operation is not guaranteed to be reflected
// or excluded as a single atomic step spanning the operation's entire
// range.
package bitmap
