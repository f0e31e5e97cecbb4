// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bitmap

import (
	"math/bits"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

const wordBits = 64

// Bitmap is a fixed-size, concurrent bitset addressed at word
// granularity. The zero value is not usable; construct with [New].
type Bitmap struct {
	words []atomix.Uint64
	n     int
}

// New returns a Bitmap with room for at least n bits, all initially
// clear.
func New(n int) *Bitmap {
	if n < 0 {
		n = 0
	}
	return &Bitmap{words: make([]atomix.Uint64, (n+wordBits-1)/wordBits), n: n}
}

// Len returns the number of addressable bits.
func (b *Bitmap) Len() int {
	return b.n
}

func (b *Bitmap) locate(i int) (word int, mask uint64) {
	return i / wordBits, uint64(1) << uint(i%wordBits)
}

// Set atomically sets bit i and reports its previous value.
func (b *Bitmap) Set(i int) bool {
	word, mask := b.locate(i)
	w := &b.words[word]
	sw := spin.Wait{}
	for {
		old := w.LoadAcquire()
		if old&mask != 0 {
			return true
		}
		if w.CompareAndSwapAcqRel(old, old|mask) {
			return false
		}
		sw.Once()
	}
}

// Clear atomically clears bit i and reports its previous value.
func (b *Bitmap) Clear(i int) bool {
	word, mask := b.locate(i)
	w := &b.words[word]
	sw := spin.Wait{}
	for {
		old := w.LoadAcquire()
		if old&mask == 0 {
			return false
		}
		if w.CompareAndSwapAcqRel(old, old&^mask) {
			return true
		}
		sw.Once()
	}
}

// Test reports whether bit i is set.
func (b *Bitmap) Test(i int) bool {
	word, mask := b.locate(i)
	return b.words[word].LoadAcquire()&mask != 0
}

// Iterate calls fn for every set bit in ascending order, stopping early
// if fn returns false. Iterate takes a snapshot of each word as it visits
// it; bits set or cleared concurrently in a word not yet visited may or
// may not be observed, matching the bulk-operation non-linearizability
// this package documents.
func (b *Bitmap) Iterate(fn func(i int) bool) {
	for wi := range b.words {
		word := b.words[wi].LoadAcquire()
		base := wi * wordBits
		for word != 0 {
			lsb := bits.TrailingZeros64(word)
			if !fn(base + lsb) {
				return
			}
			word &= word - 1 // clear the lowest set bit after yielding it
		}
	}
}

// Union ORs other into b in place, word by word. Each word's update is
// atomic; the operation as a whole is not linearizable. b and other must
// have the same Len.
func (b *Bitmap) Union(other *Bitmap) {
	for i := range b.words {
		w := &b.words[i]
		add := other.words[i].LoadAcquire()
		if add == 0 {
			continue
		}
		sw := spin.Wait{}
		for {
			old := w.LoadAcquire()
			if old&add == add {
				break
			}
			if w.CompareAndSwapAcqRel(old, old|add) {
				break
			}
			sw.Once()
		}
	}
}

// Intersect ANDs other into b in place, word by word. Each word's update
// is atomic; the operation as a whole is not linearizable. b and other
// must have the same Len.
func (b *Bitmap) Intersect(other *Bitmap) {
	for i := range b.words {
		w := &b.words[i]
		keep := other.words[i].LoadAcquire()
		sw := spin.Wait{}
		for {
			old := w.LoadAcquire()
			next := old & keep
			if next == old {
				break
			}
			if w.CompareAndSwapAcqRel(old, next) {
				break
			}
			sw.Once()
		}
	}
}
