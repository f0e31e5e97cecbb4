// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Barrier is a sense-reversing execution barrier for a fixed number of
// participants. A shared counter tracks arrivals; the last arrival flips
// a shared sense flag to release every waiter, and each participant
// tracks its own expected sense locally so a thread that loops back to
// Wait for a second round never races the first round's release.
type Barrier struct {
	n     int
	count atomix.Int64
	sense atomix.Bool
}

// NewBarrier returns a Barrier for n participants (n must be >= 1).
func NewBarrier(n int) *Barrier {
	b := &Barrier{n: n}
	b.count.StoreRelease(int64(n))
	return b
}

// LocalSense is a per-participant wait slot; each goroutine that calls
// Wait must use its own LocalSense, zero-valued before the first call.
type LocalSense struct {
	sense bool
}

// Wait blocks until all n participants have called Wait, then releases
// everyone simultaneously.
func (b *Barrier) Wait(ls *LocalSense) {
	mySense := !ls.sense
	ls.sense = mySense
	if b.count.AddAcqRel(-1) == 0 {
		b.count.StoreRelease(int64(b.n))
		b.sense.StoreRelease(mySense)
		return
	}
	sw := spin.Wait{}
	for b.sense.LoadAcquire() != mySense {
		sw.Once()
	}
}
