// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package epoch

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// buckets is the number of epoch-indexed retired-callback lists a Record
// keeps. Four gives two generations of headroom past the two generations
// required for safety, so a slow poller never forces a bucket to be
// reused before it has been drained.
const buckets = 4

// Domain owns the global epoch counter and the registry of participating
// Records. The zero value is ready to use.
type Domain struct {
	epoch atomix.Uint64

	mu      sync.Mutex
	records []*Record
}

// NewDomain returns a ready Domain. Using a zero-value Domain{} directly
// works identically; NewDomain exists for symmetry with the rest of this
// module's constructors.
func NewDomain() *Domain {
	return &Domain{}
}

// Record is a goroutine's registration in a Domain: its nesting depth, the
// epoch it last observed on entering a critical section, and its own
// retired-callback buckets. A Record is owned exclusively by the goroutine
// that joined it and must never be shared across goroutines; other
// goroutines only ever read its active/observed fields, during Poll's scan.
type Record struct {
	dom      *Domain
	used     atomix.Bool
	active   atomix.Int64
	observed atomix.Uint64

	lastDrained uint64
	retired     [buckets][]func()
}

// Join registers the calling goroutine with d and returns its Record,
// reusing a previously-Leave'd Record when one is free. The returned
// Record must be used only by the calling goroutine and released with
// Leave once the goroutine is done participating.
func (d *Domain) Join() *Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.records {
		if !r.used.Load() {
			r.used.Store(true)
			return r
		}
	}
	r := &Record{dom: d}
	r.used.Store(true)
	d.records = append(d.records, r)
	return r
}

// Leave marks r free for reuse by a future Join. The caller must not have
// any pending Begin without a matching End, and must not retain r after
// calling Leave.
func (r *Record) Leave() {
	r.used.StoreRelease(false)
}

// Begin enters a critical section, observing the current epoch on the
// outermost call. Begin/End calls nest; reclamation correctness depends on
// every Begin eventually being matched by an End.
func (r *Record) Begin() {
	if r.active.AddAcqRel(1) == 1 {
		r.observed.StoreRelease(r.dom.epoch.LoadAcquire())
	}
}

// End leaves a critical section entered by Begin.
func (r *Record) End() {
	r.active.AddAcqRel(-1)
}

// Retire schedules reclaim to run once no Record's critical section could
// still observe the epoch current at the time of this call. reclaim must
// not block and must not itself call Retire, Begin, or Poll on r.
func (r *Record) Retire(reclaim func()) {
	e := r.dom.epoch.LoadRelaxed()
	b := e % buckets
	r.retired[b] = append(r.retired[b], reclaim)
}

// Poll attempts to advance the domain's global epoch and, whether or not
// it succeeds, drains r's own retired buckets that are now provably safe.
// It returns the number of reclaim callbacks it ran. Poll never touches
// another Record's retired buckets — only the calling goroutine is ever
// allowed to mutate r's buckets, so Poll is safe to call concurrently from
// every participating goroutine on its own Record.
func (r *Record) Poll() int {
	r.dom.tryAdvance()
	return r.drain()
}

// tryAdvance scans every registered Record and advances the global epoch
// by one if every Record with an active critical section has already
// observed the current epoch.
func (d *Domain) tryAdvance() bool {
	e := d.epoch.LoadAcquire()
	d.mu.Lock()
	records := d.records
	d.mu.Unlock()
	for _, rec := range records {
		if !rec.used.LoadAcquire() {
			continue
		}
		if rec.active.LoadAcquire() != 0 && rec.observed.LoadAcquire() != e {
			return false
		}
	}
	return d.epoch.CompareAndSwapAcqRel(e, e+1)
}

// drain runs every callback retired at least two epochs ago and clears
// their buckets, returning how many ran.
func (r *Record) drain() int {
	e := r.dom.epoch.LoadAcquire()
	if e < 2 {
		return 0
	}
	n := 0
	for off := uint64(2); off < buckets; off++ {
		safeEpoch := e - off
		if safeEpoch <= r.lastDrained && r.lastDrained != 0 {
			continue
		}
		b := safeEpoch % buckets
		cbs := r.retired[b]
		if len(cbs) == 0 {
			continue
		}
		r.retired[b] = nil
		for _, cb := range cbs {
			cb()
			n++
		}
	}
	r.lastDrained = e - 2
	return n
}

// Synchronize blocks the calling goroutine, spinning on the epoch-advance
// step (it drains no retired buckets; see Barrier), until the
// global epoch has advanced by at least two generations past the one
// current when Synchronize was called. After Synchronize returns, every
// callback retired before the call is guaranteed eligible for reclamation.
func (r *Record) Synchronize() {
	start := r.dom.epoch.LoadAcquire()
	sw := spin.Wait{}
	for r.dom.epoch.LoadAcquire() < start+2 {
		r.dom.tryAdvance()
		sw.Once()
	}
}

// Barrier is Synchronize followed by draining r's own retired buckets; it
// is the combination most callers that need a hard guarantee reach for.
func (r *Record) Barrier() int {
	r.Synchronize()
	return r.drain()
}
