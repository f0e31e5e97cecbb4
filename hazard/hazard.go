// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hazard

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// DefaultScanThreshold is the number of retired pointers a Record
// accumulates before Retire triggers an automatic Scan.
const DefaultScanThreshold = 64

// Domain owns the registry of participating Records and the slot count
// every Record is allocated with.
type Domain struct {
	numSlots      int
	scanThreshold int

	mu      sync.Mutex
	records []*Record
}

// NewDomain returns a Domain whose Records each carry numSlots hazard
// slots. An algorithm that protects two pointers per operation (package
// fifo's Michael-Scott MPMCHP, for instance) needs numSlots of at least 2.
func NewDomain(numSlots int) *Domain {
	if numSlots < 1 {
		numSlots = 1
	}
	return &Domain{numSlots: numSlots, scanThreshold: DefaultScanThreshold}
}

// retired is one pointer awaiting proof that no published hazard slot
// still names it.
type retired struct {
	ptr     uintptr
	reclaim func()
}

// Record is a goroutine's registration in a Domain: its hazard slots and
// its own list of retired-but-not-yet-freed pointers. A Record is owned
// exclusively by the goroutine that joined it; other goroutines only ever
// read its slots, during another Record's Scan.
type Record struct {
	dom   *Domain
	used  atomix.Bool
	slots []atomix.Uintptr

	retired []retired
}

// Join registers the calling goroutine with d and returns its Record,
// reusing a previously-Leave'd Record when one is free.
func (d *Domain) Join() *Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.records {
		if !r.used.Load() {
			r.used.Store(true)
			return r
		}
	}
	r := &Record{dom: d, slots: make([]atomix.Uintptr, d.numSlots)}
	r.used.Store(true)
	d.records = append(d.records, r)
	return r
}

// Leave clears r's hazard slots and marks it free for reuse by a future
// Join. The caller must have no pointer reachable only through r's
// published slots still in use, and must drop its reference to r.
func (r *Record) Leave() {
	for i := range r.slots {
		r.slots[i].StoreRelease(0)
	}
	r.used.StoreRelease(false)
}

// Protect publishes ptr into r's hazard slot i, making it visible to any
// concurrent Scan, and returns ptr unchanged for call-site convenience:
//
//	for {
//		p := hz.Protect(0, src.LoadAcquire())
//		if p != src.LoadAcquire() {
//			continue // source moved between the two loads; retry
//		}
//		// p is now safe to dereference until Clear(0) or the next Protect(0, ...)
//	}
func (r *Record) Protect(i int, ptr uintptr) uintptr {
	r.slots[i].StoreRelease(ptr)
	return ptr
}

// Clear retracts the publication in slot i, making its previous contents
// eligible for reclamation once no other hazard slot still names it.
func (r *Record) Clear(i int) {
	r.slots[i].StoreRelease(0)
}

// Retire hands ptr to r for deferred reclamation: reclaim runs once a Scan
// establishes no Record's hazard slot still publishes ptr. Retire triggers
// an automatic Scan once the calling Record's backlog reaches the
// Domain's scan threshold.
func (r *Record) Retire(ptr uintptr, reclaim func()) {
	r.retired = append(r.retired, retired{ptr: ptr, reclaim: reclaim})
	if len(r.retired) >= r.dom.scanThreshold {
		r.Scan()
	}
}

// Scan walks every participating Record's hazard slots, builds the set of
// currently-published pointers, and reclaims every one of r's retired
// pointers not found in that set. It returns how many were reclaimed.
// Scan only ever mutates r's own retired list, so it is safe to call
// concurrently from every participating goroutine on its own Record.
func (r *Record) Scan() int {
	d := r.dom
	d.mu.Lock()
	records := d.records
	d.mu.Unlock()

	live := make(map[uintptr]struct{}, len(records)*d.numSlots)
	for _, rec := range records {
		if !rec.used.LoadAcquire() {
			continue
		}
		for i := range rec.slots {
			if p := rec.slots[i].LoadAcquire(); p != 0 {
				live[p] = struct{}{}
			}
		}
	}

	kept := r.retired[:0]
	n := 0
	for _, item := range r.retired {
		if _, hazardous := live[item.ptr]; hazardous {
			kept = append(kept, item)
			continue
		}
		item.reclaim()
		n++
	}
	r.retired = kept
	return n
}
