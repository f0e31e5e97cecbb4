// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hashset

import "sync/atomic"

// RobinHood is an open-addressed, linear-probe hash set that swaps a
// displaced entry forward whenever the key being inserted has probed
// further from its home slot than the current occupant, bounding the
// worst-case probe length and letting Lookup terminate as soon as it
// meets a slot whose recorded probe distance is shorter than its own —
// no occupant further along could ever be the key being sought.
//
// Deletion only tombstones; it does not backward-shift to repair probe
// distances immediately (read-mostly mode). Rebuild repairs them by
// rehashing every live key into a fresh table.
type RobinHood[K comparable] struct {
	hash      HashFunc[K]
	seed      uint64
	reclaimer Reclaimer

	cur atomic.Pointer[table[K]]

	live       int
	tombstones int
	maxProbe   int
}

// NewRobinHood returns an empty Robin Hood set with the given initial
// capacity (rounded up to a power of two, minimum 2).
func NewRobinHood[K comparable](capacity int, hash HashFunc[K], seed uint64, reclaimer Reclaimer) *RobinHood[K] {
	s := &RobinHood[K]{hash: hash, seed: seed, reclaimer: reclaimer}
	s.cur.Store(newTable[K](capacity))
	return s
}

// Lookup reports whether key is present. Wait-free; safe to call from any
// number of goroutines concurrently with Insert, Remove, Grow, and
// Rebuild.
func (s *RobinHood[K]) Lookup(key K) bool {
	t := s.cur.Load()
	h := s.hash(key, s.seed)
	mask := t.mask
	for i := uint64(0); i <= mask; i++ {
		idx := (h + i) & mask
		sl := &t.slots[idx]
		st := sl.state.LoadAcquire()
		if st == slotEmpty {
			return false
		}
		if st == slotOccupied {
			if sl.key == key {
				return true
			}
			if uint64(sl.probe) < i {
				return false
			}
		}
	}
	return false
}

// Insert adds key if absent and reports whether it was newly added. Must
// not be called concurrently with any other Insert, Remove, Grow, or
// Rebuild on the same RobinHood.
func (s *RobinHood[K]) Insert(key K) bool {
	t := s.cur.Load()
	h := s.hash(key, s.seed)
	mask := t.mask

	insKey := key
	insProbe := uint64(0)
	idx := h & mask
	for {
		sl := &t.slots[idx]
		st := sl.state.LoadAcquire()
		if st == slotEmpty || (st == slotTombstone && insProbe > uint64(sl.probe)) {
			wasTombstone := st == slotTombstone
			sl.key = insKey
			sl.probe = uint32(insProbe)
			sl.state.StoreRelease(slotOccupied)
			s.live++
			if wasTombstone {
				s.tombstones--
			}
			if int(insProbe) > s.maxProbe {
				s.maxProbe = int(insProbe)
			}
			s.maybeGrow(t)
			return true
		}
		if st == slotOccupied && sl.key == key {
			return false
		}
		if st == slotOccupied && insProbe > uint64(sl.probe) {
			insKey, sl.key = sl.key, insKey
			insProbe, sl.probe = uint64(sl.probe), uint32(insProbe)
		}
		idx = (idx + 1) & mask
		insProbe++
		if insProbe > mask {
			s.Grow(2 * (int(mask) + 1))
			return s.Insert(key)
		}
	}
}

// Remove tombstones key's slot if present and reports whether it was
// found. Must not be called concurrently with any other Insert, Remove,
// Grow, or Rebuild on the same RobinHood.
func (s *RobinHood[K]) Remove(key K) bool {
	t := s.cur.Load()
	h := s.hash(key, s.seed)
	mask := t.mask
	for i := uint64(0); i <= mask; i++ {
		idx := (h + i) & mask
		sl := &t.slots[idx]
		st := sl.state.LoadAcquire()
		if st == slotEmpty {
			return false
		}
		if st == slotOccupied {
			if sl.key == key {
				sl.state.StoreRelease(slotTombstone)
				s.live--
				s.tombstones++
				return true
			}
			if uint64(sl.probe) < i {
				return false
			}
		}
	}
	return false
}

// Len returns the number of live (non-tombstoned) keys.
func (s *RobinHood[K]) Len() int {
	return s.live
}

func (s *RobinHood[K]) maybeGrow(t *table[K]) {
	capacity := len(t.slots)
	overLoad := s.live*4 >= capacity*3
	overProbe := s.maxProbe*4 >= capacity
	if overLoad || overProbe {
		s.Grow(capacity * 2)
	}
}

// Grow allocates a table of newCapacity (rounded up to a power of two),
// rehashes every live key into it in probe order so probe distances stay
// minimal, publishes it, and retires the old table through the
// RobinHood's reclaimer.
func (s *RobinHood[K]) Grow(newCapacity int) {
	old := s.cur.Load()
	nt := newTable[K](newCapacity)
	for i := range old.slots {
		sl := &old.slots[i]
		if sl.state.LoadAcquire() != slotOccupied {
			continue
		}
		insertDuringRebuildRH(nt, s.hash, s.seed, sl.key)
	}
	s.cur.Store(nt)
	s.maxProbe = 0
	for i := range nt.slots {
		if nt.slots[i].state.LoadRelaxed() == slotOccupied && int(nt.slots[i].probe) > s.maxProbe {
			s.maxProbe = int(nt.slots[i].probe)
		}
	}
	s.tombstones = 0
	s.reclaimer.Retire(func() { _ = old })
}

// Rebuild reallocates a same-size table, clearing tombstones and
// restoring the Robin Hood probe-distance invariant that Remove's
// deferred tombstoning lets drift.
func (s *RobinHood[K]) Rebuild() {
	s.Grow(len(s.cur.Load().slots))
}

func insertDuringRebuildRH[K comparable](t *table[K], hash HashFunc[K], seed uint64, key K) {
	h := hash(key, seed)
	mask := t.mask
	insKey := key
	insProbe := uint64(0)
	idx := h & mask
	for {
		sl := &t.slots[idx]
		if sl.state.LoadRelaxed() == slotEmpty {
			sl.key = insKey
			sl.probe = uint32(insProbe)
			sl.state.StoreRelease(slotOccupied)
			return
		}
		if insProbe > uint64(sl.probe) {
			insKey, sl.key = sl.key, insKey
			insProbe, sl.probe = uint64(sl.probe), uint32(insProbe)
		}
		idx = (idx + 1) & mask
		insProbe++
	}
}
