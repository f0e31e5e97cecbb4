// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hashset_test

import (
	"testing"

	"github.com/concurrencykit/ck-go/epoch"
	"github.com/concurrencykit/ck-go/hashset"
)

func newTestRobinHood(t *testing.T) *hashset.RobinHood[int] {
	t.Helper()
	dom := epoch.NewDomain()
	rec := dom.Join()
	t.Cleanup(rec.Leave)
	return hashset.NewRobinHood[int](4, fnvHash, 0, rec)
}

func TestRobinHoodInsertLookupRemove(t *testing.T) {
	s := newTestRobinHood(t)

	if !s.Insert(1) {
		t.Fatalf("Insert(1): want true")
	}
	if s.Insert(1) {
		t.Fatalf("Insert(1) again: want false")
	}
	if !s.Lookup(1) {
		t.Fatalf("Lookup(1): want true")
	}
	if !s.Remove(1) {
		t.Fatalf("Remove(1): want true")
	}
	if s.Lookup(1) {
		t.Fatalf("Lookup(1) after Remove: want false")
	}
}

func TestRobinHoodInsertLookupMany(t *testing.T) {
	s := newTestRobinHood(t)
	const n = 400
	for i := 0; i < n; i++ {
		if !s.Insert(i) {
			t.Fatalf("Insert(%d): want true", i)
		}
	}
	for i := 0; i < n; i++ {
		if !s.Lookup(i) {
			t.Fatalf("Lookup(%d): want true", i)
		}
	}
	if s.Lookup(n + 1000) {
		t.Fatalf("Lookup(absent): want false")
	}
	if s.Len() != n {
		t.Fatalf("Len() = %d, want %d", s.Len(), n)
	}
}

func TestRobinHoodRebuildRestoresInvariant(t *testing.T) {
	s := newTestRobinHood(t)
	for i := 0; i < 100; i++ {
		s.Insert(i)
	}
	for i := 0; i < 50; i += 2 {
		s.Remove(i)
	}
	s.Rebuild()
	for i := 0; i < 100; i++ {
		removed := i < 50 && i%2 == 0
		if got := s.Lookup(i); got == removed {
			t.Fatalf("Lookup(%d) after Rebuild = %v, want %v", i, got, !removed)
		}
	}
}
