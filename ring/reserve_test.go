// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"errors"
	"testing"

	"github.com/concurrencykit/ck-go/ring"
)

// =============================================================================
// Reserve/Commit two-phase enqueue
// =============================================================================

func TestMPMCReserveCommit(t *testing.T) {
	q := ring.NewMPMC[int](4)

	r, err := q.Reserve()
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	*r.Data() = 42
	q.Commit(r)

	v, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if v != 42 {
		t.Fatalf("Dequeue: got %d, want 42", v)
	}
}

func TestMPMCReserveFullReturnsWouldBlock(t *testing.T) {
	q := ring.NewMPMC[int](2)
	for range 2 {
		r, err := q.Reserve()
		if err != nil {
			t.Fatalf("Reserve: %v", err)
		}
		q.Commit(r)
	}
	if _, err := q.Reserve(); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Reserve on full: got %v, want ErrWouldBlock", err)
	}
}

func TestMPMCValidRepairAfterCrashedReservation(t *testing.T) {
	q := ring.NewMPMC[int](4)
	if !q.Valid() {
		t.Fatal("Valid: want true on fresh queue")
	}

	if _, err := q.Reserve(); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if !q.Valid() {
		t.Fatal("Valid: want true with one outstanding reservation")
	}

	// Simulate the process crashing between Reserve and Commit: the
	// slot is claimed but never published. Dequeue's own stale-slot
	// handling skips such a slot on first encounter; Repair only
	// resets the livelock threshold for the fresh process.
	q.Repair()

	r2, err := q.Reserve()
	if err != nil {
		t.Fatalf("Reserve after repair: %v", err)
	}
	*r2.Data() = 7
	q.Commit(r2)

	v, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue after repair: %v", err)
	}
	if v != 7 {
		t.Fatalf("Dequeue after repair: got %d, want 7", v)
	}
}

func TestSPMCReserveCommit(t *testing.T) {
	q := ring.NewSPMC[int](4)

	r, err := q.Reserve()
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	*r.Data() = 9
	q.Commit(r)

	v, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if v != 9 {
		t.Fatalf("Dequeue: got %d, want 9", v)
	}
	if !q.Valid() {
		t.Fatal("Valid: want true")
	}
}

func TestMPSCReserveCommit(t *testing.T) {
	q := ring.NewMPSC[int](4)

	r, err := q.Reserve()
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	*r.Data() = 5
	q.Commit(r)

	v, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if v != 5 {
		t.Fatalf("Dequeue: got %d, want 5", v)
	}

	if _, err := q.Reserve(); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	q.Repair()
	if _, err := q.Dequeue(); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Dequeue after repairing an uncommitted reservation: got %v, want ErrWouldBlock", err)
	}
}
