// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"errors"
	"testing"

	"github.com/concurrencykit/ck-go/ring"
)

func TestSPSCCapacityRoundsToPowerOfTwo(t *testing.T) {
	cases := []struct{ in, want int }{
		{2, 2}, {3, 4}, {4, 4}, {1000, 1024}, {1024, 1024},
	}
	for _, c := range cases {
		q := ring.NewSPSC[int](c.in)
		if got := q.Cap(); got != c.want {
			t.Fatalf("NewSPSC(%d).Cap() = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSPSCFullAndEmptySignals(t *testing.T) {
	q := ring.NewSPSC[int](4)

	for i := range 4 {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	v := 99
	if err := q.Enqueue(&v); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	for i := range 4 {
		got, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if got != i {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, got, i)
		}
	}
	if _, err := q.Dequeue(); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestSPSCProducerConsumerOrderPreserved enqueues 0..99 against a ring
// smaller than the sequence (forcing the producer to spin on full) and
// checks the consumer observes the exact same order.
func TestSPSCProducerConsumerOrderPreserved(t *testing.T) {
	if ring.RaceEnabled {
		t.Skip("lock-free cross-goroutine ordering triggers race detector false positives")
	}
	const n = 100
	q := ring.NewSPSC[int](8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range n {
			v := i
			for q.Enqueue(&v) != nil {
				// spin until the consumer makes room
			}
		}
	}()

	for i := range n {
		var got int
		var err error
		for {
			got, err = q.Dequeue()
			if err == nil {
				break
			}
		}
		if got != i {
			t.Fatalf("Dequeue position %d: got %d, want %d", i, got, i)
		}
	}
	<-done

	if _, err := q.Dequeue(); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("ring not empty at quiescence: Dequeue returned %v, want ErrWouldBlock", err)
	}
}
