// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"sync"
	"testing"

	"github.com/concurrencykit/ck-go/ring"
)

// TestMPSCAggregatesAllProducers enqueues from several producer goroutines
// into a single-consumer queue and checks every produced value is
// observed exactly once by the lone consumer.
func TestMPSCAggregatesAllProducers(t *testing.T) {
	if ring.RaceEnabled {
		t.Skip("lock-free cross-goroutine ordering triggers race detector false positives")
	}
	const producers = 8
	const itemsPerProducer = 2000
	q := ring.NewMPSC[int](256)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := range producers {
		go func(p int) {
			defer wg.Done()
			base := p * itemsPerProducer
			for i := range itemsPerProducer {
				v := base + i
				for q.Enqueue(&v) != nil {
				}
			}
		}(p)
	}

	seen := make(map[int]bool, producers*itemsPerProducer)
	want := producers * itemsPerProducer
	for len(seen) < want {
		v, err := q.Dequeue()
		if err != nil {
			continue
		}
		if seen[v] {
			t.Fatalf("value %d dequeued twice", v)
		}
		seen[v] = true
	}
	wg.Wait()

	if _, err := q.Dequeue(); err == nil {
		t.Fatal("queue not empty after draining all produced items")
	}
}

func TestMPSCDrainAllowsFinalDequeue(t *testing.T) {
	q := ring.NewMPSC[int](4)
	for i := range 4 {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	q.Drain()
	count := 0
	for {
		if _, err := q.Dequeue(); err != nil {
			break
		}
		count++
	}
	if count != 4 {
		t.Fatalf("drained %d items, want 4", count)
	}
}
