// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/concurrencykit/ck-go/syncx"
)

func TestEventCountAddWakesWaiter(t *testing.T) {
	ec := syncx.NewEventCount(0)
	old := ec.Value()

	done := make(chan uint64, 1)
	go func() {
		v, changed := ec.Wait(old, time.Now().Add(5*time.Second))
		if !changed {
			t.Error("Wait: want changed=true")
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	ec.Add(1)

	select {
	case v := <-done:
		if v != old+1 {
			t.Fatalf("Wait observed %d, want %d", v, old+1)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after Add")
	}
}

func TestEventCountWaitDeadlineExpires(t *testing.T) {
	ec := syncx.NewEventCount(0)
	start := time.Now()
	v, changed := ec.Wait(ec.Value(), start.Add(30*time.Millisecond))
	if changed {
		t.Fatalf("Wait: want changed=false on expiry")
	}
	if v != 0 {
		t.Fatalf("Wait on expiry returned %d, want 0", v)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("Wait returned too early: %v", time.Since(start))
	}
}

func TestEventCountWaitPredShortCircuits(t *testing.T) {
	ec := syncx.NewEventCount(0)
	v, ok := ec.WaitPred(ec.Value(), time.Time{}, func(v uint64) bool { return true })
	if !ok {
		t.Fatalf("WaitPred: want ok=true when predicate already satisfied")
	}
	if v != 0 {
		t.Fatalf("WaitPred returned %d, want 0", v)
	}
}

func TestEventCountManyWaitersOneAdd(t *testing.T) {
	ec := syncx.NewEventCount(0)
	const waiters = 16
	var wg sync.WaitGroup
	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			_, changed := ec.Wait(0, time.Now().Add(5*time.Second))
			if !changed {
				t.Error("Wait: want changed=true")
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	ec.Add(1)

	doneCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneCh)
	}()
	select {
	case <-doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("not all waiters woke after Add")
	}
}
