// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx_test

import (
	"sync"
	"testing"

	"github.com/concurrencykit/ck-go/syncx"
)

func TestSpinlockMutualExclusion(t *testing.T) {
	var l syncx.Spinlock
	counter := 0
	const goroutines, perGoroutine = 16, 2000
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()
	if want := goroutines * perGoroutine; counter != want {
		t.Fatalf("counter = %d, want %d", counter, want)
	}
}

func TestSpinlockTryLock(t *testing.T) {
	var l syncx.Spinlock
	if !l.TryLock() {
		t.Fatalf("TryLock on unlocked: want true")
	}
	if l.TryLock() {
		t.Fatalf("TryLock on held: want false")
	}
	l.Unlock()
	if !l.TryLock() {
		t.Fatalf("TryLock after Unlock: want true")
	}
}
