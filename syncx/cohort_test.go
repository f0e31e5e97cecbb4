// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx_test

import (
	"sync"
	"testing"

	"github.com/concurrencykit/ck-go/syncx"
)

func TestCohortMutualExclusion(t *testing.T) {
	global := &syncx.Spinlock{}
	c := syncx.NewCohort(global)
	counter := 0
	const goroutines, perGoroutine = 16, 1000
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				c.Lock()
				counter++
				c.Unlock()
			}
		}()
	}
	wg.Wait()
	if want := goroutines * perGoroutine; counter != want {
		t.Fatalf("counter = %d, want %d", counter, want)
	}
}

func TestRWCohortWriterMutualExclusion(t *testing.T) {
	global := &syncx.Spinlock{}
	c := syncx.NewRWCohort(global)
	counter := 0
	const writers, perWriter = 8, 500
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					c.RLock()
					_ = counter
					c.RUnlock()
				}
			}
		}()
	}

	var writerWG sync.WaitGroup
	writerWG.Add(writers)
	for g := 0; g < writers; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer writerWG.Done()
			for i := 0; i < perWriter; i++ {
				c.Lock()
				counter++
				c.Unlock()
			}
		}()
	}

	writerWG.Wait()
	close(stop)
	wg.Wait()

	if want := writers * perWriter; counter != want {
		t.Fatalf("counter = %d, want %d", counter, want)
	}
}
