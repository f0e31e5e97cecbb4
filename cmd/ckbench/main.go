// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ckbench runs six fixed benchmarks (stack.MPMC, fifo.MPMC,
// ring.SPSC, hashset.Set, bitmap, and syncx.Spinlock) under a fixed
// wall-clock budget each and prints throughput. Each benchmark is a
// goroutine pool sharing an ops counter, packaged as a standalone tool
// rather than a go test -bench target.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/concurrencykit/ck-go/bitmap"
	"github.com/concurrencykit/ck-go/epoch"
	"github.com/concurrencykit/ck-go/fifo"
	"github.com/concurrencykit/ck-go/hashset"
	"github.com/concurrencykit/ck-go/ring"
	"github.com/concurrencykit/ck-go/stack"
	"github.com/concurrencykit/ck-go/syncx"
)

func main() {
	variant := flag.String("variant", "all", "benchmark to run: stack, fifo, ring, hashset, bitmap, spinlock, all")
	goroutines := flag.Int("goroutines", runtime.GOMAXPROCS(0), "worker goroutines (producers and consumers run in pairs)")
	duration := flag.Duration("duration", time.Second, "how long to run each benchmark")
	flag.Parse()

	benches := map[string]func(time.Duration, int) int64{
		"stack":    benchStackMPMC,
		"fifo":     benchFifoMPMC,
		"ring":     benchRingSPSC,
		"hashset":  benchHashSet,
		"bitmap":   benchBitmap,
		"spinlock": benchSpinlock,
	}

	names := []string{"stack", "fifo", "ring", "hashset", "bitmap", "spinlock"}
	if *variant != "all" {
		fn, ok := benches[*variant]
		if !ok {
			log.Fatalf("unknown variant %q", *variant)
		}
		runOne(*variant, fn, *duration, *goroutines)
		return
	}
	for _, name := range names {
		runOne(name, benches[name], *duration, *goroutines)
	}
}

func runOne(name string, fn func(time.Duration, int) int64, duration time.Duration, goroutines int) {
	ops := fn(duration, goroutines)
	rate := float64(ops) / duration.Seconds()
	fmt.Fprintf(os.Stdout, "%-10s goroutines=%-4d ops=%-12d ops/sec=%.0f\n", name, goroutines, ops, rate)
}

// benchStackMPMC and benchFifoMPMC keep every pushed/enqueued node
// reachable through live, an ordinary Go-traced map, from the moment it
// is created until the matching Pop/Dequeue hands it back — per
// fifo/doc.go and package stack's GC caveat, a node's head/tail/next
// links live in untraced atomix cells the whole time it is linked, so a
// node with no other Go reference is eligible for collection while still
// logically part of the structure.
func benchStackMPMC(duration time.Duration, goroutines int) int64 {
	s := &stack.MPMC[int]{}
	var live sync.Map
	var ops int64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					n := &stack.Node[int]{Value: 1}
					live.Store(n, n)
					s.Push(n)
					atomic.AddInt64(&ops, 1)
				}
			}
		}()
	}
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					if n, err := s.PopMPMC(); err == nil {
						live.Delete(n)
						atomic.AddInt64(&ops, 1)
					}
				}
			}
		}()
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	return atomic.LoadInt64(&ops)
}

func benchFifoMPMC(duration time.Duration, goroutines int) int64 {
	stub := &fifo.Node[int]{}
	q := fifo.NewMPMC(stub)
	var live sync.Map
	live.Store(stub, stub)
	var ops int64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					n := &fifo.Node[int]{Value: 1}
					live.Store(n, n)
					q.Enqueue(n)
					atomic.AddInt64(&ops, 1)
				}
			}
		}()
	}
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					if _, n, err := q.Dequeue(); err == nil {
						live.Delete(n)
						atomic.AddInt64(&ops, 1)
					}
				}
			}
		}()
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	return atomic.LoadInt64(&ops)
}

func benchRingSPSC(duration time.Duration, _ int) int64 {
	q := ring.NewSPSC[int](1024)
	var ops int64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v := 1
		for {
			select {
			case <-stop:
				return
			default:
				if q.Enqueue(&v) == nil {
					atomic.AddInt64(&ops, 1)
				}
			}
		}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if _, err := q.Dequeue(); err == nil {
					atomic.AddInt64(&ops, 1)
				}
			}
		}
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	return atomic.LoadInt64(&ops)
}

func benchHashSet(duration time.Duration, goroutines int) int64 {
	dom := epoch.NewDomain()
	rec := dom.Join()
	defer rec.Leave()
	hash := func(key int, seed uint64) uint64 { return uint64(key)*2654435761 + seed }
	s := hashset.NewSet[int](1024, hash, 0, rec)

	var ops int64
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			i := 0
			for {
				select {
				case <-stop:
					return
				default:
					s.Lookup(base*1_000_000 + i%1000)
					atomic.AddInt64(&ops, 1)
					i++
				}
			}
		}(g)
	}
	for i := 0; i < 1000; i++ {
		s.Insert(i)
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	return atomic.LoadInt64(&ops)
}

func benchBitmap(duration time.Duration, goroutines int) int64 {
	b := bitmap.New(1 << 16)
	var ops int64
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			i := base
			for {
				select {
				case <-stop:
					return
				default:
					b.Set(i % (1 << 16))
					b.Clear((i + 1) % (1 << 16))
					atomic.AddInt64(&ops, 2)
					i++
				}
			}
		}(g)
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	return atomic.LoadInt64(&ops)
}

func benchSpinlock(duration time.Duration, goroutines int) int64 {
	var l syncx.Spinlock
	var counter int64
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					l.Lock()
					counter++
					l.Unlock()
				}
			}
		}()
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	return counter
}
