// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stack_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/concurrencykit/ck-go/stack"
)

// TestUPMCLIFO verifies single-threaded LIFO order: pop order reverses
// push order (spec.md §8 "Stack LIFO under single thread").
func TestUPMCLIFO(t *testing.T) {
	var s stack.UPMC[int]
	nodes := make([]*stack.Node[int], 10)
	for i := range nodes {
		nodes[i] = &stack.Node[int]{Value: i}
		s.Push(nodes[i])
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		got, err := s.PopUPMC()
		if err != nil {
			t.Fatalf("PopUPMC(%d): %v", i, err)
		}
		if got.Value != i {
			t.Fatalf("PopUPMC: got %d, want %d", got.Value, i)
		}
	}
	if _, err := s.PopUPMC(); !errors.Is(err, stack.ErrWouldBlock) {
		t.Fatalf("PopUPMC on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestUPMCBatchPop verifies batch-pop after k pushes returns exactly those
// k nodes (spec.md §8 round-trip law).
func TestUPMCBatchPop(t *testing.T) {
	var s stack.UPMC[int]
	const k = 100
	nodes := make([]*stack.Node[int], k)
	for i := range k {
		nodes[i] = &stack.Node[int]{Value: i}
		s.Push(nodes[i])
	}
	head := s.BatchPop()
	count := 0
	seen := make(map[int]bool, k)
	for n := head; n != nil; n = n.Next() {
		count++
		seen[n.Value] = true
	}
	if count != k {
		t.Fatalf("BatchPop: got %d nodes, want %d", count, k)
	}
	if len(seen) != k {
		t.Fatalf("BatchPop: got %d distinct values, want %d", len(seen), k)
	}
	if _, err := s.PopUPMC(); !errors.Is(err, stack.ErrWouldBlock) {
		t.Fatalf("stack not empty after BatchPop")
	}
}

// TestMPMCBasic exercises push/pop under the tagged-pointer discipline.
func TestMPMCBasic(t *testing.T) {
	var s stack.MPMC[string]
	a := &stack.Node[string]{Value: "a"}
	b := &stack.Node[string]{Value: "b"}
	s.Push(a)
	s.Push(b)

	got, err := s.PopMPMC()
	if err != nil || got.Value != "b" {
		t.Fatalf("PopMPMC: got %v, %v, want b, nil", got, err)
	}
	got, err = s.PopMPMC()
	if err != nil || got.Value != "a" {
		t.Fatalf("PopMPMC: got %v, %v, want a, nil", got, err)
	}
	if _, err := s.PopMPMC(); !errors.Is(err, stack.ErrWouldBlock) {
		t.Fatalf("PopMPMC on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestMPMCConcurrent pushes and pops from many goroutines and checks that
// every pushed node is popped exactly once (spec.md §8 scenario 3, reduced
// scale; no reclamation engine is exercised here since MPMC's tag already
// defeats ABA without one).
func TestMPMCConcurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	var s stack.MPMC[int]
	const perGoroutine = 2000
	const goroutines = 8

	// Retained so the pushed Nodes stay reachable through an ordinary Go
	// reference while they are only otherwise named by the stack's
	// atomix-packed tag word; see doc.go's garbage collection note.
	nodes := make([][]*stack.Node[int], goroutines)
	var wg sync.WaitGroup
	for g := range goroutines {
		nodes[g] = make([]*stack.Node[int], perGoroutine)
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := range perGoroutine {
				nodes[base][i] = &stack.Node[int]{Value: base*perGoroutine + i}
				s.Push(nodes[base][i])
			}
		}(g)
	}
	wg.Wait()

	total := goroutines * perGoroutine
	var popped sync.Map
	var pwg sync.WaitGroup
	for range goroutines {
		pwg.Add(1)
		go func() {
			defer pwg.Done()
			for {
				n, err := s.PopMPMC()
				if err != nil {
					return
				}
				if _, dup := popped.LoadOrStore(n.Value, true); dup {
					t.Errorf("value %d popped twice", n.Value)
				}
			}
		}()
	}
	pwg.Wait()

	count := 0
	popped.Range(func(_, _ any) bool { count++; return true })
	if count != total {
		t.Fatalf("popped %d distinct values, want %d", count, total)
	}
}

// TestMPNCPushThenDrain verifies the MPNC discipline: concurrent pushers,
// then a single-threaded drain through Pop after they finish.
func TestMPNCPushThenDrain(t *testing.T) {
	var s stack.MPNC[int]
	const perGoroutine = 500
	const goroutines = 4

	nodes := make([][]*stack.Node[int], goroutines)
	var wg sync.WaitGroup
	for g := range goroutines {
		nodes[g] = make([]*stack.Node[int], perGoroutine)
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := range perGoroutine {
				nodes[base][i] = &stack.Node[int]{Value: base*perGoroutine + i}
				s.PushMPNC(nodes[base][i])
			}
		}(g)
	}
	wg.Wait()

	count := 0
	for {
		if _, err := s.Pop(); err != nil {
			break
		}
		count++
	}
	if count != goroutines*perGoroutine {
		t.Fatalf("drained %d, want %d", count, goroutines*perGoroutine)
	}
}

// TestSPNCBasic exercises the trivial single-threaded stack.
func TestSPNCBasic(t *testing.T) {
	var s stack.SPNC[int]
	for i := range 5 {
		s.Push(&stack.Node[int]{Value: i})
	}
	for i := 4; i >= 0; i-- {
		n, err := s.Pop()
		if err != nil || n.Value != i {
			t.Fatalf("Pop: got %v, %v, want %d, nil", n, err, i)
		}
	}
	if _, err := s.Pop(); !errors.Is(err, stack.ErrWouldBlock) {
		t.Fatalf("Pop on empty: got %v, want ErrWouldBlock", err)
	}
}
