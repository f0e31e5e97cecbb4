// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fifo_test

import (
	"errors"
	"testing"

	"github.com/concurrencykit/ck-go/fifo"
)

func TestSPSCFIFOOrder(t *testing.T) {
	q := fifo.NewSPSC[int]()
	nodes := make([]*fifo.SPSCNode[int], 10)
	for i := range nodes {
		nodes[i] = &fifo.SPSCNode[int]{Value: i}
		q.Enqueue(nodes[i])
	}
	for i := range nodes {
		got, _, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if got != i {
			t.Fatalf("Dequeue: got %d, want %d", got, i)
		}
	}
	if _, _, err := q.Dequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

func TestSPSCInterleaved(t *testing.T) {
	q := fifo.NewSPSC[string]()
	a := &fifo.SPSCNode[string]{Value: "a"}
	q.Enqueue(a)
	got, _, err := q.Dequeue()
	if err != nil || got != "a" {
		t.Fatalf("Dequeue: got %q, %v, want a, nil", got, err)
	}
	if _, _, err := q.Dequeue(); !errors.Is(err, fifo.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
	b := &fifo.SPSCNode[string]{Value: "b"}
	q.Enqueue(b)
	got, _, err = q.Dequeue()
	if err != nil || got != "b" {
		t.Fatalf("Dequeue: got %q, %v, want b, nil", got, err)
	}
}
