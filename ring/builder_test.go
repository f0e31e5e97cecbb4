// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"testing"

	"github.com/concurrencykit/ck-go/ring"
)

func TestBuildSelectsAlgorithmFromConstraints(t *testing.T) {
	cases := []struct {
		name   string
		build  func() ring.Queue[int]
		wantOK func(q ring.Queue[int]) bool
	}{
		{"spsc", func() ring.Queue[int] {
			return ring.Build[int](ring.New(16).SingleProducer().SingleConsumer())
		}, func(q ring.Queue[int]) bool { _, ok := q.(*ring.SPSC[int]); return ok }},
		{"spmc", func() ring.Queue[int] {
			return ring.Build[int](ring.New(16).SingleProducer())
		}, func(q ring.Queue[int]) bool { _, ok := q.(*ring.SPMC[int]); return ok }},
		{"mpsc", func() ring.Queue[int] {
			return ring.Build[int](ring.New(16).SingleConsumer())
		}, func(q ring.Queue[int]) bool { _, ok := q.(*ring.MPSC[int]); return ok }},
		{"mpmc", func() ring.Queue[int] {
			return ring.Build[int](ring.New(16))
		}, func(q ring.Queue[int]) bool { _, ok := q.(*ring.MPMC[int]); return ok }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := c.build()
			if !c.wantOK(q) {
				t.Fatalf("Build() for %s did not return expected concrete type", c.name)
			}
		})
	}
}

func TestBuildTypedConstructorsPanicOnMismatchedConstraints(t *testing.T) {
	t.Run("BuildSPSC without constraints", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		ring.BuildSPSC[int](ring.New(16))
	})
	t.Run("BuildMPSC with SingleProducer set", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		ring.BuildMPSC[int](ring.New(16).SingleProducer().SingleConsumer())
	})
	t.Run("BuildSPMC with SingleConsumer set", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		ring.BuildSPMC[int](ring.New(16).SingleConsumer())
	})
	t.Run("BuildMPMC with constraints set", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		ring.BuildMPMC[int](ring.New(16).SingleProducer())
	})
}

func TestNewPanicsBelowMinimumCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for capacity < 2")
		}
	}()
	ring.New(1)
}
