// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides bounded, array-backed FIFO ring buffer implementations.
//
// The package offers four queue variants, one per producer/consumer pattern:
//
//   - SPSC: Single-Producer Single-Consumer (Lamport ring buffer, n slots)
//   - MPSC: Multi-Producer Single-Consumer (FAA-based SCQ, 2n slots)
//   - SPMC: Single-Producer Multi-Consumer (FAA-based SCQ, 2n slots)
//   - MPMC: Multi-Producer Multi-Consumer (FAA-based SCQ, 2n slots)
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := ring.NewSPSC[Event](1024)
//	q := ring.NewMPMC[*Request](4096)
//
// Builder API auto-selects the algorithm based on constraints:
//
//	q := ring.Build[Event](ring.New(1024).SingleProducer().SingleConsumer())  // → SPSC
//	q := ring.Build[Event](ring.New(1024).SingleConsumer())                   // → MPSC
//	q := ring.Build[Event](ring.New(1024).SingleProducer())                   // → SPMC
//	q := ring.Build[Event](ring.New(1024))                                    // → MPMC
//
// # Basic Usage
//
// All queues share the same interface for enqueueing and dequeueing:
//
//	// Create a queue
//	q := ring.NewMPMC[int](1024)
//
//	// Enqueue (non-blocking)
//	value := 42
//	err := q.Enqueue(&value)
//	if ring.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if ring.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Reserve/Commit
//
// MPMC, SPMC, and MPSC additionally expose Enqueue's claim and publish
// steps as two separate calls, so a producer can write directly into
// the reserved slot instead of building a value and handing Enqueue a
// pointer to copy from:
//
//	r, err := q.Reserve()
//	if err == nil {
//	    *r.Data() = buildInPlace()
//	    q.Commit(r)
//	}
//
// # Persistent-ring recovery
//
// Valid reports whether a queue's producer/consumer indices still
// satisfy the ring invariant after being reloaded from persistent
// storage; Repair clears crash-era bookkeeping so the queue can resume
// operation. See the doc comments on MPMC.Repair, SPMC.Repair, and
// MPSC.Repair for what each one actually restores. In MPMC and SPMC a
// reservation left uncommitted by a crash is skipped once a consumer
// reaches that slot, so Repair there only resets the livelock threshold;
// this SCQ-derived design keeps no separate published tail to set back
// to the reserved head. MPSC's single consumer does not skip such a slot:
// its Dequeue keeps returning [ErrWouldBlock] at that position, and
// MPSC.Repair does not change that.
//
// # Common Patterns
//
// Pipeline Stage (SPSC):
//
//	// Stage 1 → Queue → Stage 2
//	q := ring.NewSPSC[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.Enqueue(&data) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// Event Aggregation (MPSC):
//
//	// Multiple event sources → Single processor
//	q := ring.NewMPSC[Event](4096)
//
//	for sensor := range slices.Values(sensors) {
//	    go func(s Sensor) {
//	        for ev := range s.Events() {
//	            q.Enqueue(&ev)
//	        }
//	    }(sensor)
//	}
//
//	go func() {
//	    for {
//	        ev, err := q.Dequeue()
//	        if err == nil {
//	            aggregate(ev)
//	        }
//	    }
//	}()
//
// Work Distribution (SPMC):
//
//	// Single dispatcher → Multiple workers
//	q := ring.NewSPMC[Task](1024)
//
//	go func() {
//	    backoff := iox.Backoff{}
//	    for task := range tasks {
//	        for q.Enqueue(&task) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	for range numWorkers {
//	    go func() {
//	        for {
//	            task, err := q.Dequeue()
//	            if err == nil {
//	                task.Execute()
//	            }
//	        }
//	    }()
//	}
//
// Worker Pool (MPMC):
//
//	// Multiple submitters → Multiple workers
//	q := ring.NewMPMC[Job](4096)
//
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job, err := q.Dequeue()
//	            if err == nil {
//	                job.Run()
//	            }
//	        }
//	    }()
//	}
//
//	func Submit(j Job) error {
//	    return q.Enqueue(&j)
//	}
//
// # Error Handling
//
// Queues return [ErrWouldBlock] when operations cannot proceed. This error
// is sourced from [code.hybscloud.com/iox] for ecosystem consistency.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !ring.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	ring.IsWouldBlock(err)  // true if queue full/empty
//	ring.IsSemantic(err)    // true if control flow signal
//	ring.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Capacity and Length
//
// Capacity rounds up to the next power of 2:
//
//	q := ring.NewMPMC[int](3)     // Actual capacity: 4
//	q := ring.NewMPMC[int](1000)  // Actual capacity: 1024
//
// Minimum capacity is 2 (already a power of 2). Panic if capacity < 2.
//
// Length is intentionally not provided because accurate counts in lock-free
// algorithms require expensive cross-core synchronization. Track counts in
// application logic when needed.
//
// # Thread Safety
//
// All queue operations are thread-safe within their access pattern constraints:
//
//   - SPSC: One producer goroutine, one consumer goroutine
//   - MPSC: Multiple producer goroutines, one consumer goroutine
//   - SPMC: One producer goroutine, multiple consumer goroutines
//   - MPMC: Multiple producer and consumer goroutines
//
// Violating these constraints (e.g., multiple producers on SPSC) causes
// undefined behavior including data corruption and races.
//
// # Graceful Shutdown
//
// MPMC and SPMC include a threshold mechanism to prevent livelock. This
// mechanism may cause Dequeue to return [ErrWouldBlock] even when items
// remain, waiting for producer activity to reset the threshold.
//
// For graceful shutdown scenarios where producers have finished but consumers
// need to drain remaining items, use the [Drainer] interface:
//
//	prodWg.Wait()
//	if d, ok := q.(ring.Drainer); ok {
//	    d.Drain()
//	}
//	// Consumers can now drain all remaining items without threshold blocking
//
// MPMC and MPSC implement [Drainer]; MPSC has no threshold, so its Drain
// only records the signal. SPMC does not implement [Drainer], so its
// threshold stays in force after producers finish. SPSC has no threshold
// mechanism and no Drain. The type assertion naturally handles these cases.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm verification.
// Lock-free queues use cycle counters with acquire-release semantics to
// protect non-atomic data fields; these algorithms are correct, but the race
// detector may report false positives because it cannot observe
// happens-before relationships established by atomics on separate
// variables. Tests incompatible with race detection check the [RaceEnabled]
// constant and skip themselves when it is set, with the reason at each skip.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause instructions.
package ring
