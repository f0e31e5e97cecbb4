// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncx

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Sequence is a seqlock: an even counter means the protected data is
// stable, odd means a writer is mid-update. There is no reader-side
// blocking and no writer-side mutual exclusion — the caller externally
// serializes writers (a single-writer contract, the same one package
// hashset and package ring place on their single-writer operations).
//
// The protected data itself must be read and written through ordinary
// (non-atomic) field accesses for the pattern to be worth using at all;
// Go's race detector has no notion of a seqlock's happens-before
// discipline and will report a data race on that plain access even
// though RetryRead discards any torn read before it is acted on.
type Sequence struct {
	seq atomix.Uint64
}

// BeginRead spins until the sequence is stable (even) and returns its
// value; the caller must copy the protected data, then call RetryRead
// with the returned value and retry the whole read if it reports true.
func (s *Sequence) BeginRead() uint64 {
	sw := spin.Wait{}
	for {
		v := s.seq.LoadAcquire()
		if v&1 == 0 {
			return v
		}
		sw.Once()
	}
}

// RetryRead reports whether the sequence changed since start, meaning a
// writer may have mutated the data mid-copy and the read must retry.
func (s *Sequence) RetryRead(start uint64) bool {
	return s.seq.LoadAcquire() != start
}

// BeginWrite marks the sequence in-write (odd). The caller must already
// hold exclusive write access by some external means; Sequence does not
// itself exclude concurrent writers.
func (s *Sequence) BeginWrite() {
	s.seq.AddAcqRel(1)
}

// EndWrite marks the sequence stable again (even) after the protected
// data has been fully written.
func (s *Sequence) EndWrite() {
	s.seq.AddAcqRel(1)
}
