// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hashset

import "unsafe"

// tagBits is the number of low hash bits packed into the unused high bits
// of a pointer on a 64-bit platform with a 48-bit canonical address
// space. A packed tag lets a probe reject most mismatches before
// dereferencing *E. Set and RobinHood do not call these helpers; their
// Lookup compares keys directly.
const tagBits = 16

// PackPointerTag stashes the low tagBits bits of hash into the otherwise
// unused top bits of ptr's address. Valid only for pointers known to fit
// in 48 address bits, true of every current amd64/arm64 userspace
// mapping; UnpackPointerTag must be used to recover the
// original pointer and tag before any real dereference.
func PackPointerTag[E any](ptr *E, hash uint64) *E {
	addr := uintptr(unsafe.Pointer(ptr))
	tag := uintptr(hash&((1<<tagBits)-1)) << (64 - tagBits)
	return (*E)(unsafe.Pointer(addr | tag))
}

// UnpackPointerTag splits a pointer produced by PackPointerTag back into
// its real address and the packed tag.
func UnpackPointerTag[E any](tagged *E) (ptr *E, tag uint64) {
	addr := uintptr(unsafe.Pointer(tagged))
	tag = uint64(addr >> (64 - tagBits))
	real := addr &^ (uintptr((1<<tagBits)-1) << (64 - tagBits))
	return (*E)(unsafe.Pointer(real)), tag
}
