// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rom

import (
	"encoding/binary"
	"math/bits"
)

// xoshiro256++ selects the pre-buffer lines mixed into each output line
type xoshiro struct {
	s0 uint64
	s1 uint64
	s2 uint64
	s3 uint64
}

func newXoshiro(seed []byte) *xoshiro {
	x := &xoshiro{
		s0: binary.LittleEndian.Uint64(seed[0:8]),
		s1: binary.LittleEndian.Uint64(seed[8:16]),
		s2: binary.LittleEndian.Uint64(seed[16:24]),
		s3: binary.LittleEndian.Uint64(seed[24:32]),
	}
	// an all zero state never leaves zero
	if 0 == x.s0|x.s1|x.s2|x.s3 {
		x.s0 = 0x9e3779b97f4a7c15
	}
	return x
}

func (x *xoshiro) Uint64() uint64 {
	res := bits.RotateLeft64(x.s0+x.s3, 23) + x.s0
	t := x.s1 << 17
	x.s2 ^= x.s0
	x.s3 ^= x.s1
	x.s1 ^= x.s2
	x.s0 ^= x.s3

	x.s2 ^= t
	x.s3 = bits.RotateLeft64(x.s3, 45)
	return res
}
