// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package difficulty - the mask test applied to a digest prefix
//
// A digest is accepted when every bit set in its first four bytes
// (read big endian) is also set in the mask, so each zero bit in the
// mask forces the corresponding prefix bit to zero.
package difficulty

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/fault"
)

// Mask - a 32 bit difficulty mask
type Mask uint32

// Any - the mask accepted by every digest
const Any = Mask(0xffffffff)

// Meets - the subset test: (prefix | mask) == mask
func (mask Mask) Meets(prefix uint32) bool {
	return (prefix | uint32(mask)) == uint32(mask)
}

// MeetsDigest - apply the mask to a digest's big endian prefix
func (mask Mask) MeetsDigest(d digest.Digest) bool {
	return mask.Meets(d.Prefix())
}

// FromZeroBits - mask requiring the n leading prefix bits to be zero
func FromZeroBits(n int) Mask {
	if n <= 0 {
		return Any
	}
	if n >= 32 {
		return 0
	}
	return Mask(uint32(0xffffffff) >> uint(n))
}

// ZeroBits - number of prefix bits forced to zero
func (mask Mask) ZeroBits() int {
	return 32 - bits.OnesCount32(uint32(mask))
}

// Probability - chance that a uniformly random digest meets the mask
func (mask Mask) Probability() float64 {
	return math.Ldexp(1, -mask.ZeroBits())
}

// ExpectedAttempts - mean number of candidates needed for one success
func (mask Mask) ExpectedAttempts() float64 {
	return 1 / mask.Probability()
}

// String - 8 hex digits for use by the fmt package
func (mask Mask) String() string {
	return fmt.Sprintf("%08x", uint32(mask))
}

// ParseMask - accepts "000fffff", "0x000FFFFF" or a decimal value
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	} else if 8 != len(s) {
		n, err := strconv.ParseUint(s, 10, 32)
		if nil != err {
			return 0, fault.InvalidDifficultyMask
		}
		return Mask(n), nil
	}
	if 0 == len(s) || len(s) > 8 {
		return 0, fault.InvalidDifficultyMask
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if nil != err {
		return 0, fault.InvalidDifficultyMask
	}
	return Mask(n), nil
}

// MarshalText - convert mask to 8 hex digits
func (mask Mask) MarshalText() ([]byte, error) {
	b := []byte{byte(mask >> 24), byte(mask >> 16), byte(mask >> 8), byte(mask)}
	buffer := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(buffer, b)
	return buffer, nil
}

// UnmarshalText - parse hex text into a mask
func (mask *Mask) UnmarshalText(s []byte) error {
	m, err := ParseMask(string(s))
	if nil != err {
		return err
	}
	*mask = m
	return nil
}
