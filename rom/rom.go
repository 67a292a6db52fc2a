// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rom - the large read-only table the hash engine reads from
//
// A ROM is derived deterministically from a key and its generation
// parameters, then never modified, so any number of goroutines may
// read it without locking. Sharing between independent owners goes
// through a reference counted Handle.
package rom

import (
	"encoding/binary"
	"fmt"

	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/fault"
)

// LineSize - bytes per addressable ROM line
const LineSize = 64

// default generation parameters
const (
	DefaultSize          = 1 << 30 // 1 GiB
	DefaultPreSize       = 1 << 24 // 16 MiB
	DefaultMixingNumbers = 4
)

// MaximumSize - requests above this fail with an allocation error
const MaximumSize = 1 << 36

// Mode - how the table is filled
type Mode uint8

// generation modes
const (
	ModeFullRandom Mode = iota
	ModeTwoStep
)

func (m Mode) String() string {
	switch m {
	case ModeFullRandom:
		return "full-random"
	case ModeTwoStep:
		return "two-step"
	default:
		return fmt.Sprintf("mode-%d", uint8(m))
	}
}

// Generation - the mode together with its parameters
type Generation struct {
	Mode          Mode
	PreSize       uint64
	MixingNumbers uint32
}

// FullRandom - every byte drawn directly from the key stream
func FullRandom() Generation {
	return Generation{Mode: ModeFullRandom}
}

// TwoStep - a smaller buffer expanded by mixing
func TwoStep(preSize uint64, mixingNumbers uint32) Generation {
	return Generation{
		Mode:          ModeTwoStep,
		PreSize:       preSize,
		MixingNumbers: mixingNumbers,
	}
}

func (g Generation) String() string {
	if ModeTwoStep == g.Mode {
		return fmt.Sprintf("%s(pre=%d,mixing=%d)", g.Mode, g.PreSize, g.MixingNumbers)
	}
	return g.Mode.String()
}

// check the parameters against a final table size
func (g Generation) validate(size uint64) error {
	if 0 == size || 0 != size%LineSize {
		return fault.ErrInvalidROMSize
	}
	if size > MaximumSize {
		return fault.ErrROMAllocation
	}
	switch g.Mode {
	case ModeFullRandom:
		return nil
	case ModeTwoStep:
		if 0 == g.PreSize || 0 != g.PreSize%LineSize || g.PreSize > size {
			return fault.ErrInvalidPreSize
		}
		if g.MixingNumbers < 1 {
			return fault.ErrInvalidMixingNumbers
		}
		return nil
	default:
		return fault.ErrInvalidROMSize
	}
}

// encode the parameters for key stretching
func (g Generation) bytes(size uint64) []byte {
	b := make([]byte, 8+1+8+4)
	binary.LittleEndian.PutUint64(b[0:], size)
	b[8] = byte(g.Mode)
	binary.LittleEndian.PutUint64(b[9:], g.PreSize)
	binary.LittleEndian.PutUint32(b[17:], g.MixingNumbers)
	return b
}

// ROM - an immutable table
type ROM struct {
	data       []byte
	digest     digest.Digest
	generation Generation
}

// Size - number of bytes in the table
func (r *ROM) Size() uint64 {
	return uint64(len(r.data))
}

// LineCount - number of 64 byte lines
func (r *ROM) LineCount() uint64 {
	return uint64(len(r.data)) / LineSize
}

// Line - the 64 byte line at index i modulo the line count
//
// the returned slice aliases the table and must not be written
func (r *ROM) Line(i uint64) []byte {
	n := (i % r.LineCount()) * LineSize
	return r.data[n : n+LineSize : n+LineSize]
}

// Digest - fingerprint of the whole table
func (r *ROM) Digest() digest.Digest {
	return r.digest
}

// Generation - parameters the table was built with
func (r *ROM) Generation() Generation {
	return r.generation
}

func (r *ROM) String() string {
	return fmt.Sprintf("rom[%d %s %x]", len(r.data), r.generation, r.digest[:8])
}
