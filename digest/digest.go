// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest - the 64 byte output of the hash engine
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/bitmark-inc/ashmaize/fault"
)

// Length - number of bytes in the digest
const Length = 64

// Digest - type for a digest
// stored and printed in natural byte order
type Digest [Length]byte

// Prefix - the first four bytes as a big endian integer,
// the value tested against a difficulty mask
func (digest Digest) Prefix() uint32 {
	return binary.BigEndian.Uint32(digest[:4])
}

// String - lower case hex for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<AshMaize:" + hex.EncodeToString(digest[:]) + ">"
}

// Scan - convert a hex representation to a digest for use by the format package scan routines
func (digest *Digest) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, func(c rune) bool {
		if c >= '0' && c <= '9' {
			return true
		}
		if c >= 'A' && c <= 'F' {
			return true
		}
		if c >= 'a' && c <= 'f' {
			return true
		}
		return false
	})
	if nil != err {
		return err
	}
	return digest.fromHex(token)
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(digest)))
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	return digest.fromHex(s)
}

func (digest *Digest) fromHex(s []byte) error {
	if hex.EncodedLen(Length) != len(s) {
		return fault.DigestLengthInvalid
	}
	if _, err := hex.Decode(digest[:], s); nil != err {
		return fault.CannotDecodeHex
	}
	return nil
}

// FromBytes - convert and validate a binary byte slice to a digest
func FromBytes(digest *Digest, buffer []byte) error {
	if Length != len(buffer) {
		return fault.DigestLengthInvalid
	}
	copy(digest[:], buffer)
	return nil
}

// FromHex - parse the hex wire form
func FromHex(s string) (Digest, error) {
	var d Digest
	err := d.fromHex([]byte(s))
	return d, err
}
