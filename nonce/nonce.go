// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nonce - mining candidates and the salts built from them
//
// A salt is the hex of the nonce's 8 little endian bytes (16
// characters) followed by the static preimage.
package nonce

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"

	"github.com/bitmark-inc/ashmaize/fault"
)

// HexLength - number of characters a nonce occupies at the start of a salt
const HexLength = 16

// Nonce - a 64 bit mining candidate
type Nonce uint64

// Hex - little endian hex, 16 characters
func (nonce Nonce) Hex() string {
	bits := make([]byte, 8)
	binary.LittleEndian.PutUint64(bits, uint64(nonce))
	return hex.EncodeToString(bits)
}

// Salt - the nonce prefix followed by the static preimage
func (nonce Nonce) Salt(preimageStatic string) string {
	return nonce.Hex() + preimageStatic
}

// MarshalText - little endian hex for JSON
func (nonce Nonce) MarshalText() ([]byte, error) {
	return []byte(nonce.Hex()), nil
}

// UnmarshalText - parse the little endian hex form
func (nonce *Nonce) UnmarshalText(s []byte) error {
	n, err := FromHex(string(s))
	if nil != err {
		return err
	}
	*nonce = n
	return nil
}

// FromHex - parse 16 hex characters as a little endian nonce
func FromHex(s string) (Nonce, error) {
	if HexLength != len(s) {
		return 0, fault.InvalidNonce
	}
	buffer := make([]byte, 8)
	if _, err := hex.Decode(buffer, []byte(s)); nil != err {
		return 0, fault.InvalidNonce
	}
	return Nonce(binary.LittleEndian.Uint64(buffer)), nil
}

// Split - separate a salt into its nonce and static preimage
func Split(salt string) (Nonce, string, error) {
	if len(salt) < HexLength {
		return 0, "", fault.InvalidSalt
	}
	n, err := FromHex(salt[:HexLength])
	if nil != err {
		return 0, "", fault.InvalidSalt
	}
	return n, salt[HexLength:], nil
}

// Base - the first nonce of a batch; candidate i is Base + i
//
// offsets are below 2^32 so the candidates of one batch never repeat
type Base Nonce

// NewBase - draw an unpredictable base for one batch
func NewBase() (Base, error) {
	buffer := make([]byte, 8)
	if _, err := rand.Read(buffer); nil != err {
		return 0, err
	}
	return Base(binary.LittleEndian.Uint64(buffer)), nil
}

// At - the i-th candidate, wrapping modulo 2^64
func (base Base) At(i uint32) Nonce {
	return Nonce(uint64(base) + uint64(i))
}
