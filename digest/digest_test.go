// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/fault"
)

func sample() digest.Digest {
	var d digest.Digest
	for i := range d {
		d[i] = byte(i * 3)
	}
	return d
}

func TestPrefix(t *testing.T) {
	var d digest.Digest
	d[0] = 0x00
	d[1] = 0x0f
	d[2] = 0xff
	d[3] = 0x12
	d[4] = 0xee
	assert.Equal(t, uint32(0x000fff12), d.Prefix())
}

func TestString(t *testing.T) {
	d := sample()
	s := d.String()
	assert.Equal(t, 128, len(s))
	assert.Equal(t, strings.ToLower(s), s)
	assert.True(t, strings.HasPrefix(s, "000306090c0f"), "actual: %s", s)

	assert.Equal(t, "<AshMaize:"+s+">", fmt.Sprintf("%#v", d))
}

func TestFromHex(t *testing.T) {
	d := sample()
	p, err := digest.FromHex(d.String())
	assert.Nil(t, err)
	assert.Equal(t, d, p)

	_, err = digest.FromHex("abcd")
	assert.Equal(t, fault.DigestLengthInvalid, err)

	_, err = digest.FromHex(strings.Repeat("zz", digest.Length))
	assert.Equal(t, fault.CannotDecodeHex, err)
}

func TestScan(t *testing.T) {
	d := sample()
	var scanned digest.Digest
	n, err := fmt.Sscan(strings.ToUpper(d.String()), &scanned)
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, d, scanned)
}

func TestJSON(t *testing.T) {
	item := struct {
		Digest digest.Digest `json:"digest"`
	}{
		Digest: sample(),
	}
	buffer, err := json.Marshal(item)
	assert.Nil(t, err)
	assert.Equal(t, `{"digest":"`+item.Digest.String()+`"}`, string(buffer))

	item.Digest = digest.Digest{}
	err = json.Unmarshal(buffer, &item)
	assert.Nil(t, err)
	assert.Equal(t, sample(), item.Digest)
}

func TestFromBytes(t *testing.T) {
	var d digest.Digest
	err := digest.FromBytes(&d, make([]byte, 32))
	assert.Equal(t, fault.DigestLengthInvalid, err)

	s := sample()
	err = digest.FromBytes(&d, s[:])
	assert.Nil(t, err)
	assert.Equal(t, s, d)
}
