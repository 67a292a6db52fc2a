// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rom_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/rom"
)

func TestHandleLifetime(t *testing.T) {
	r := build(t, "handle", rom.FullRandom(), 4096)
	h := rom.Share(r)
	assert.Equal(t, int64(1), h.References())

	err := h.Retain()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), h.References())

	h.Release()
	assert.False(t, h.Released())

	got, done, err := h.Acquire()
	assert.Nil(t, err)
	assert.Equal(t, r, got)

	// owner lets go while an operation still holds the table
	h.Release()
	assert.False(t, h.Released())
	assert.Equal(t, r.Digest(), got.Digest())

	done()
	assert.True(t, h.Released())

	_, _, err = h.Acquire()
	assert.Equal(t, fault.ErrROMReleased, err)
	assert.Equal(t, fault.ErrROMReleased, h.Retain())

	// extra releases do nothing
	h.Release()
	assert.Equal(t, int64(0), h.References())
}

func TestHandleDoneOnce(t *testing.T) {
	r := build(t, "done once", rom.FullRandom(), 4096)
	h := rom.Share(r)

	_, done, err := h.Acquire()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), h.References())

	done()
	done()
	assert.Equal(t, int64(1), h.References(), "second done dropped the owner reference")
	assert.False(t, h.Released())

	h.Release()
	assert.True(t, h.Released())
}

func TestHandleConcurrent(t *testing.T) {
	r := build(t, "concurrent", rom.FullRandom(), 4096)
	h := rom.Share(r)

	var wg sync.WaitGroup
	for i := 0; i < 64; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j += 1 {
				got, done, err := h.Acquire()
				if nil != err {
					t.Errorf("acquire error: %s", err)
					return
				}
				_ = got.Line(uint64(j))
				done()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), h.References())
	h.Release()
	assert.True(t, h.Released())
}
