// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rom

import (
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/ashmaize/fault"
)

// Handle - reference counted shared ownership of one ROM
//
// the table stays reachable while the count is above zero; the
// release that takes it to zero drops the table and any later
// Acquire or Retain fails with fault.ErrROMReleased
type Handle struct {
	rom  atomic.Pointer[ROM]
	refs atomic.Int64
}

// Share - wrap a ROM in a handle holding one reference
func Share(r *ROM) *Handle {
	h := &Handle{}
	h.rom.Store(r)
	h.refs.Store(1)
	return h
}

// Retain - add a reference
func (h *Handle) Retain() error {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return fault.ErrROMReleased
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Release - drop a reference; releases after the count reaches zero
// are ignored
func (h *Handle) Release() {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return
		}
		if h.refs.CompareAndSwap(n, n-1) {
			if 1 == n {
				h.rom.Store(nil)
			}
			return
		}
	}
}

// Acquire - retain the ROM for the duration of one operation
//
// the returned function drops this operation's reference; calls after
// the first do nothing
func (h *Handle) Acquire() (*ROM, func(), error) {
	if err := h.Retain(); nil != err {
		return nil, nil, err
	}
	r := h.rom.Load()
	if nil == r {
		h.Release()
		return nil, nil, fault.ErrROMReleased
	}
	var once sync.Once
	return r, func() { once.Do(h.Release) }, nil
}

// References - current reference count
func (h *Handle) References() int64 {
	return h.refs.Load()
}

// Released - true once the last reference is gone
func (h *Handle) Released() bool {
	return h.refs.Load() <= 0
}
