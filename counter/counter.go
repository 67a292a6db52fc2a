// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter - lock free tallies shared between goroutines
package counter

import (
	"sync/atomic"
)

// Counter - hashes computed, batches run, open connections and the like
type Counter uint64

// Increment - returns the new value
func (c *Counter) Increment() uint64 {
	return c.Add(1)
}

// Add - returns the new value
func (c *Counter) Add(n uint64) uint64 {
	return atomic.AddUint64((*uint64)(c), n)
}

// Decrement - returns the new value; wraps below zero
func (c *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(c), ^uint64(0))
}

// Uint64 - current value
func (c *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}
