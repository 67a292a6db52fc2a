// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ashmaize/counter"
)

func TestSequence(t *testing.T) {
	var c counter.Counter

	assert.Equal(t, uint64(0), c.Uint64(), "not zero initially")
	assert.Equal(t, uint64(1), c.Increment(), "increment")
	assert.Equal(t, uint64(11), c.Add(10), "add")
	assert.Equal(t, uint64(10), c.Decrement(), "decrement")
	assert.Equal(t, uint64(10), c.Uint64(), "final value")
}

func TestWrap(t *testing.T) {
	var c counter.Counter
	assert.Equal(t, ^uint64(0), c.Decrement(), "decrement below zero")
	assert.Equal(t, uint64(0), c.Increment(), "back to zero")
}

func TestConcurrentTally(t *testing.T) {
	const workers = 8
	const batches = 1000
	const batchSize = 16

	var hashes, active counter.Counter
	var wg sync.WaitGroup

	for w := 0; w < workers; w += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := 0; b < batches; b += 1 {
				active.Increment()
				hashes.Add(batchSize)
				active.Decrement()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*batches*batchSize), hashes.Uint64(), "lost updates")
	assert.Equal(t, uint64(0), active.Uint64(), "unbalanced")
}
