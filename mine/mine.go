// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mine - parallel search for a salt whose digest meets a mask
package mine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/engine"
	"github.com/bitmark-inc/ashmaize/nonce"
	"github.com/bitmark-inc/ashmaize/rom"
)

// Result - outcome of one batch
type Result struct {
	Salt   string        `json:"salt"`
	Digest digest.Digest `json:"digest"`
	Found  bool          `json:"found"`
}

// NotFound - a batch in which no candidate met the mask
var NotFound = Result{}

// Miner - shares a pool size and a hash count across batches
type Miner struct {
	threads atomic.Int32
	hashes  counter.Counter
	batches counter.Counter
	found   counter.Counter
}

// New - miner using up to threads goroutines per batch,
// threads <= 0 means one per processor
func New(threads int) *Miner {
	m := &Miner{}
	m.SetThreads(threads)
	return m
}

// SetThreads - change the pool size for subsequent batches
func (m *Miner) SetThreads(threads int) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	m.threads.Store(int32(threads))
}

// Threads - current pool size
func (m *Miner) Threads() int {
	return int(m.threads.Load())
}

// Hashes - total digests computed
func (m *Miner) Hashes() uint64 {
	return m.hashes.Uint64()
}

// Batches - total batches run
func (m *Miner) Batches() uint64 {
	return m.batches.Uint64()
}

// Solutions - total batches that found a salt
func (m *Miner) Solutions() uint64 {
	return m.found.Uint64()
}

// Batch - try up to batchSize candidates against the mask
//
// candidate i is salt(base + i) for one random base per call; the
// first worker to succeed stops the others. Exhausting the batch
// returns NotFound with a nil error; retrying is up to the caller.
func (m *Miner) Batch(ctx context.Context, h *rom.Handle, preimageStatic string, mask difficulty.Mask, batchSize uint32) (Result, error) {

	r, done, err := h.Acquire()
	if nil != err {
		return NotFound, err
	}
	defer done()

	m.batches.Increment()

	if 0 == batchSize {
		return NotFound, nil
	}

	base, err := nonce.NewBase()
	if nil != err {
		return NotFound, err
	}

	workers := m.Threads()
	if uint64(workers) > uint64(batchSize) {
		workers = int(batchSize)
	}

	var cursor atomic.Uint64
	var stop atomic.Bool
	winner := make(chan Result, 1)

	var wg sync.WaitGroup
	for w := 0; w < workers; w += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				if nil != ctx.Err() {
					return
				}
				i := cursor.Add(1) - 1
				if i >= uint64(batchSize) {
					return
				}
				salt := base.At(uint32(i)).Salt(preimageStatic)
				d := engine.Hash([]byte(salt), r, engine.DefaultLoops, engine.DefaultInstructions)
				m.hashes.Increment()
				if mask.MeetsDigest(d) {
					if stop.CompareAndSwap(false, true) {
						winner <- Result{
							Salt:   salt,
							Digest: d,
							Found:  true,
						}
					}
					return
				}
			}
		}()
	}
	wg.Wait()

	select {
	case result := <-winner:
		m.found.Increment()
		return result, nil
	default:
	}

	if err := ctx.Err(); nil != err {
		return NotFound, err
	}
	return NotFound, nil
}

// Verify - recompute a salt's digest and test it
func Verify(r *rom.ROM, salt string, mask difficulty.Mask) (digest.Digest, bool) {
	d := engine.Hash([]byte(salt), r, engine.DefaultLoops, engine.DefaultInstructions)
	return d, mask.MeetsDigest(d)
}
