// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ashmaize

import (
	"context"
	"sync"

	"github.com/bitmark-inc/ashmaize/engine"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/mine"
	"github.com/bitmark-inc/ashmaize/rom"
)

// defaults
const (
	DefaultROMSize       = rom.DefaultSize
	DefaultPreSize       = rom.DefaultPreSize
	DefaultMixingNumbers = rom.DefaultMixingNumbers
	DefaultLoops         = engine.DefaultLoops
	DefaultInstructions  = engine.DefaultInstructions
)

// ROM - one owner's reference to a shared table
//
// every method is safe for concurrent use; Close drops this reference
// and the table is freed when the last reference and the last
// in-flight operation are gone
type ROM struct {
	handle *rom.Handle
	miner  *mine.Miner

	// held for reading while an operation takes its reference
	lock   sync.RWMutex
	closed bool
}

// BuildROM - table filled directly from the key
func BuildROM(ctx context.Context, key string, size uint64) (*ROM, error) {
	return build(ctx, key, rom.FullRandom(), size)
}

// BuildROMTwoStep - table expanded from a preSize buffer by mixing
func BuildROMTwoStep(ctx context.Context, key string, size uint64, preSize uint64, mixingNumbers uint32) (*ROM, error) {
	return build(ctx, key, rom.TwoStep(preSize, mixingNumbers), size)
}

// BuildROMWithGeneration - either mode from explicit parameters
func BuildROMWithGeneration(ctx context.Context, key string, generation rom.Generation, size uint64) (*ROM, error) {
	return build(ctx, key, generation, size)
}

func build(ctx context.Context, key string, generation rom.Generation, size uint64) (*ROM, error) {
	r, err := rom.New(ctx, []byte(key), generation, size)
	if nil != err {
		return nil, err
	}
	return &ROM{
		handle: rom.Share(r),
		miner:  mine.New(0),
	}, nil
}

// Clone - another reference to the same table
func (r *ROM) Clone() (*ROM, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.closed {
		return nil, fault.ErrROMReleased
	}
	if err := r.handle.Retain(); nil != err {
		return nil, err
	}
	return &ROM{
		handle: r.handle,
		miner:  r.miner,
	}, nil
}

// Close - drop this reference, later calls do nothing
//
// operations started after Close fail with fault.ErrROMReleased even
// while clones keep the table alive; ones already holding the table
// finish normally
func (r *ROM) Close() {
	r.lock.Lock()
	if r.closed {
		r.lock.Unlock()
		return
	}
	r.closed = true
	r.lock.Unlock()
	r.handle.Release()
}

// hold the table for one operation
func (r *ROM) acquire() (*rom.ROM, func(), error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.closed {
		return nil, nil, fault.ErrROMReleased
	}
	return r.handle.Acquire()
}

// Handle - the shared handle, for callers working with the lower level packages
func (r *ROM) Handle() *rom.Handle {
	return r.handle
}

// Miner - counters and pool size shared by all clones
func (r *ROM) Miner() *mine.Miner {
	return r.miner
}

// SetThreads - goroutines used by batch hashing and mining
func (r *ROM) SetThreads(n int) {
	r.miner.SetThreads(n)
}

// Digest - hex fingerprint of the table
func (r *ROM) Digest() (string, error) {
	t, done, err := r.acquire()
	if nil != err {
		return "", err
	}
	defer done()
	return t.Digest().String(), nil
}

// Size - table size in bytes, zero once released
func (r *ROM) Size() uint64 {
	t, done, err := r.acquire()
	if nil != err {
		return 0
	}
	defer done()
	return t.Size()
}

// Generation - mode and parameters used to build the table
func (r *ROM) Generation() (rom.Generation, error) {
	t, done, err := r.acquire()
	if nil != err {
		return rom.Generation{}, err
	}
	defer done()
	return t.Generation(), nil
}
