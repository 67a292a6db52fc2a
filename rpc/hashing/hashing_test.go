// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/fixtures"
	"github.com/bitmark-inc/ashmaize/rom"
	"github.com/bitmark-inc/ashmaize/rpc/hashing"
)

// the returned function must run before the logger is torn down
func newHandler() (*hashing.Hash, func()) {
	registry := cache.New(
		logger.New(fixtures.LogCategory),
		cache.Parameters{Size: fixtures.ROMSize, Generation: rom.FullRandom()},
		time.Minute,
	)
	return hashing.New(logger.New(fixtures.LogCategory), registry, fixtures.ROMKey), registry.Flush
}

func TestCompute(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h, flush := newHandler()
	defer flush()

	r, err := fixtures.NewROM()
	assert.Nil(t, err, "wrong NewROM")
	defer r.Close()

	expected, _ := r.Hash("hello")

	var reply hashing.ComputeReply
	err = h.Compute(&hashing.ComputeArguments{Preimage: "hello"}, &reply)
	assert.Nil(t, err, "wrong Compute")
	assert.Equal(t, expected, reply.Digest, "wrong digest")
	assert.Equal(t, 128, len(reply.Digest), "wrong digest length")

	// explicit key and tuning
	expected, _ = r.HashWithParams("hello", 2, 64)
	err = h.Compute(&hashing.ComputeArguments{Key: fixtures.ROMKey, Preimage: "hello", Loops: 2, Instructions: 64}, &reply)
	assert.Nil(t, err, "wrong Compute")
	assert.Equal(t, expected, reply.Digest, "wrong tuned digest")

	assert.Equal(t, uint64(2), h.Hashes(), "wrong hash count")
}

func TestComputeInvalidPreimage(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h, flush := newHandler()
	defer flush()

	var reply hashing.ComputeReply
	err := h.Compute(&hashing.ComputeArguments{Preimage: "\xff\xfe"}, &reply)
	assert.Equal(t, fault.ErrInvalidPreimage, err, "wrong error")
	assert.Equal(t, uint64(0), h.Hashes(), "failed call was counted")
}

func TestBatch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h, flush := newHandler()
	defer flush()

	r, err := fixtures.NewROM()
	assert.Nil(t, err, "wrong NewROM")
	defer r.Close()

	preimages := []string{"a", "b", "c", "a"}
	expected, _ := r.HashBatch(preimages)

	var reply hashing.BatchReply
	err = h.Batch(&hashing.BatchArguments{Preimages: preimages}, &reply)
	assert.Nil(t, err, "wrong Batch")
	assert.Equal(t, expected, reply.Digests, "wrong digests")
	assert.Equal(t, reply.Digests[0], reply.Digests[3], "duplicate preimages differ")
	assert.Equal(t, uint64(len(preimages)), h.Hashes(), "wrong hash count")
}

func TestBatchEmpty(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h, flush := newHandler()
	defer flush()

	var reply hashing.BatchReply
	err := h.Batch(&hashing.BatchArguments{}, &reply)
	assert.Nil(t, err, "wrong Batch")
	assert.NotNil(t, reply.Digests, "nil digests")
	assert.Equal(t, 0, len(reply.Digests), "wrong digest count")
}

func TestBatchTooMany(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h, flush := newHandler()
	defer flush()

	var reply hashing.BatchReply
	err := h.Batch(&hashing.BatchArguments{Preimages: make([]string, 1001)}, &reply)
	assert.Equal(t, fault.InvalidCount, err, "wrong error")
}

func TestBatchOneInvalid(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h, flush := newHandler()
	defer flush()

	var reply hashing.BatchReply
	err := h.Batch(&hashing.BatchArguments{Preimages: []string{"ok", "\xc3\x28"}}, &reply)
	assert.Equal(t, fault.ErrInvalidPreimage, err, "wrong error")
	assert.Nil(t, reply.Digests, "partial result returned")
}

type failingTables struct{}

func (failingTables) Get(_ context.Context, _ string) (*ashmaize.ROM, error) {
	return nil, fault.ErrROMAllocation
}

func TestComputeTableError(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	h := hashing.New(logger.New(fixtures.LogCategory), failingTables{}, "key")

	var reply hashing.ComputeReply
	err := h.Compute(&hashing.ComputeArguments{Preimage: "x"}, &reply)
	assert.Equal(t, fault.ErrROMAllocation, err, "wrong error")
}

func TestOversizedTuning(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	// refused before any table is requested
	h := hashing.New(logger.New(fixtures.LogCategory), failingTables{}, "key")

	var reply hashing.ComputeReply
	err := h.Compute(&hashing.ComputeArguments{Preimage: "x", Loops: 65}, &reply)
	assert.Equal(t, fault.InvalidLoopCount, err, "wrong loop error")

	var batch hashing.BatchReply
	err = h.Batch(&hashing.BatchArguments{Preimages: []string{"x"}, Instructions: 4097}, &batch)
	assert.Equal(t, fault.InvalidInstructionCount, err, "wrong instruction error")
	assert.Zero(t, h.Hashes(), "refused call was counted")
}
