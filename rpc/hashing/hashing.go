// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hashing

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/rpc/ratelimit"
)

const (
	rateLimitHash = 200
	rateBurstHash = 1000
)

// limits for batch count and tuning
const (
	maximumBatch        = 1000
	maximumLoops        = 64
	maximumInstructions = 4096
)

// Tables - source of ROMs by key
type Tables interface {
	Get(ctx context.Context, key string) (*ashmaize.ROM, error)
}

// Hash - type for RPC calls
type Hash struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	Tables     Tables
	DefaultKey string
	hashes     counter.Counter
}

// New - hash RPC handler; an empty key in a request selects defaultKey
func New(log *logger.L, tables Tables, defaultKey string) *Hash {
	return &Hash{
		Log:        log,
		Limiter:    rate.NewLimiter(rateLimitHash, rateBurstHash),
		Tables:     tables,
		DefaultKey: defaultKey,
	}
}

// Hashes - number of digests computed
func (hash *Hash) Hashes() uint64 {
	return hash.hashes.Uint64()
}

// ---

// ComputeArguments - arguments for RPC
type ComputeArguments struct {
	Key          string `json:"key"`
	Preimage     string `json:"preimage"`
	Loops        uint32 `json:"loops"`
	Instructions uint32 `json:"instructions"`
}

// ComputeReply - result from RPC
type ComputeReply struct {
	Digest string `json:"digest"`
}

// Compute - digest of one preimage
func (hash *Hash) Compute(arguments *ComputeArguments, reply *ComputeReply) error {

	if err := ratelimit.Limit(hash.Limiter); nil != err {
		return err
	}

	loops, instructions, err := tuning(arguments.Loops, arguments.Instructions)
	if nil != err {
		return err
	}

	r, err := hash.Tables.Get(context.Background(), hash.key(arguments.Key))
	if nil != err {
		return err
	}
	defer r.Close()

	d, err := r.HashWithParams(arguments.Preimage, loops, instructions)
	if nil != err {
		return err
	}
	hash.hashes.Increment()

	reply.Digest = d
	return nil
}

// ---

// BatchArguments - arguments for RPC
type BatchArguments struct {
	Key          string   `json:"key"`
	Preimages    []string `json:"preimages"`
	Loops        uint32   `json:"loops"`
	Instructions uint32   `json:"instructions"`
}

// BatchReply - result from RPC
type BatchReply struct {
	Digests []string `json:"digests"`
}

// Batch - digests of several preimages, in request order
func (hash *Hash) Batch(arguments *BatchArguments, reply *BatchReply) error {

	count := len(arguments.Preimages)
	if 0 == count {
		if err := ratelimit.Limit(hash.Limiter); nil != err {
			return err
		}
		reply.Digests = []string{}
		return nil
	}

	if err := ratelimit.LimitN(hash.Limiter, count, maximumBatch); nil != err {
		return err
	}

	loops, instructions, err := tuning(arguments.Loops, arguments.Instructions)
	if nil != err {
		return err
	}

	r, err := hash.Tables.Get(context.Background(), hash.key(arguments.Key))
	if nil != err {
		return err
	}
	defer r.Close()

	digests, err := r.HashBatchWithParams(arguments.Preimages, loops, instructions)
	if nil != err {
		return err
	}
	hash.hashes.Add(uint64(len(digests)))

	reply.Digests = digests
	return nil
}

func (hash *Hash) key(key string) string {
	if "" == key {
		return hash.DefaultKey
	}
	return key
}

// zero selects the default
func tuning(loops uint32, instructions uint32) (uint32, uint32, error) {
	if loops > maximumLoops {
		return 0, 0, fault.InvalidLoopCount
	}
	if instructions > maximumInstructions {
		return 0, 0, fault.InvalidInstructionCount
	}
	if 0 == loops {
		loops = ashmaize.DefaultLoops
	}
	if 0 == instructions {
		instructions = ashmaize.DefaultInstructions
	}
	return loops, instructions, nil
}
