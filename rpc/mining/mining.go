// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining - Mine.Batch, Mine.Verify and Mine.Solution RPCs
package mining

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/proof"
	"github.com/bitmark-inc/ashmaize/rpc/ratelimit"
	"github.com/bitmark-inc/ashmaize/storage"
)

const (
	rateLimitMine = 20
	rateBurstMine = 40
)

// largest batch a single call may search
const maximumBatchSize = 1 << 20

// job name for solutions found through RPC
const rpcJob = "rpc"

// Tables - source of ROMs by key
type Tables interface {
	Get(ctx context.Context, key string) (*ashmaize.ROM, error)
}

// Mine - type for RPC calls
type Mine struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	Tables     Tables
	DefaultKey string
	Pool       storage.Handle
	batches    counter.Counter
	candidates counter.Counter
	solutions  counter.Counter
}

// New - mining RPC handler; solutions are stored in pool when it is not nil
func New(log *logger.L, tables Tables, defaultKey string, pool storage.Handle) *Mine {
	return &Mine{
		Log:        log,
		Limiter:    rate.NewLimiter(rateLimitMine, rateBurstMine),
		Tables:     tables,
		DefaultKey: defaultKey,
		Pool:       pool,
	}
}

// Batches - number of batches searched
func (mine *Mine) Batches() uint64 {
	return mine.batches.Uint64()
}

// Candidates - total batch sizes requested
func (mine *Mine) Candidates() uint64 {
	return mine.candidates.Uint64()
}

// Solutions - number of batches that found a salt
func (mine *Mine) Solutions() uint64 {
	return mine.solutions.Uint64()
}

// ---

// BatchArguments - arguments for RPC
type BatchArguments struct {
	Key            string          `json:"key"`
	PreimageStatic string          `json:"preimageStatic"`
	Mask           difficulty.Mask `json:"mask"`
	BatchSize      uint32          `json:"batchSize"`
}

// BatchReply - result from RPC
type BatchReply struct {
	Found  bool   `json:"found"`
	Salt   string `json:"salt"`
	Digest string `json:"digest,omitempty"`
}

// Batch - search one batch of random nonces
//
// not finding a salt is a normal reply with found false
func (mine *Mine) Batch(arguments *BatchArguments, reply *BatchReply) error {

	if err := ratelimit.Limit(mine.Limiter); nil != err {
		return err
	}

	if arguments.BatchSize > maximumBatchSize {
		return fault.BatchTooLarge
	}

	key := mine.key(arguments.Key)
	r, err := mine.Tables.Get(context.Background(), key)
	if nil != err {
		return err
	}
	defer r.Close()

	result, err := r.MineBatchContext(context.Background(), arguments.PreimageStatic, arguments.Mask, arguments.BatchSize)
	if nil != err {
		return err
	}
	mine.batches.Increment()
	mine.candidates.Add(uint64(arguments.BatchSize))

	reply.Found = result.Found
	reply.Salt = result.Salt
	if !result.Found {
		return nil
	}

	mine.solutions.Increment()
	reply.Digest = result.Digest.String()

	if nil != mine.Pool {
		solution := proof.Solution{
			Job:            rpcJob,
			Key:            key,
			PreimageStatic: arguments.PreimageStatic,
			Mask:           arguments.Mask,
			Salt:           result.Salt,
			Digest:         result.Digest,
			Timestamp:      time.Now().UTC(),
		}
		if err := proof.Record(mine.Pool, solution); nil != err {
			mine.Log.Errorf("record solution for key: %q  error: %s", key, err)
		}
	}
	mine.Log.Infof("solution key: %q  mask: %s  salt: %q", key, arguments.Mask, result.Salt)

	return nil
}

// ---

// VerifyArguments - arguments for RPC
type VerifyArguments struct {
	Key  string          `json:"key"`
	Salt string          `json:"salt"`
	Mask difficulty.Mask `json:"mask"`
}

// VerifyReply - result from RPC
type VerifyReply struct {
	Valid  bool   `json:"valid"`
	Digest string `json:"digest"`
}

// Verify - recompute the digest of a salt and test it against mask
func (mine *Mine) Verify(arguments *VerifyArguments, reply *VerifyReply) error {

	if err := ratelimit.Limit(mine.Limiter); nil != err {
		return err
	}

	r, err := mine.Tables.Get(context.Background(), mine.key(arguments.Key))
	if nil != err {
		return err
	}
	defer r.Close()

	d, ok, err := r.Verify(arguments.Salt, uint32(arguments.Mask))
	if nil != err {
		return err
	}

	reply.Valid = ok
	reply.Digest = d
	return nil
}

// ---

// SolutionArguments - arguments for RPC
type SolutionArguments struct {
	Key            string          `json:"key"`
	PreimageStatic string          `json:"preimageStatic"`
	Mask           difficulty.Mask `json:"mask"`
}

// SolutionReply - result from RPC
type SolutionReply struct {
	Job       string        `json:"job"`
	Salt      string        `json:"salt"`
	Digest    digest.Digest `json:"digest"`
	Timestamp time.Time     `json:"timestamp"`
}

// Solution - the stored solution for a challenge
func (mine *Mine) Solution(arguments *SolutionArguments, reply *SolutionReply) error {

	if err := ratelimit.Limit(mine.Limiter); nil != err {
		return err
	}

	if nil == mine.Pool {
		return fault.DatabaseIsNotSet
	}

	solution, found := proof.Lookup(mine.Pool, mine.key(arguments.Key), arguments.PreimageStatic, arguments.Mask)
	if !found {
		return fault.KeyNotFound
	}

	reply.Job = solution.Job
	reply.Salt = solution.Salt
	reply.Digest = solution.Digest
	reply.Timestamp = solution.Timestamp
	return nil
}

func (mine *Mine) key(key string) string {
	if "" == key {
		return mine.DefaultKey
	}
	return key
}
