// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ashmaize

import (
	"context"
	"unicode/utf8"

	"github.com/bitmark-inc/ashmaize/batch"
	"github.com/bitmark-inc/ashmaize/engine"
	"github.com/bitmark-inc/ashmaize/fault"
)

// Hash - hex digest with the default tuning
func (r *ROM) Hash(preimage string) (string, error) {
	return r.HashWithParams(preimage, DefaultLoops, DefaultInstructions)
}

// HashWithParams - hex digest with explicit tuning
func (r *ROM) HashWithParams(preimage string, loops uint32, instructions uint32) (string, error) {
	if !utf8.ValidString(preimage) {
		return "", fault.ErrInvalidPreimage
	}

	t, done, err := r.acquire()
	if nil != err {
		return "", err
	}
	defer done()

	return engine.Hash([]byte(preimage), t, loops, instructions).String(), nil
}

// HashBatch - hex digests in input order with the default tuning
func (r *ROM) HashBatch(preimages []string) ([]string, error) {
	return r.HashBatchContext(context.Background(), preimages, DefaultLoops, DefaultInstructions)
}

// HashBatchWithParams - hex digests in input order with explicit tuning
func (r *ROM) HashBatchWithParams(preimages []string, loops uint32, instructions uint32) ([]string, error) {
	return r.HashBatchContext(context.Background(), preimages, loops, instructions)
}

// HashBatchContext - as HashBatchWithParams, stopping on cancellation
//
// the whole batch fails if any preimage is not valid text
func (r *ROM) HashBatchContext(ctx context.Context, preimages []string, loops uint32, instructions uint32) ([]string, error) {
	input := make([][]byte, len(preimages))
	for i, p := range preimages {
		if !utf8.ValidString(p) {
			return nil, fault.ErrInvalidPreimage
		}
		input[i] = []byte(p)
	}

	t, done, err := r.acquire()
	if nil != err {
		return nil, err
	}
	defer done()

	digests, err := batch.Hash(ctx, t, input, loops, instructions, r.miner.Threads())
	if nil != err {
		return nil, err
	}

	results := make([]string, len(digests))
	for i, d := range digests {
		results[i] = d.String()
	}
	return results, nil
}
