// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ashmaize

import (
	"context"
	"unicode/utf8"

	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/mine"
)

// MeetsDifficulty - the subset test on a 32 bit digest prefix
func MeetsDifficulty(prefix uint32, mask uint32) bool {
	return difficulty.Mask(mask).Meets(prefix)
}

// MineBatch - salt of the first candidate meeting mask, or "" if none did
func (r *ROM) MineBatch(preimageStatic string, mask uint32, batchSize uint32) (string, error) {
	result, err := r.MineBatchContext(context.Background(), preimageStatic, difficulty.Mask(mask), batchSize)
	if nil != err {
		return "", err
	}
	return result.Salt, nil
}

// MineBatchContext - full result of one batch, stopping on cancellation
func (r *ROM) MineBatchContext(ctx context.Context, preimageStatic string, mask difficulty.Mask, batchSize uint32) (mine.Result, error) {
	if !utf8.ValidString(preimageStatic) {
		return mine.NotFound, fault.ErrInvalidPreimage
	}
	_, done, err := r.acquire()
	if nil != err {
		return mine.NotFound, err
	}
	defer done()
	return r.miner.Batch(ctx, r.handle, preimageStatic, mask, batchSize)
}

// Verify - hex digest of salt and whether it meets mask
func (r *ROM) Verify(salt string, mask uint32) (string, bool, error) {
	if !utf8.ValidString(salt) {
		return "", false, fault.ErrInvalidPreimage
	}

	t, done, err := r.acquire()
	if nil != err {
		return "", false, err
	}
	defer done()

	d, ok := mine.Verify(t, salt, difficulty.Mask(mask))
	return d.String(), ok, nil
}
