// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package batch - hash many preimages against one ROM in parallel
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/engine"
	"github.com/bitmark-inc/ashmaize/rom"
)

// Hash - digest of every preimage, result[i] belongs to preimages[i]
//
// workers <= 0 uses one goroutine per processor; every element is
// evaluated, there is no early exit except cancellation
func Hash(ctx context.Context, r *rom.ROM, preimages [][]byte, loops uint32, instructions uint32, workers int) ([]digest.Digest, error) {
	results := make([]digest.Digest, len(preimages))
	if 0 == len(preimages) {
		return results, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range preimages {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); nil != err {
				return err
			}
			results[i] = engine.Hash(preimages[i], r, loops, instructions)
			return nil
		})
	}

	if err := g.Wait(); nil != err {
		return nil, err
	}
	return results, nil
}
