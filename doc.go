// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ashmaize - memory hard hashing and proof of work mining
//
// Build a ROM once from a key, then hash, batch hash and mine against
// it from any number of goroutines:
//
//	r, err := ashmaize.BuildROM(ctx, "challenge key", ashmaize.DefaultROMSize)
//	...
//	defer r.Close()
//	salt, err := r.MineBatch("addr1**challenge", 0x000fffff, 1000)
//
// Digests are returned as lower case hex. MineBatch returns an empty
// salt, not an error, when no candidate in the batch meets the mask.
package ashmaize
