// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"encoding/binary"
	"encoding/json"

	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/storage"
)

// SolutionKey - storage key: rom key, 0x00, static preimage, 0x00, mask
func SolutionKey(key string, preimageStatic string, mask difficulty.Mask) []byte {
	k := make([]byte, 0, len(key)+len(preimageStatic)+6)
	k = append(k, key...)
	k = append(k, 0)
	k = append(k, preimageStatic...)
	k = append(k, 0)
	return binary.BigEndian.AppendUint32(k, uint32(mask))
}

// Record - store a solution, replacing any earlier one for the same challenge
func Record(pool storage.Handle, solution Solution) error {
	data, err := json.Marshal(solution)
	if nil != err {
		return err
	}
	pool.Put(SolutionKey(solution.Key, solution.PreimageStatic, solution.Mask), data)
	return nil
}

// Lookup - a stored solution for a challenge
func Lookup(pool storage.Handle, key string, preimageStatic string, mask difficulty.Mask) (Solution, bool) {
	data := pool.Get(SolutionKey(key, preimageStatic, mask))
	if nil == data {
		return Solution{}, false
	}
	var solution Solution
	if err := json.Unmarshal(data, &solution); nil != err {
		return Solution{}, false
	}
	return solution, true
}
