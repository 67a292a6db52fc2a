// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/ashmaize/rpc/hashing"
)

// Hash - digest of one preimage
func (client *Client) Hash(preimage string, loops uint32, instructions uint32) (string, error) {
	arguments := hashing.ComputeArguments{
		Key:          client.key,
		Preimage:     preimage,
		Loops:        loops,
		Instructions: instructions,
	}
	var reply hashing.ComputeReply
	if err := client.call("Hash.Compute", &arguments, &reply); nil != err {
		return "", err
	}
	return reply.Digest, nil
}

// HashBatch - digests in request order
func (client *Client) HashBatch(preimages []string, loops uint32, instructions uint32) ([]string, error) {
	arguments := hashing.BatchArguments{
		Key:          client.key,
		Preimages:    preimages,
		Loops:        loops,
		Instructions: instructions,
	}
	var reply hashing.BatchReply
	if err := client.call("Hash.Batch", &arguments, &reply); nil != err {
		return nil, err
	}
	return reply.Digests, nil
}
