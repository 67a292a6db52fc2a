// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/rpc/mining"
)

// MineBatch - one remote batch
func (client *Client) MineBatch(preimageStatic string, mask difficulty.Mask, batchSize uint32) (*mining.BatchReply, error) {
	arguments := mining.BatchArguments{
		Key:            client.key,
		PreimageStatic: preimageStatic,
		Mask:           mask,
		BatchSize:      batchSize,
	}
	var reply mining.BatchReply
	if err := client.call("Mine.Batch", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Verify - remote digest of a salt and whether it meets mask
func (client *Client) Verify(salt string, mask difficulty.Mask) (*mining.VerifyReply, error) {
	arguments := mining.VerifyArguments{
		Key:  client.key,
		Salt: salt,
		Mask: mask,
	}
	var reply mining.VerifyReply
	if err := client.call("Mine.Verify", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// Solution - a solution the daemon has stored
func (client *Client) Solution(preimageStatic string, mask difficulty.Mask) (*mining.SolutionReply, error) {
	arguments := mining.SolutionArguments{
		Key:            client.key,
		PreimageStatic: preimageStatic,
		Mask:           mask,
	}
	var reply mining.SolutionReply
	if err := client.call("Mine.Solution", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
