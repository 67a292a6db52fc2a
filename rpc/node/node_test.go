// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node_test

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/fixtures"
	"github.com/bitmark-inc/ashmaize/rpc/mocks"
	"github.com/bitmark-inc/ashmaize/rpc/node"
)

func TestNodeInfo(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	s := mocks.NewMockStatistics(ctl)
	s.EXPECT().ROMParameters().Return("64KiB full-random").Times(1)
	s.EXPECT().CachedROMs().Return(2).Times(1)
	s.EXPECT().BuiltROMs().Return(uint64(3)).Times(1)
	s.EXPECT().Hashes().Return(uint64(100)).Times(1)
	s.EXPECT().Batches().Return(uint64(4)).Times(1)
	s.EXPECT().Solutions().Return(uint64(1)).Times(1)

	ctr := counter.Counter(5)
	n := node.New(
		logger.New(fixtures.LogCategory),
		time.Now().Add(-time.Minute),
		"1.2",
		&ctr,
		s,
	)

	var reply node.InfoReply
	err := n.Info(&node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong Info")
	assert.Equal(t, "1.2", reply.Version, "wrong version")
	assert.Equal(t, uint64(5), reply.RPCs, "wrong rpc count")
	assert.NotEqual(t, "", reply.Uptime, "missing uptime")
	assert.Equal(t, node.ROMInfo{Parameters: "64KiB full-random", Cached: 2, Built: 3}, reply.ROM, "wrong rom info")
	assert.Equal(t, node.MinerInfo{Batches: 4, Solutions: 1}, reply.Miner, "wrong miner info")
	assert.Equal(t, uint64(100), reply.Hashes, "wrong hash count")
	assert.True(t, reply.CPUs > 0, "wrong cpu count")
}

func TestNodeInfoWithoutStatistics(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctr := counter.Counter(0)
	n := node.New(logger.New(fixtures.LogCategory), time.Now(), "1", &ctr, nil)

	var reply node.InfoReply
	err := n.Info(&node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong Info")
	assert.Equal(t, node.ROMInfo{}, reply.ROM, "unexpected rom info")
}
