// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server_test

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/fixtures"
	"github.com/bitmark-inc/ashmaize/rom"
	"github.com/bitmark-inc/ashmaize/rpc/hashing"
	"github.com/bitmark-inc/ashmaize/rpc/mining"
	"github.com/bitmark-inc/ashmaize/rpc/node"
	"github.com/bitmark-inc/ashmaize/rpc/server"
)

var address string

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()

	registry := cache.New(
		logger.New(fixtures.LogCategory),
		cache.Parameters{Size: fixtures.ROMSize, Generation: rom.FullRandom()},
		time.Minute,
	)

	c := counter.Counter(0)
	r, _ := server.Create(logger.New(fixtures.LogCategory), "1.0", &c, registry, fixtures.ROMKey, nil)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if nil != err {
		panic(err)
	}
	address = l.Addr().String()

	go func() {
		for {
			conn, err := l.Accept()
			if nil != err {
				return
			}
			go r.ServeCodec(jsonrpc.NewServerCodec(conn))
		}
	}()

	rc := m.Run()

	_ = l.Close()
	registry.Flush()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func dial(t *testing.T) *rpc.Client {
	conn, err := net.Dial("tcp", address)
	if nil != err {
		t.Fatalf("dial error: %s", err)
	}
	return jsonrpc.NewClient(conn)
}

// each call checks the handler is registered under the expected name

func TestHashCompute(t *testing.T) {
	client := dial(t)
	defer client.Close()

	var reply hashing.ComputeReply
	err := client.Call("Hash.Compute", &hashing.ComputeArguments{Preimage: "abc"}, &reply)
	assert.Nil(t, err, "wrong Hash.Compute")
	assert.Equal(t, 128, len(reply.Digest), "wrong digest")
}

func TestHashBatch(t *testing.T) {
	client := dial(t)
	defer client.Close()

	var reply hashing.BatchReply
	err := client.Call("Hash.Batch", &hashing.BatchArguments{Preimages: make([]string, 2000)}, &reply)
	assert.NotNil(t, err, "wrong Hash.Batch")
	assert.Equal(t, fault.InvalidCount.Error(), err.Error(), "wrong reply")
}

func TestMineBatch(t *testing.T) {
	client := dial(t)
	defer client.Close()

	var reply mining.BatchReply
	err := client.Call("Mine.Batch", &mining.BatchArguments{PreimageStatic: "s", Mask: difficulty.Any, BatchSize: 4}, &reply)
	assert.Nil(t, err, "wrong Mine.Batch")
	assert.True(t, reply.Found, "any mask not found")

	var verify mining.VerifyReply
	err = client.Call("Mine.Verify", &mining.VerifyArguments{Salt: reply.Salt, Mask: difficulty.Any}, &verify)
	assert.Nil(t, err, "wrong Mine.Verify")
	assert.True(t, verify.Valid, "solution did not verify")
}

func TestMineSolution(t *testing.T) {
	client := dial(t)
	defer client.Close()

	var reply mining.SolutionReply
	err := client.Call("Mine.Solution", &mining.SolutionArguments{PreimageStatic: "s"}, &reply)
	assert.NotNil(t, err, "wrong Mine.Solution")
	assert.Equal(t, fault.DatabaseIsNotSet.Error(), err.Error(), "wrong reply")
}

func TestNodeInfo(t *testing.T) {
	client := dial(t)
	defer client.Close()

	var reply node.InfoReply
	err := client.Call("Node.Info", &node.InfoArguments{}, &reply)
	assert.Nil(t, err, "wrong Node.Info")
	assert.Equal(t, "1.0", reply.Version, "wrong version")
	assert.Equal(t, "64KiB full-random", reply.ROM.Parameters, "wrong rom parameters")
}
