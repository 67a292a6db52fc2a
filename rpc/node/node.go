// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"runtime"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Statistics - the counters reported by Info
type Statistics interface {
	ROMParameters() string
	CachedROMs() int
	BuiltROMs() uint64
	Hashes() uint64
	Batches() uint64
	Solutions() uint64
}

// Node - type for RPC calls
type Node struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	Start      time.Time
	Version    string
	Statistics Statistics
	counter    *counter.Counter
}

func New(log *logger.L, start time.Time, version string, counter *counter.Counter, statistics Statistics) *Node {
	return &Node{
		Log:        log,
		Limiter:    rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:      start,
		Version:    version,
		Statistics: statistics,
		counter:    counter,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Version string    `json:"version"`
	Uptime  string    `json:"uptime"`
	RPCs    uint64    `json:"rpcs"`
	CPUs    int       `json:"cpus"`
	ROM     ROMInfo   `json:"rom"`
	Miner   MinerInfo `json:"miner"`
	Hashes  uint64    `json:"hashes"`
}

// ROMInfo - table generation settings and registry state
type ROMInfo struct {
	Parameters string `json:"parameters"`
	Cached     int    `json:"cached"`
	Built      uint64 `json:"built"`
}

// MinerInfo - batch counts
type MinerInfo struct {
	Batches   uint64 `json:"batches"`
	Solutions uint64 `json:"solutions"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	reply.RPCs = node.counter.Uint64()
	reply.CPUs = runtime.NumCPU()

	if nil != node.Statistics {
		reply.ROM = ROMInfo{
			Parameters: node.Statistics.ROMParameters(),
			Cached:     node.Statistics.CachedROMs(),
			Built:      node.Statistics.BuiltROMs(),
		}
		reply.Miner = MinerInfo{
			Batches:   node.Statistics.Batches(),
			Solutions: node.Statistics.Solutions(),
		}
		reply.Hashes = node.Statistics.Hashes()
	}
	return nil
}
