// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - registers every RPC handler on one net/rpc server
package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/rpc/hashing"
	"github.com/bitmark-inc/ashmaize/rpc/mining"
	"github.com/bitmark-inc/ashmaize/rpc/node"
	"github.com/bitmark-inc/ashmaize/storage"
)

// Services - the registered handlers
type Services struct {
	Hash *hashing.Hash
	Mine *mining.Mine
	Node *node.Node
}

// Create - a server with Hash, Mine and Node registered
//
// requests without a key use defaultKey; pool may be nil to disable
// solution storage
func Create(log *logger.L, version string, rpcCount *counter.Counter, registry *cache.Registry, defaultKey string, pool storage.Handle) (*rpc.Server, *Services) {

	start := time.Now().UTC()

	services := &Services{
		Hash: hashing.New(log, registry, defaultKey),
		Mine: mining.New(log, registry, defaultKey, pool),
	}
	services.Node = node.New(log, start, version, rpcCount, &statistics{
		registry: registry,
		hash:     services.Hash,
		mine:     services.Mine,
	})

	server := rpc.NewServer()

	_ = server.Register(services.Hash)
	_ = server.Register(services.Mine)
	_ = server.Register(services.Node)

	return server, services
}

type statistics struct {
	registry *cache.Registry
	hash     *hashing.Hash
	mine     *mining.Mine
}

func (s *statistics) ROMParameters() string {
	return s.registry.Parameters().String()
}

func (s *statistics) CachedROMs() int {
	return s.registry.Count()
}

func (s *statistics) BuiltROMs() uint64 {
	return s.registry.Builds()
}

func (s *statistics) Hashes() uint64 {
	return s.hash.Hashes()
}

func (s *statistics) Batches() uint64 {
	return s.mine.Batches()
}

func (s *statistics) Solutions() uint64 {
	return s.mine.Solutions()
}
