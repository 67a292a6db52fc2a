// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/fault"
)

const logName = "client_rpc"

// RPCConfiguration - configuration file data for RPC setup
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

type rpcListener struct {
	sync.Mutex
	log            *logger.L
	server         *rpc.Server
	tlsConfig      *tls.Config
	addresses      []string
	networks       []string
	open           []net.Listener
	connections    *counter.Counter
	maxConnections uint64
}

// NewRPC - JSON-RPC over TLS; connections tracks open clients
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	connections *counter.Counter,
	server *rpc.Server,
	tlsConfig *tls.Config,
	certificateFingerprint [32]byte,
) (Listener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("%s: maximum connections: %d is below: %d", logName, configuration.MaximumConnections, minConnectionCount)
		return nil, fault.MissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Errorf("%s: no listen addresses", logName)
		return nil, fault.MissingParameters
	}

	addresses := append([]string{}, configuration.Listen...)
	networks, err := parseListenAddress(addresses, log)
	if nil != err {
		return nil, err
	}

	log.Infof("%s: SHA3-256 fingerprint: %x", logName, certificateFingerprint)

	return &rpcListener{
		log:            log,
		server:         server,
		tlsConfig:      tlsConfig,
		addresses:      addresses,
		networks:       networks,
		connections:    connections,
		maxConnections: configuration.MaximumConnections,
	}, nil
}

func (r *rpcListener) Serve() error {
	r.Lock()
	defer r.Unlock()

	for i, address := range r.addresses {
		l, err := tls.Listen(r.networks[i], address, r.tlsConfig)
		if nil != err {
			r.log.Errorf("%s: listen on: %q  error: %s", logName, address, err)
			return err
		}
		r.log.Infof("%s: listening on: %s", logName, l.Addr())
		r.open = append(r.open, l)

		go r.accept(l)
	}
	return nil
}

func (r *rpcListener) Stop() {
	r.Lock()
	defer r.Unlock()

	for _, l := range r.open {
		_ = l.Close()
	}
	r.open = nil
}

// one goroutine per client up to the connection limit; extra clients
// are closed immediately
func (r *rpcListener) accept(l net.Listener) {
	defer l.Close()
	for {
		conn, err := l.Accept()
		if nil != err {
			r.log.Infof("%s: accept on: %s  terminated: %s", logName, l.Addr(), err)
			return
		}
		if r.connections.Increment() > r.maxConnections {
			r.connections.Decrement()
			r.log.Warnf("%s: too many connections, refused: %s", logName, conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		go func() {
			defer r.connections.Decrement()
			defer conn.Close()
			r.server.ServeCodec(jsonrpc.NewServerCodec(conn))
		}()
	}
}
