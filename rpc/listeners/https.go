// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/rpc/handler"
)

const (
	httpsLogName     = "https_rpc"
	readWriteTimeout = 10 * time.Second
)

// HTTPSConfiguration - configuration file data for HTTPS setup
type HTTPSConfiguration struct {
	MaximumConnections uint64              `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string            `gluamapper:"listen" json:"listen"`
	Certificate        string              `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string              `gluamapper:"private_key" json:"private_key"`
	Allow              map[string][]string `gluamapper:"allow" json:"allow"`
}

type httpsListener struct {
	sync.Mutex
	log       *logger.L
	addresses []string
	networks  []string
	tlsConfig *tls.Config
	mux       *http.ServeMux
	servers   []*http.Server
}

// NewHTTPS - HTTP endpoints over TLS, nil when no listen address is set
func NewHTTPS(
	configuration *HTTPSConfiguration,
	log *logger.L,
	tlsConfig *tls.Config,
	hdlr handler.Handler,
) (Listener, error) {
	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsLogName)
		return nil, nil
	}

	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", httpsLogName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}

	if nil == tlsConfig {
		log.Errorf("missing %s certificate", httpsLogName)
		return nil, fault.MissingParameters
	}

	h := httpsListener{
		log:       log,
		addresses: append([]string{}, configuration.Listen...),
		tlsConfig: tlsConfig.Clone(),
	}
	h.tlsConfig.NextProtos = []string{"http/1.1"}

	var err error
	h.networks, err = parseListenAddress(h.addresses, log)
	if nil != err {
		return nil, err
	}

	allow, err := parseAllow(configuration.Allow)
	if nil != err {
		log.Errorf("%s allow error: %s", httpsLogName, err)
		return nil, err
	}
	hdlr.SetAllow(allow)

	h.mux = http.NewServeMux()
	h.mux.HandleFunc("/ashmaize/rpc", hdlr.RPC)
	h.mux.HandleFunc("/ashmaize/details", hdlr.Details)
	h.mux.HandleFunc("/", hdlr.Root)

	return &h, nil
}

func (h *httpsListener) Serve() error {
	h.Lock()
	defer h.Unlock()

	for i, address := range h.addresses {
		h.log.Infof("%s: listening on: %q", httpsLogName, address)

		ln, err := net.Listen(h.networks[i], address)
		if nil != err {
			h.log.Errorf("%s listen error: %s", httpsLogName, err)
			return err
		}

		s := &http.Server{
			Handler:        h.mux,
			ReadTimeout:    readWriteTimeout,
			WriteTimeout:   readWriteTimeout,
			MaxHeaderBytes: 1 << 20,
		}
		h.servers = append(h.servers, s)

		go func() {
			err := s.Serve(tls.NewListener(ln, h.tlsConfig))
			h.log.Infof("%s terminated: %s", httpsLogName, err)
		}()
	}

	return nil
}

func (h *httpsListener) Stop() {
	h.Lock()
	defer h.Unlock()

	for _, s := range h.servers {
		_ = s.Close()
	}
	h.servers = nil
}
