// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listeners - TLS endpoints for the RPC server
package listeners

import (
	"net"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/fault"
)

const minConnectionCount = 1

// Listener - a started endpoint
type Listener interface {
	Serve() error
	Stop()
}

// parseListenAddress - network for each "IP:PORT", "[IPv6]:PORT" or "*:PORT"
//
// "*:PORT" entries are rewritten in place to listen on all addresses
func parseListenAddress(addrs []string, log *logger.L) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		host, port, err := net.SplitHostPort(listen)
		if nil != err {
			log.Errorf("listen: %q  error: %s", listen, err)
			return nil, fault.InvalidIpAddress
		}

		switch {
		case "*" == host:
			addrs[i] = net.JoinHostPort("::", port)
			parsed[i] = "tcp"
			continue
		case strings.Contains(host, ":"):
			parsed[i] = "tcp6"
		default:
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			err := fault.InvalidIpAddress
			log.Errorf("listen: %q  error: %s", listen, err)
			return nil, err
		}
	}

	return parsed, nil
}

// parseAllow - CIDR lists by endpoint name
func parseAllow(allow map[string][]string) (map[string][]*net.IPNet, error) {
	result := make(map[string][]*net.IPNet, len(allow))
	for endpoint, addresses := range allow {
		networks := make([]*net.IPNet, 0, len(addresses))
		for _, address := range addresses {
			_, cidr, err := net.ParseCIDR(strings.TrimSpace(address))
			if nil != err {
				return nil, err
			}
			networks = append(networks, cidr)
		}
		result[endpoint] = networks
	}
	return result, nil
}
