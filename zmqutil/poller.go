// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - helpers around ZeroMQ sockets
package zmqutil

import (
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"
)

// Poller - waits for input on a set of sockets that may change
// between waits
type Poller struct {
	sync.Mutex
	sockets []*zmq.Socket
	poller  *zmq.Poller
}

// NewPoller - poller for input on the given sockets
func NewPoller(sockets ...*zmq.Socket) *Poller {
	p := &Poller{}
	for _, s := range sockets {
		p.Add(s)
	}
	return p
}

// Add - watch a socket, ignored if already present
func (p *Poller) Add(socket *zmq.Socket) {
	p.Lock()
	defer p.Unlock()

	if p.index(socket) >= 0 {
		return
	}
	p.sockets = append(p.sockets, socket)
	p.poller = nil
}

// Remove - stop watching a socket
func (p *Poller) Remove(socket *zmq.Socket) {
	p.Lock()
	defer p.Unlock()

	i := p.index(socket)
	if i < 0 {
		return
	}
	p.sockets = append(p.sockets[:i], p.sockets[i+1:]...)
	p.poller = nil
}

// Len - number of sockets watched
func (p *Poller) Len() int {
	p.Lock()
	defer p.Unlock()
	return len(p.sockets)
}

// Ready - sockets with input waiting, empty after timeout
func (p *Poller) Ready(timeout time.Duration) ([]*zmq.Socket, error) {
	p.Lock()
	// zmq pollers cannot drop a socket so one is built per change
	if nil == p.poller {
		p.poller = zmq.NewPoller()
		for _, s := range p.sockets {
			p.poller.Add(s, zmq.POLLIN)
		}
	}
	poller := p.poller
	p.Unlock()

	polled, err := poller.Poll(timeout)
	if nil != err {
		return nil, err
	}
	ready := make([]*zmq.Socket, 0, len(polled))
	for _, item := range polled {
		if 0 != item.Events&zmq.POLLIN {
			ready = append(ready, item.Socket)
		}
	}
	return ready, nil
}

func (p *Poller) index(socket *zmq.Socket) int {
	for i, s := range p.sockets {
		if s == socket {
			return i
		}
	}
	return -1
}
