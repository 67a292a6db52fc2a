// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"encoding/json"
	"sync"

	zmq "github.com/pebbe/zmq4"
)

// Publisher - the job source side, used by tools and tests
type Publisher struct {
	sync.Mutex
	socket *zmq.Socket
}

// NewPublisher - bind a PUB socket
func NewPublisher(endpoint string) (*Publisher, error) {
	socket, err := zmq.NewSocket(zmq.PUB)
	if nil != err {
		return nil, err
	}
	socket.SetLinger(0)
	if err := socket.Bind(endpoint); nil != err {
		socket.Close()
		return nil, err
	}
	return &Publisher{socket: socket}, nil
}

// Publish - send a job to all subscribers
func (p *Publisher) Publish(job Job) error {
	if err := job.Validate(); nil != err {
		return err
	}
	data, err := json.Marshal(job)
	if nil != err {
		return err
	}
	p.Lock()
	defer p.Unlock()
	_, err = p.socket.SendBytes(data, zmq.DONTWAIT)
	return err
}

// Close - release the socket
func (p *Publisher) Close() {
	p.Lock()
	defer p.Unlock()
	p.socket.Close()
}
