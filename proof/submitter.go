// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"encoding/json"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"
)

const sendTimeout = 5 * time.Second

// Submitter - pushes solutions to a collector
type Submitter struct {
	sync.Mutex
	log    *logger.L
	socket *zmq.Socket
}

// NewSubmitter - connect a PUSH socket to endpoint
func NewSubmitter(log *logger.L, endpoint string) (*Submitter, error) {
	socket, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return nil, err
	}
	socket.SetLinger(0)
	socket.SetSndtimeo(sendTimeout)

	err = socket.Connect(endpoint)
	if nil != err {
		socket.Close()
		return nil, err
	}
	log.Infof("submit to: %q", endpoint)

	return &Submitter{
		log:    log,
		socket: socket,
	}, nil
}

// Submit - send one solution
func (s *Submitter) Submit(solution Solution) error {
	data, err := json.Marshal(solution)
	if nil != err {
		return err
	}

	s.Lock()
	defer s.Unlock()
	_, err = s.socket.SendBytes(data, 0)
	if nil != err {
		s.log.Errorf("submit job: %s  error: %s", solution.Job, err)
		return err
	}
	s.log.Infof("submitted job: %s  salt: %q", solution.Job, solution.Salt)
	return nil
}

// Close - release the socket
func (s *Submitter) Close() {
	s.Lock()
	defer s.Unlock()
	if nil != s.socket {
		s.socket.Close()
		s.socket = nil
	}
}
