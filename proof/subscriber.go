// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proof

import (
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/zmqutil"
)

const pollTimeout = 100 * time.Millisecond

// Subscriber - receives jobs from publishers
type Subscriber struct {
	log      *logger.L
	socket   *zmq.Socket
	poller   *zmqutil.Poller
	jobs     chan Job
	last     Job
	received counter.Counter
	rejected counter.Counter
	repeated counter.Counter
}

// NewSubscriber - connect a SUB socket to every endpoint
func NewSubscriber(log *logger.L, endpoints []string) (*Subscriber, error) {
	if 0 == len(endpoints) {
		return nil, fault.MissingParameters
	}

	socket, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		return nil, err
	}

	// empty prefix => receive everything
	err = socket.SetSubscribe("")
	if nil != err {
		socket.Close()
		return nil, err
	}

	for i, endpoint := range endpoints {
		err = socket.Connect(endpoint)
		if nil != err {
			log.Errorf("subscribe[%d]=%q  error: %s", i, endpoint, err)
			socket.Close()
			return nil, err
		}
		log.Infof("subscribe to: %q", endpoint)
	}

	return &Subscriber{
		log:    log,
		socket: socket,
		poller: zmqutil.NewPoller(socket),
		jobs:   make(chan Job, 1),
	}, nil
}

// Jobs - the newest received job, older pending ones are dropped
func (s *Subscriber) Jobs() <-chan Job {
	return s.jobs
}

// Received - count of valid jobs
func (s *Subscriber) Received() uint64 {
	return s.received.Uint64()
}

// Repeated - count of jobs identical to the previous one
func (s *Subscriber) Repeated() uint64 {
	return s.repeated.Uint64()
}

// Rejected - count of undecodable or invalid jobs
func (s *Subscriber) Rejected() uint64 {
	return s.rejected.Uint64()
}

// Run - background receive loop, owns and finally closes the socket
func (s *Subscriber) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		ready, err := s.poller.Ready(pollTimeout)
		if nil != err {
			log.Errorf("poll error: %s", err)
			continue
		}
		if 0 == len(ready) {
			continue
		}

		data, err := s.socket.RecvBytes(0)
		if nil != err {
			log.Errorf("receive error: %s", err)
			continue
		}

		job, err := decodeJob(data)
		if nil != err {
			s.rejected.Increment()
			log.Warnf("rejected job: %q  error: %s", data, err)
			continue
		}
		if job == s.last {
			s.repeated.Increment()
			log.Debugf("repeated job: %s", job.ID)
			continue
		}
		s.last = job
		s.received.Increment()
		log.Infof("received job: %s  key: %q  mask: %s", job.ID, job.Key, job.Mask)
		s.offer(job)
	}

	s.socket.Close()
	log.Info("stopped")
}

// replace any job not yet taken
func (s *Subscriber) offer(job Job) {
	for {
		select {
		case s.jobs <- job:
			return
		default:
		}
		select {
		case old := <-s.jobs:
			s.log.Debugf("superseded job: %s", old.ID)
		default:
		}
	}
}
