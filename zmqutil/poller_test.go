// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"testing"
	"time"

	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ashmaize/zmqutil"
)

func pair(t *testing.T, endpoint string) (*zmq.Socket, *zmq.Socket) {
	a, err := zmq.NewSocket(zmq.PAIR)
	assert.Nil(t, err)
	err = a.Bind(endpoint)
	assert.Nil(t, err)

	b, err := zmq.NewSocket(zmq.PAIR)
	assert.Nil(t, err)
	err = b.Connect(endpoint)
	assert.Nil(t, err)
	return a, b
}

func TestReadyAddRemove(t *testing.T) {
	a1, b1 := pair(t, "inproc://poller-one")
	defer a1.Close()
	defer b1.Close()
	a2, b2 := pair(t, "inproc://poller-two")
	defer a2.Close()
	defer b2.Close()

	poller := zmqutil.NewPoller(b1)
	poller.Add(b1)
	poller.Add(b2)
	assert.Equal(t, 2, poller.Len(), "duplicate add")

	ready, err := poller.Ready(10 * time.Millisecond)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(ready))

	_, err = a2.Send("hello", 0)
	assert.Nil(t, err)

	ready, err = poller.Ready(time.Second)
	assert.Nil(t, err)
	assert.Equal(t, []*zmq.Socket{b2}, ready)

	poller.Remove(b2)
	poller.Remove(b2)
	assert.Equal(t, 1, poller.Len(), "remove")

	// message still waiting on b2 but it is no longer polled
	ready, err = poller.Ready(10 * time.Millisecond)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(ready))

	_, err = a1.Send("again", 0)
	assert.Nil(t, err)

	ready, err = poller.Ready(time.Second)
	assert.Nil(t, err)
	assert.Equal(t, []*zmq.Socket{b1}, ready)
}
