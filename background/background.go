// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - start and stop long running goroutines
// such as the daemon's miner and configuration watcher
package background

import (
	"sync"
)

// Process - a background task; Run must return soon after
// shutdown is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle for a started set of processes
type T struct {
	sync.Mutex
	shutdown []chan struct{}
	finished sync.WaitGroup
	stopped  bool
}

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make([]chan struct{}, len(processes)),
	}

	for i, p := range processes {
		shutdown := make(chan struct{})
		register.shutdown[i] = shutdown
		register.finished.Add(1)
		go func(p Process) {
			defer register.finished.Done()
			p.Run(args, shutdown)
		}(p)
	}
	return register
}

// Stop - signal all processes to stop then wait for them
//
// safe to call more than once
func (t *T) Stop() {
	if nil == t {
		return
	}

	t.Lock()
	if !t.stopped {
		for _, shutdown := range t.shutdown {
			close(shutdown)
		}
		t.stopped = true
	}
	t.Unlock()

	t.finished.Wait()
}
