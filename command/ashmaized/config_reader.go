// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
)

const (
	readerLoggerPrefix = "config-reader"
	minThreadCount     = 1

	// editors often write a file in several steps
	settleTime = 2 * time.Second
)

// configReader - re-reads the configuration on change and resizes the
// mining thread count from max_cpu_usage
type configReader struct {
	log      *logger.L
	fileName string
	changes  <-chan struct{}
	threads  atomic.Int32
	settle   time.Duration
}

func newConfigReader(log *logger.L, fileName string, initial *Configuration, changes <-chan struct{}) *configReader {
	c := &configReader{
		log:      log,
		fileName: fileName,
		changes:  changes,
		settle:   settleTime,
	}
	c.threads.Store(int32(optimalThreadCount(initial.MaxCPUUsage, runtime.NumCPU())))
	return c
}

// Threads - current mining goroutine count
func (c *configReader) Threads() int {
	return int(c.threads.Load())
}

// Run - background loop until shutdown
func (c *configReader) Run(args interface{}, shutdown <-chan struct{}) {
	log := c.log
	log.Infof("initial thread count: %d", c.Threads())

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-c.changes:
			log.Debugf("configuration changed, wait %s to settle", c.settle)
			select {
			case <-shutdown:
				break loop
			case <-time.After(c.settle):
			}
			c.refresh()
		}
	}
	log.Info("stopped")
}

func (c *configReader) refresh() {
	configuration, err := getConfiguration(c.fileName)
	if nil != err {
		c.log.Errorf("failed to read configuration from: %q  error: %s", c.fileName, err)
		return
	}
	n := optimalThreadCount(configuration.MaxCPUUsage, runtime.NumCPU())
	if old := c.threads.Swap(int32(n)); int(old) != n {
		c.log.Infof("thread count: %d -> %d", old, n)
	}
}

// threads for a percentage of the processors, at least one
func optimalThreadCount(maxCPUUsage int, cpus int) int {
	threadCount := cpus * maxCPUUsage / 100

	if threadCount <= minThreadCount {
		return minThreadCount
	}

	if threadCount > cpus {
		return cpus
	}

	return threadCount
}
