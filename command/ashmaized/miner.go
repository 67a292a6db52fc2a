// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/proof"
	"github.com/bitmark-inc/ashmaize/storage"
)

const minerLoggerPrefix = "miner"

type tableSource interface {
	Get(ctx context.Context, key string) (*ashmaize.ROM, error)
}

type jobSource interface {
	Jobs() <-chan proof.Job
}

type solutionSink interface {
	Submit(proof.Solution) error
}

// miner - works on the newest job until solved, replaced or shutdown
type miner struct {
	log       *logger.L
	tables    tableSource
	jobs      jobSource
	sink      solutionSink   // optional
	pool      storage.Handle // optional
	threads   func() int
	batchSize uint32
	batches   counter.Counter
	solutions counter.Counter
}

func newMiner(log *logger.L, tables tableSource, jobs jobSource, sink solutionSink, pool storage.Handle, threads func() int, batchSize uint32) *miner {
	return &miner{
		log:       log,
		tables:    tables,
		jobs:      jobs,
		sink:      sink,
		pool:      pool,
		threads:   threads,
		batchSize: batchSize,
	}
}

// Run - background loop until shutdown
func (m *miner) Run(args interface{}, shutdown <-chan struct{}) {
	log := m.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	var job *proof.Job
loop:
	for {
		if nil == job {
			select {
			case <-shutdown:
				break loop
			case j := <-m.jobs.Jobs():
				job = &j
			}
		}
		job = m.work(ctx, *job)
	}
	log.Info("stopped")
}

// mine one job; returns a replacement job if one arrived
func (m *miner) work(ctx context.Context, job proof.Job) *proof.Job {
	log := m.log

	r, err := m.tables.Get(ctx, job.Key)
	if nil != err {
		if nil == ctx.Err() {
			log.Errorf("job: %s  rom key: %q  error: %s", job.ID, job.Key, err)
		}
		return nil
	}
	defer r.Close()

	batchSize := job.BatchSize
	if 0 == batchSize {
		batchSize = m.batchSize
	}

	log.Infof("job: %s  mask: %s  expected attempts: %.0f", job.ID, job.Mask, job.Mask.ExpectedAttempts())
	start := time.Now()

	for rounds := 1; ; rounds += 1 {
		select {
		case next := <-m.jobs.Jobs():
			log.Infof("job: %s  replaced by: %s after: %d batches", job.ID, next.ID, rounds-1)
			return &next
		default:
		}

		r.SetThreads(m.threads())
		result, err := r.MineBatchContext(ctx, job.PreimageStatic, job.Mask, batchSize)
		if nil != err {
			if nil == ctx.Err() {
				log.Errorf("job: %s  mine error: %s", job.ID, err)
			}
			return nil
		}
		m.batches.Increment()

		if !result.Found {
			log.Debugf("job: %s  batch: %d  not found", job.ID, rounds)
			continue
		}

		m.solutions.Increment()
		log.Infof("job: %s  solved in: %d batches  time: %s  salt: %q", job.ID, rounds, time.Since(start), result.Salt)

		m.deliver(proof.Solution{
			Job:            job.ID,
			Key:            job.Key,
			PreimageStatic: job.PreimageStatic,
			Mask:           job.Mask,
			Salt:           result.Salt,
			Digest:         result.Digest,
			Timestamp:      time.Now().UTC(),
		})
		return nil
	}
}

func (m *miner) deliver(solution proof.Solution) {
	if nil != m.pool {
		if err := proof.Record(m.pool, solution); nil != err {
			m.log.Errorf("job: %s  record error: %s", solution.Job, err)
		}
	}
	if nil != m.sink {
		if err := m.sink.Submit(solution); nil != err {
			m.log.Errorf("job: %s  submit error: %s", solution.Job, err)
		}
	}
}
