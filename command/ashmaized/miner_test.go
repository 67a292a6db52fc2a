// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/background"
	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/fixtures"
	"github.com/bitmark-inc/ashmaize/proof"
	"github.com/bitmark-inc/ashmaize/rom"
	"github.com/bitmark-inc/ashmaize/storage/mocks"
)

type testJobs struct {
	jobs chan proof.Job
}

func (j *testJobs) Jobs() <-chan proof.Job {
	return j.jobs
}

type testSink struct {
	solutions chan proof.Solution
	err       error
}

func (s *testSink) Submit(solution proof.Solution) error {
	s.solutions <- solution
	return s.err
}

func newTestRegistry() *cache.Registry {
	parameters := cache.Parameters{
		Size:       fixtures.ROMSize,
		Generation: rom.FullRandom(),
	}
	return cache.New(logger.New(fixtures.LogCategory), parameters, time.Minute)
}

func oneThread() int {
	return 1
}

func TestMinerSolvesJob(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	registry := newTestRegistry()
	defer registry.Flush()

	jobs := &testJobs{jobs: make(chan proof.Job, 1)}
	sink := &testSink{solutions: make(chan proof.Solution, 1)}

	m := newMiner(logger.New(fixtures.LogCategory), registry, jobs, sink, nil, oneThread, 4)
	p := background.Start(background.Processes{m}, nil)
	defer p.Stop()

	jobs.jobs <- proof.Job{
		ID:             "job-1",
		Key:            fixtures.ROMKey,
		PreimageStatic: "static",
		Mask:           difficulty.Any,
	}

	var solution proof.Solution
	select {
	case solution = <-sink.solutions:
	case <-time.After(10 * time.Second):
		t.Fatal("no solution submitted")
	}

	assert.Equal(t, "job-1", solution.Job, "job id")
	assert.Equal(t, fixtures.ROMKey, solution.Key, "key")
	assert.Equal(t, "static", solution.PreimageStatic, "static part")
	assert.Equal(t, difficulty.Any, solution.Mask, "mask")
	assert.False(t, solution.Timestamp.IsZero(), "timestamp")

	r, err := registry.Get(context.Background(), fixtures.ROMKey)
	assert.Nil(t, err, "rom")
	defer r.Close()

	d, ok, err := r.Verify(solution.Salt, uint32(solution.Mask))
	assert.Nil(t, err, "verify error")
	assert.True(t, ok, "solution does not verify")
	assert.Equal(t, solution.Digest.String(), d, "digest")

	assert.Equal(t, uint64(1), m.solutions.Uint64(), "solution count")
}

func TestMinerRecordsSolution(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	registry := newTestRegistry()
	defer registry.Flush()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	recorded := make(chan struct{})
	pool := mocks.NewMockHandle(ctl)
	pool.EXPECT().Put(
		proof.SolutionKey(fixtures.ROMKey, "record", difficulty.Any),
		gomock.Any(),
	).Do(func(_, _ []byte) {
		close(recorded)
	}).Times(1)

	jobs := &testJobs{jobs: make(chan proof.Job, 1)}

	m := newMiner(logger.New(fixtures.LogCategory), registry, jobs, nil, pool, oneThread, 4)
	p := background.Start(background.Processes{m}, nil)

	jobs.jobs <- proof.Job{
		ID:             "job-2",
		Key:            fixtures.ROMKey,
		PreimageStatic: "record",
		Mask:           difficulty.Any,
	}

	select {
	case <-recorded:
	case <-time.After(10 * time.Second):
		t.Error("no solution recorded")
	}
	p.Stop()
}

func TestMinerReplacesJob(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	registry := newTestRegistry()
	defer registry.Flush()

	jobs := &testJobs{jobs: make(chan proof.Job, 1)}
	sink := &testSink{
		solutions: make(chan proof.Solution, 1),
		err:       fault.NotInitialised,
	}

	m := newMiner(logger.New(fixtures.LogCategory), registry, jobs, sink, nil, oneThread, 2)
	p := background.Start(background.Processes{m}, nil)
	defer p.Stop()

	// all zero prefix: effectively never solved
	jobs.jobs <- proof.Job{
		ID:             "hard",
		Key:            fixtures.ROMKey,
		PreimageStatic: "hard",
		Mask:           difficulty.Mask(0),
	}

	assert.Eventually(t, func() bool {
		return m.batches.Uint64() > 0
	}, 10*time.Second, 5*time.Millisecond, "hard job never started")

	jobs.jobs <- proof.Job{
		ID:             "easy",
		Key:            fixtures.ROMKey,
		PreimageStatic: "easy",
		Mask:           difficulty.Any,
	}

	select {
	case solution := <-sink.solutions:
		assert.Equal(t, "easy", solution.Job, "wrong job solved")
	case <-time.After(10 * time.Second):
		t.Fatal("replacement job not solved")
	}
}

func TestMinerUnknownTableSettings(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	registry := cache.New(
		logger.New(fixtures.LogCategory),
		cache.Parameters{Size: 1000, Generation: rom.FullRandom()},
		time.Minute,
	)
	defer registry.Flush()

	jobs := &testJobs{jobs: make(chan proof.Job, 1)}
	sink := &testSink{solutions: make(chan proof.Solution, 1)}

	m := newMiner(logger.New(fixtures.LogCategory), registry, jobs, sink, nil, oneThread, 4)

	next := m.work(context.Background(), proof.Job{
		ID:             "bad",
		Key:            fixtures.ROMKey,
		PreimageStatic: "bad",
		Mask:           difficulty.Any,
	})
	assert.Nil(t, next, "unexpected replacement")
	assert.Equal(t, 0, len(sink.solutions), "unexpected solution")
}

func TestMinerShutdownWhileIdle(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	registry := newTestRegistry()
	defer registry.Flush()

	jobs := &testJobs{jobs: make(chan proof.Job)}
	m := newMiner(logger.New(fixtures.LogCategory), registry, jobs, nil, nil, oneThread, 4)

	p := background.Start(background.Processes{m}, nil)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("miner did not stop")
	}
	assert.Equal(t, uint64(0), m.batches.Uint64(), "unexpected batches")
}
