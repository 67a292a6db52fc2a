// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/fixtures"
	"github.com/bitmark-inc/ashmaize/rom"
)

// run the program with a small local table
func run(t *testing.T, stdin string, arguments ...string) (string, error) {
	var out, errors bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out, &errors)

	args := append([]string{"ashmaize-cli", "--key", fixtures.ROMKey, "--size", "64KiB"}, arguments...)
	err := app.Run(args)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	assert.Nil(t, err, "wrong error")
	assert.Equal(t, version+"\n", out, "wrong version")
}

func TestHashSingle(t *testing.T) {
	r, err := fixtures.NewROM()
	assert.Nil(t, err, "rom")
	defer r.Close()

	expected, err := r.Hash("hello")
	assert.Nil(t, err, "hash")

	out, err := run(t, "", "hash", "hello")
	assert.Nil(t, err, "wrong error")

	var result hashResult
	err = json.Unmarshal([]byte(out), &result)
	assert.Nil(t, err, "output: %s", out)
	assert.Equal(t, "hello", result.Preimage, "preimage")
	assert.Equal(t, expected, result.Digest, "digest")
}

func TestHashStdin(t *testing.T) {
	out, err := run(t, "one\ntwo\n", "hash")
	assert.Nil(t, err, "wrong error")

	var results []hashResult
	err = json.Unmarshal([]byte(out), &results)
	assert.Nil(t, err, "output: %s", out)
	assert.Equal(t, 2, len(results), "result count")
	assert.Equal(t, "one", results[0].Preimage, "first")
	assert.Equal(t, "two", results[1].Preimage, "second")
	assert.NotEqual(t, results[0].Digest, results[1].Digest, "same digest")
}

func TestHashTuning(t *testing.T) {
	r, err := fixtures.NewROM()
	assert.Nil(t, err, "rom")
	defer r.Close()

	expected, err := r.HashWithParams("hello", 2, 32)
	assert.Nil(t, err, "hash")

	out, err := run(t, "", "--loops", "2", "--instructions", "32", "hash", "hello")
	assert.Nil(t, err, "wrong error")

	var result hashResult
	err = json.Unmarshal([]byte(out), &result)
	assert.Nil(t, err, "output: %s", out)
	assert.Equal(t, expected, result.Digest, "digest")
}

func TestMineThenVerify(t *testing.T) {
	out, err := run(t, "", "mine", "--static", "cli test", "--mask", "ffffffff", "--batch", "4")
	assert.Nil(t, err, "wrong error")

	var mined mineResult
	err = json.Unmarshal([]byte(out), &mined)
	assert.Nil(t, err, "output: %s", out)
	assert.True(t, mined.Found, "not found")
	assert.Equal(t, 1, mined.Rounds, "rounds")
	assert.True(t, strings.HasSuffix(mined.Salt, "cli test"), "salt: %q", mined.Salt)

	out, err = run(t, "", "verify", "--salt", mined.Salt, "--mask", "ffffffff")
	assert.Nil(t, err, "wrong error")

	var verified verifyResult
	err = json.Unmarshal([]byte(out), &verified)
	assert.Nil(t, err, "output: %s", out)
	assert.True(t, verified.Valid, "not valid")
	assert.Equal(t, mined.Digest, verified.Digest, "digest")
}

func TestMineGivesUp(t *testing.T) {
	out, err := run(t, "", "mine", "--mask", "00000000", "--batch", "2", "--rounds", "2")
	assert.Nil(t, err, "wrong error")

	var mined mineResult
	err = json.Unmarshal([]byte(out), &mined)
	assert.Nil(t, err, "output: %s", out)
	assert.False(t, mined.Found, "found with zero mask")
	assert.Equal(t, 2, mined.Rounds, "rounds")
	assert.Equal(t, "", mined.Salt, "salt")
}

func TestVerifyFails(t *testing.T) {
	out, err := run(t, "", "verify", "--salt", "0000000000000000x", "--mask", "00000000")
	assert.Equal(t, fault.SolutionNotValid, err, "wrong error")
	assert.Contains(t, out, `"valid": false`, "output")
}

func TestBatchSizeRange(t *testing.T) {
	_, err := run(t, "", "mine", "--mask", "ffffffff", "--batch", "0")
	assert.Equal(t, fault.InvalidCount, err, "zero batch")

	_, err = run(t, "", "mine", "--mask", "ffffffff", "--batch", "4294967296", "--rounds", "1")
	assert.Equal(t, fault.InvalidCount, err, "batch above 32 bits")

	_, err = run(t, "", "publish", "--endpoint", "inproc://cli-batch", "--id", "j", "--mask", "ffffffff", "--batch", "4294967296")
	assert.Equal(t, fault.InvalidCount, err, "publish batch above 32 bits")
}

func TestMissingMask(t *testing.T) {
	_, err := run(t, "", "mine", "--batch", "2")
	assert.Equal(t, fault.InvalidDifficultyMask, err, "wrong error")

	_, err = run(t, "", "verify", "--salt", "x")
	assert.Equal(t, fault.InvalidDifficultyMask, err, "wrong error")

	_, err = run(t, "", "verify", "--mask", "ffffffff")
	assert.Equal(t, fault.InvalidSalt, err, "wrong error")
}

func TestROMDigest(t *testing.T) {
	r, err := fixtures.NewROM()
	assert.Nil(t, err, "rom")
	defer r.Close()

	expected, err := r.Digest()
	assert.Nil(t, err, "digest")

	out, err := run(t, "", "rom-digest")
	assert.Nil(t, err, "wrong error")
	assert.Contains(t, out, expected, "digest")
	assert.Contains(t, out, "64KiB full-random", "parameters")
}

func TestROMDigestTwoStep(t *testing.T) {
	r, err := ashmaize.BuildROMWithGeneration(context.Background(), fixtures.ROMKey, rom.TwoStep(16*1024, 2), fixtures.ROMSize)
	assert.Nil(t, err, "rom")
	defer r.Close()

	expected, err := r.Digest()
	assert.Nil(t, err, "digest")

	out, err := run(t, "", "--two-step", "--pre-size", "16KiB", "--mixing", "2", "rom-digest")
	assert.Nil(t, err, "wrong error")
	assert.Contains(t, out, expected, "digest")
}

func TestInvalidSize(t *testing.T) {
	var out, errors bytes.Buffer
	app := newApp(strings.NewReader(""), &out, &errors)

	err := app.Run([]string{"ashmaize-cli", "--size", "huge", "rom-digest"})
	assert.NotNil(t, err, "expected error")
}

func TestRemoteOnlyCommands(t *testing.T) {
	_, err := run(t, "", "info")
	assert.NotNil(t, err, "info without connect")

	_, err = run(t, "", "solution", "--mask", "ffffffff")
	assert.NotNil(t, err, "solution without connect")
}

func TestPublishValidation(t *testing.T) {
	_, err := run(t, "", "publish", "--id", "j", "--mask", "ffffffff")
	assert.Equal(t, fault.MissingParameters, err, "missing endpoint")

	_, err = run(t, "", "publish", "--endpoint", "inproc://cli-test", "--mask", "ffffffff")
	assert.Equal(t, fault.MissingParameters, err, "missing id")

	_, err = run(t, "", "publish", "--endpoint", "inproc://cli-test", "--id", "j", "--mask", "ffffffff", "--repeat", "0")
	assert.Equal(t, fault.InvalidCount, err, "bad repeat")
}

func TestPublish(t *testing.T) {
	out, err := run(t, "", "publish", "--endpoint", "inproc://cli-publish", "--id", "job-9", "--static", "s", "--mask", "0fffffff", "--repeat", "2", "--interval", "1ms")
	assert.Nil(t, err, "wrong error")
	assert.Contains(t, out, `"id": "job-9"`, "job id")
	assert.Contains(t, out, `"mask": "0fffffff"`, "job mask")
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 2, exitStatus(fault.InvalidDifficultyMask), "invalid input")
	assert.Equal(t, 2, exitStatus(fault.BatchTooLarge), "length")
	assert.Equal(t, 3, exitStatus(fault.KeyNotFound), "not found")
	assert.Equal(t, 1, exitStatus(fault.ErrROMReleased), "process")
	assert.Equal(t, 1, exitStatus(context.Canceled), "foreign error")
}
