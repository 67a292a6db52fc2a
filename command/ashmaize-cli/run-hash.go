// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ashmaize"
)

type hashResult struct {
	Preimage string `json:"preimage"`
	Digest   string `json:"digest"`
}

func runHash(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	preimages := []string(c.Args())
	if 0 == len(preimages) {
		scanner := bufio.NewScanner(m.r)
		for scanner.Scan() {
			preimages = append(preimages, scanner.Text())
		}
		if err := scanner.Err(); nil != err {
			return err
		}
	}

	digests, err := hashAll(m, preimages)
	if nil != err {
		return err
	}

	results := make([]hashResult, len(preimages))
	for i, p := range preimages {
		results[i] = hashResult{
			Preimage: p,
			Digest:   digests[i],
		}
	}

	if 1 == len(results) {
		return printJson(m.w, results[0])
	}
	return printJson(m.w, results)
}

func hashAll(m *metadata, preimages []string) ([]string, error) {
	client, err := getClient(m)
	if nil != err {
		return nil, err
	}
	if nil != client {
		defer client.Close()
		return client.HashBatch(preimages, m.loops, m.instructions)
	}

	r, err := buildROM(m)
	if nil != err {
		return nil, err
	}
	defer r.Close()

	loops, instructions := m.loops, m.instructions
	if 0 == loops {
		loops = ashmaize.DefaultLoops
	}
	if 0 == instructions {
		instructions = ashmaize.DefaultInstructions
	}
	return r.HashBatchWithParams(preimages, loops, instructions)
}
