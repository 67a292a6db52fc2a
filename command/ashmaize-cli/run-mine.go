// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/fault"
)

type mineResult struct {
	Found   bool   `json:"found"`
	Salt    string `json:"salt,omitempty"`
	Digest  string `json:"digest,omitempty"`
	Rounds  int    `json:"rounds"`
	Elapsed string `json:"elapsed"`
}

// one batch: found, salt, digest
type batchFunc func(static string, mask difficulty.Mask, batchSize uint32) (bool, string, string, error)

func runMine(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mask, err := getMask(c)
	if nil != err {
		return err
	}
	batchSize, err := getBatchSize(c)
	if nil != err {
		return err
	}
	if 0 == batchSize {
		return fault.InvalidCount
	}
	rounds := c.Int("rounds")
	static := c.String("static")

	var batch batchFunc

	client, err := getClient(m)
	if nil != err {
		return err
	}
	if nil != client {
		defer client.Close()
		batch = func(static string, mask difficulty.Mask, batchSize uint32) (bool, string, string, error) {
			reply, err := client.MineBatch(static, mask, batchSize)
			if nil != err {
				return false, "", "", err
			}
			return reply.Found, reply.Salt, reply.Digest, nil
		}
	} else {
		r, err := buildROM(m)
		if nil != err {
			return err
		}
		defer r.Close()
		batch = func(static string, mask difficulty.Mask, batchSize uint32) (bool, string, string, error) {
			result, err := r.MineBatchContext(context.Background(), static, mask, batchSize)
			if nil != err {
				return false, "", "", err
			}
			if !result.Found {
				return false, "", "", nil
			}
			return true, result.Salt, result.Digest.String(), nil
		}
	}

	if m.verbose {
		fmt.Fprintf(m.e, "mask: %s  expected attempts: %.0f\n", mask, mask.ExpectedAttempts())
	}

	start := time.Now()
	result := mineResult{}
	for n := 1; 0 == rounds || n <= rounds; n += 1 {
		found, salt, digest, err := batch(static, mask, batchSize)
		if nil != err {
			return err
		}
		result.Rounds = n
		if found {
			result.Found = true
			result.Salt = salt
			result.Digest = digest
			break
		}
		if m.verbose {
			fmt.Fprintf(m.e, "batch: %d  not found\n", n)
		}
	}
	result.Elapsed = time.Since(start).String()

	return printJson(m.w, result)
}
