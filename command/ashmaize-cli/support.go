// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/command/ashmaize-cli/rpccalls"
	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/rom"
	"github.com/bitmark-inc/ashmaize/util"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// local rom settings from the global flags
func getParameters(c *cli.Context) (cache.Parameters, error) {
	size, err := util.ParseSize(c.GlobalString("size"))
	if nil != err {
		return cache.Parameters{}, fmt.Errorf("size: %q  error: %s", c.GlobalString("size"), err)
	}

	if !c.GlobalBool("two-step") {
		return cache.Parameters{Size: size, Generation: rom.FullRandom()}, nil
	}

	preSize, err := util.ParseSize(c.GlobalString("pre-size"))
	if nil != err {
		return cache.Parameters{}, fmt.Errorf("pre-size: %q  error: %s", c.GlobalString("pre-size"), err)
	}
	return cache.Parameters{
		Size:       size,
		Generation: rom.TwoStep(preSize, uint32(c.GlobalUint("mixing"))),
	}, nil
}

// a required mask flag
func getMask(c *cli.Context) (difficulty.Mask, error) {
	s := c.String("mask")
	if "" == s {
		return 0, fault.InvalidDifficultyMask
	}
	return difficulty.ParseMask(s)
}

// a batch size flag that fits the wire format
func getBatchSize(c *cli.Context) (uint32, error) {
	n := c.Uint("batch")
	if uint64(n) > math.MaxUint32 {
		return 0, fault.InvalidCount
	}
	return uint32(n), nil
}

// build the table described by the global flags
func buildROM(m *metadata) (*ashmaize.ROM, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "building rom: %s\n", m.parameters)
	}
	return ashmaize.BuildROMWithGeneration(context.Background(), m.key, m.parameters.Generation, m.parameters.Size)
}

// a client when connected, otherwise nil
func getClient(m *metadata) (*rpccalls.Client, error) {
	if "" == m.connect {
		return nil, nil
	}
	return rpccalls.NewClient(m.connect, m.key, m.verbose, m.e)
}

// commands that only make sense against a daemon
func requireClient(m *metadata) (*rpccalls.Client, error) {
	if "" == m.connect {
		return nil, fmt.Errorf("this command requires --connect")
	}
	return rpccalls.NewClient(m.connect, m.key, m.verbose, m.e)
}

// process exit status: 2 for rejected input, 3 for missing records
func exitStatus(err error) int {
	switch {
	case fault.IsErrInvalid(err), fault.IsErrLength(err):
		return 2
	case fault.IsErrNotFound(err):
		return 3
	default:
		return 1
	}
}
