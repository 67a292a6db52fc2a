// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/urfave/cli"
)

func runROMDigest(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	start := time.Now()
	r, err := buildROM(m)
	if nil != err {
		return err
	}
	defer r.Close()

	d, err := r.Digest()
	if nil != err {
		return err
	}

	out := struct {
		Key        string `json:"key"`
		Parameters string `json:"parameters"`
		Digest     string `json:"digest"`
		Elapsed    string `json:"elapsed"`
	}{
		Key:        m.key,
		Parameters: m.parameters.String(),
		Digest:     d,
		Elapsed:    time.Since(start).String(),
	}
	return printJson(m.w, out)
}
