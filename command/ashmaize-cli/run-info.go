// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := requireClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	info, err := client.GetInfo()
	if nil != err {
		return err
	}

	return printJson(m.w, info)
}

func runSolution(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	mask, err := getMask(c)
	if nil != err {
		return err
	}

	client, err := requireClient(m)
	if nil != err {
		return err
	}
	defer client.Close()

	solution, err := client.Solution(c.String("static"), mask)
	if nil != err {
		return err
	}

	return printJson(m.w, solution)
}
