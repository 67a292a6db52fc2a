// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/proof"
)

// subscribers that connect late miss earlier sends, so the job is
// repeated; daemons ignore a job they are already working on
func runPublish(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	endpoint := c.String("endpoint")
	if "" == endpoint {
		return fault.MissingParameters
	}
	mask, err := getMask(c)
	if nil != err {
		return err
	}
	batchSize, err := getBatchSize(c)
	if nil != err {
		return err
	}
	repeat := c.Int("repeat")
	if repeat < 1 {
		return fault.InvalidCount
	}

	job := proof.Job{
		ID:             c.String("id"),
		Key:            m.key,
		PreimageStatic: c.String("static"),
		Mask:           mask,
		BatchSize:      batchSize,
	}
	if err := job.Validate(); nil != err {
		return err
	}

	publisher, err := proof.NewPublisher(endpoint)
	if nil != err {
		return err
	}
	defer publisher.Close()

	interval := c.Duration("interval")
	for n := 1; n <= repeat; n += 1 {
		if err := publisher.Publish(job); nil != err {
			return err
		}
		if m.verbose {
			fmt.Fprintf(m.e, "sent: %d of %d\n", n, repeat)
		}
		if n < repeat {
			time.Sleep(interval)
		}
	}

	return printJson(m.w, job)
}
