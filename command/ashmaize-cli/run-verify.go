// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/ashmaize/fault"
)

type verifyResult struct {
	Salt   string `json:"salt"`
	Valid  bool   `json:"valid"`
	Digest string `json:"digest"`
}

func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	salt := c.String("salt")
	if "" == salt {
		return fault.InvalidSalt
	}
	mask, err := getMask(c)
	if nil != err {
		return err
	}

	result := verifyResult{
		Salt: salt,
	}

	client, err := getClient(m)
	if nil != err {
		return err
	}
	if nil != client {
		defer client.Close()
		reply, err := client.Verify(salt, mask)
		if nil != err {
			return err
		}
		result.Valid = reply.Valid
		result.Digest = reply.Digest
	} else {
		r, err := buildROM(m)
		if nil != err {
			return err
		}
		defer r.Close()
		result.Digest, result.Valid, err = r.Verify(salt, uint32(mask))
		if nil != err {
			return err
		}
	}

	if err := printJson(m.w, result); nil != err {
		return err
	}
	if !result.Valid {
		return fault.SolutionNotValid
	}
	return nil
}
