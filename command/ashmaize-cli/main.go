// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ashmaize/cache"
)

type metadata struct {
	key          string
	connect      string
	parameters   cache.Parameters
	loops        uint32
	instructions uint32
	verbose      bool
	e            io.Writer
	w            io.Writer
	r            io.Reader
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(exitStatus(err))
	}
}

func newApp(r io.Reader, w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "ashmaize-cli"
	app.Usage = "memory hard hashing and mining, locally or through ashmaized"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "key, k",
			Value: "",
			Usage: " rom `KEY` [daemon default when connected]",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "",
			Usage: " use ashmaized at `HOST:PORT` instead of a local rom",
		},
		cli.StringFlag{
			Name:  "size, s",
			Value: "1GiB",
			Usage: " local rom `SIZE`",
		},
		cli.BoolFlag{
			Name:  "two-step, t",
			Usage: " local rom uses two-step generation",
		},
		cli.StringFlag{
			Name:  "pre-size",
			Value: "16MiB",
			Usage: " two-step pre-buffer `SIZE`",
		},
		cli.UintFlag{
			Name:  "mixing",
			Value: 4,
			Usage: " two-step mixing `COUNT`",
		},
		cli.UintFlag{
			Name:  "loops, l",
			Value: 0,
			Usage: " hash loops `COUNT` [0 = default]",
		},
		cli.UintFlag{
			Name:  "instructions, i",
			Value: 0,
			Usage: " instructions per loop `COUNT` [0 = default]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "hash",
			Usage:     "digest of each preimage argument, or of each stdin line",
			ArgsUsage: "[PREIMAGE...]",
			Action:    runHash,
		},
		{
			Name:      "mine",
			Usage:     "search batches of salts for one meeting a difficulty mask",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "static, p",
					Value: "",
					Usage: " static preimage `STRING`",
				},
				cli.StringFlag{
					Name:  "mask, m",
					Value: "",
					Usage: "*difficulty mask `HEX`",
				},
				cli.UintFlag{
					Name:  "batch, b",
					Value: 10000,
					Usage: " candidates per batch `COUNT`",
				},
				cli.IntFlag{
					Name:  "rounds, r",
					Value: 0,
					Usage: " give up after `COUNT` batches [0 = never]",
				},
			},
			Action: runMine,
		},
		{
			Name:      "verify",
			Usage:     "check a salt against a difficulty mask",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "salt, a",
					Value: "",
					Usage: "*salt `STRING` as returned by mine",
				},
				cli.StringFlag{
					Name:  "mask, m",
					Value: "",
					Usage: "*difficulty mask `HEX`",
				},
			},
			Action: runVerify,
		},
		{
			Name:   "rom-digest",
			Usage:  "build the local rom and display its fingerprint",
			Action: runROMDigest,
		},
		{
			Name:   "info",
			Usage:  "display ashmaized status (requires --connect)",
			Action: runInfo,
		},
		{
			Name:      "solution",
			Usage:     "fetch a solution stored by ashmaized (requires --connect)",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "static, p",
					Value: "",
					Usage: " static preimage `STRING`",
				},
				cli.StringFlag{
					Name:  "mask, m",
					Value: "",
					Usage: "*difficulty mask `HEX`",
				},
			},
			Action: runSolution,
		},
		{
			Name:      "publish",
			Usage:     "offer a mining job to subscribed daemons",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "endpoint, e",
					Value: "",
					Usage: "*bind `ENDPOINT` e.g. tcp://*:2140",
				},
				cli.StringFlag{
					Name:  "id",
					Value: "",
					Usage: "*job `ID`",
				},
				cli.StringFlag{
					Name:  "static, p",
					Value: "",
					Usage: " static preimage `STRING`",
				},
				cli.StringFlag{
					Name:  "mask, m",
					Value: "",
					Usage: "*difficulty mask `HEX`",
				},
				cli.UintFlag{
					Name:  "batch, b",
					Value: 0,
					Usage: " candidates per batch `COUNT` [0 = daemon default]",
				},
				cli.IntFlag{
					Name:  "repeat, r",
					Value: 10,
					Usage: " send `COUNT` times",
				},
				cli.DurationFlag{
					Name:  "interval",
					Value: time.Second,
					Usage: " `DURATION` between sends",
				},
			},
			Action: runPublish,
		},
		{
			Name:  "version",
			Usage: "display ashmaize-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		command := c.Args().Get(0)
		if "version" == command {
			return nil
		}

		parameters, err := getParameters(c)
		if nil != err {
			return err
		}

		m := &metadata{
			key:          c.GlobalString("key"),
			connect:      c.GlobalString("connect"),
			parameters:   parameters,
			loops:        uint32(c.GlobalUint("loops")),
			instructions: uint32(c.GlobalUint("instructions")),
			verbose:      c.GlobalBool("verbose"),
			e:            e,
			w:            w,
			r:            r,
		}

		if m.verbose {
			if "" == m.connect {
				fmt.Fprintf(e, "local rom: %s\n", m.parameters)
			} else {
				fmt.Fprintf(e, "connect: %s\n", m.connect)
			}
		}

		c.App.Metadata["config"] = m
		return nil
	}

	return app
}
