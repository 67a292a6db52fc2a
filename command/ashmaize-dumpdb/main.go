// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "list", HasArg: getoptions.NO_ARGUMENT, Short: 'l'},
		{Long: "delete", HasArg: getoptions.NO_ARGUMENT, Short: 'd'},
		{Long: "colour", HasArg: getoptions.NO_ARGUMENT, Short: 'g'},
		{Long: "ascii", HasArg: getoptions.NO_ARGUMENT, Short: 'a'},
		{Long: "raw", HasArg: getoptions.NO_ARGUMENT, Short: 'r'},
		{Long: "file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'f'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["list"]) > 0 {
		fmt.Printf(" tags:\n")
		for _, t := range poolTags() {
			fmt.Printf("       %s → %s\n", t[0], t[1])
		}
		return
	}

	if len(options["help"]) > 0 || 0 == len(arguments) || 1 != len(options["file"]) {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--list] [--delete] [--raw] [--count=N] --file=FILE tag [key-prefix]", program)
	}

	verbose := len(options["verbose"]) > 0
	remove := len(options["delete"]) > 0

	count := 10
	if len(options["count"]) > 0 {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err {
			exitwithstatus.Message("%s: convert count error: %s", program, err)
		}
		if count < 1 {
			exitwithstatus.Message("%s: invalid count: %d", program, count)
		}
	}

	filename := options["file"][0]
	tag := arguments[0]
	if verbose {
		fmt.Printf("read tag: %s from file: %q\n", tag, filename)
	}

	// keys are text so the prefix is taken literally
	prefix := []byte(nil)
	if len(arguments) > 1 {
		prefix = []byte(arguments[1])
	}

	logging := logger.Configuration{
		Directory: ".",
		File:      "ashmaize-dumpdb.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	if err = logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	readOnly := storage.ReadOnly
	if remove {
		readOnly = storage.ReadWrite
	}
	err = storage.Initialise(filename, readOnly)
	if nil != err {
		exitwithstatus.Message("%s: storage setup failed with error: %s", program, err)
	}
	defer storage.Finalise()

	p := poolByTag(tag)
	if nil == p {
		exitwithstatus.Message("%s: no pool corresponding to: %q", program, tag)
	}

	data, err := p.Fetch(prefix, count)
	if nil != err {
		exitwithstatus.Message("%s: error on Fetch: %s", program, err)
	}

	d := &dumper{
		w:      os.Stdout,
		colour: len(options["colour"]) > 0,
		ascii:  len(options["ascii"]) > 0,
		raw:    len(options["raw"]) > 0,
	}

	stdin := bufio.NewReader(os.Stdin)

print_loop:
	for i, e := range data {
		d.element(i, tag, e)

		if !remove {
			continue print_loop
		}

	delete_loop:
		for {
			fmt.Printf("%d: Delete Key: %q ? [yNq]: ", i, e.Key)

			response, err := stdin.ReadString('\n')
			if nil != err {
				exitwithstatus.Message("%s: error on Stdin.Read: %s", program, err)
			}

			switch strings.ToLower(strings.TrimSpace(response)) {
			case "y", "yes":
				p.Delete(e.Key)
				fmt.Printf("%d: ***DELETED: %q\n", i, e.Key)
				break delete_loop

			case "", "n", "no":
				fmt.Printf("%d: Retain Key: %q\n", i, e.Key)
				break delete_loop

			case "q", "quit", "e", "exit", "x":
				fmt.Printf("Terminated\n")
				return

			default:
				fmt.Printf("Please answer yes or no\n")
			}
		}
	}
}

// tag and field name of every pool
func poolTags() [][2]string {
	poolType := reflect.TypeOf(storage.Pool)

	tags := make([][2]string, 0, poolType.NumField())
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)
		tags = append(tags, [2]string{fieldInfo.Tag.Get("prefix"), fieldInfo.Name})
	}
	return tags
}

// the open pool for a tag, nil if there is none
func poolByTag(tag string) storage.Handle {
	poolType := reflect.TypeOf(storage.Pool)
	poolValue := reflect.ValueOf(storage.Pool)

	for i := 0; i < poolType.NumField(); i += 1 {
		if tag != poolType.Field(i).Tag.Get("prefix") {
			continue
		}
		p, ok := poolValue.Field(i).Interface().(*storage.PoolHandle)
		if !ok || nil == p {
			return nil
		}
		return p
	}
	return nil
}
