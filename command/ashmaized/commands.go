// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/rpc/certificate"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)
		addresses := []string{}
		if len(arguments) > 1 {
			addresses = arguments[1:]
		}
		err := certificate.Generate("ashmaized", certificateFilename, privateKeyFilename, addresses)
		if nil != err {
			exitwithstatus.Message("generate RPC key pair: %q and %q  error: %s", privateKeyFilename, certificateFilename, err)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "start", "run":
		return false // continue processing

	case "version", "v":
		fmt.Printf("%s\n", version)

	// requires configuration file
	case "config-test", "cfg", "rom-digest", "digest":
		return false

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %v\n", command)
		}

		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  generate-rpc-cert [DIR [IPs...]]    - create private key in: %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                             (rpc)      and certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("  rom-digest                 (digest) - build the configured ROM and print its fingerprint\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}
	return true
}

// configuration command handler
//
// these require the configuration but do not open the database
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		_, _ = out.WriteTo(os.Stdout)
		_, _ = os.Stdout.WriteString("\n")

	case "rom-digest", "digest":
		if "" == options.ROM.Key {
			exitwithstatus.Message("error: rom key is not set")
		}
		parameters, err := options.parameters()
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		start := time.Now()
		r, err := ashmaize.BuildROMWithGeneration(context.Background(), options.ROM.Key, parameters.Generation, parameters.Size)
		if nil != err {
			exitwithstatus.Message("build rom error: %s", err)
		}
		defer r.Close()
		d, err := r.Digest()
		if nil != err {
			exitwithstatus.Message("rom digest error: %s", err)
		}
		fmt.Printf("key:        %q\n", options.ROM.Key)
		fmt.Printf("parameters: %s\n", parameters)
		fmt.Printf("digest:     %s\n", d)
		fmt.Printf("time:       %s\n", time.Since(start))

	default:
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
