// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/background"
	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/proof"
	"github.com/bitmark-inc/ashmaize/rpc/certificate"
	"github.com/bitmark-inc/ashmaize/rpc/handler"
	"github.com/bitmark-inc/ashmaize/rpc/listeners"
	"github.com/bitmark-inc/ashmaize/rpc/server"
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
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]", program)
	}

	// these commands don't require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	masterConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands need the configuration but nothing else
	if processConfigCommand(arguments, masterConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(masterConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// start a channel for panic reports
	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("shutting down…")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("masterConfiguration: %v", masterConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != masterConfiguration.PidFile {
		lockFile, err := os.OpenFile(masterConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if nil != err {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, masterConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(masterConfiguration.PidFile)
	}

	// open database
	log.Info("initialise storage")
	err = storage.Initialise(masterConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// table cache
	parameters, err := masterConfiguration.parameters()
	if nil != err {
		exitwithstatus.Message("%s: rom parameters error: %s", program, err)
	}
	expiry, err := masterConfiguration.expiry()
	if nil != err {
		exitwithstatus.Message("%s: rom expiry error: %s", program, err)
	}
	registry := cache.New(logger.New("rom-cache"), parameters, expiry)
	registry.SetMaximum(masterConfiguration.ROM.MaximumCached)
	defer registry.Flush()

	// build the default table up front so the first request is not
	// delayed and a changed build is noticed at start up
	if "" != masterConfiguration.ROM.Key {
		log.Infof("building rom: %s", parameters)
		start := time.Now()
		r, err := registry.Get(context.Background(), masterConfiguration.ROM.Key)
		if nil != err {
			log.Criticalf("rom build error: %s", err)
			exitwithstatus.Message("%s: rom build error: %s", program, err)
		}
		digest, err := r.Digest()
		if nil == err {
			err = checkROMDigest(log, storage.Pool.ROMs, masterConfiguration.ROM.Key, parameters, digest)
		}
		r.Close()
		if nil != err {
			log.Criticalf("rom digest error: %s", err)
			exitwithstatus.Message("%s: rom digest error: %s", program, err)
		}
		log.Infof("rom ready in: %s", time.Since(start))
	}

	// RPC services
	rpcCount := counter.Counter(0)
	rpcServer, services := server.Create(
		logger.New("rpc-server"),
		version,
		&rpcCount,
		registry,
		masterConfiguration.ROM.Key,
		storage.Pool.Solutions,
	)

	rpcLog := logger.New("rpc")
	stoppers := []listeners.Listener{}
	defer func() {
		for _, l := range stoppers {
			l.Stop()
		}
	}()

	if 0 != len(masterConfiguration.ClientRPC.Listen) {
		tlsConfig, fingerprint, err := certificate.Load(
			rpcLog,
			"client_rpc",
			masterConfiguration.ClientRPC.Certificate,
			masterConfiguration.ClientRPC.PrivateKey,
		)
		if nil != err {
			exitwithstatus.Message("%s: client_rpc certificate error: %s", program, err)
		}
		l, err := listeners.NewRPC(&masterConfiguration.ClientRPC, rpcLog, &rpcCount, rpcServer, tlsConfig, fingerprint)
		if nil != err {
			exitwithstatus.Message("%s: client_rpc setup error: %s", program, err)
		}
		if err := l.Serve(); nil != err {
			exitwithstatus.Message("%s: client_rpc serve error: %s", program, err)
		}
		stoppers = append(stoppers, l)
	}

	if 0 != len(masterConfiguration.HttpsRPC.Listen) {
		tlsConfig, _, err := certificate.Load(
			rpcLog,
			"https_rpc",
			masterConfiguration.HttpsRPC.Certificate,
			masterConfiguration.HttpsRPC.PrivateKey,
		)
		if nil != err {
			exitwithstatus.Message("%s: https_rpc certificate error: %s", program, err)
		}
		hdlr := handler.New(logger.New("https"), rpcServer, services.Node, masterConfiguration.HttpsRPC.MaximumConnections)
		l, err := listeners.NewHTTPS(&masterConfiguration.HttpsRPC, rpcLog, tlsConfig, hdlr)
		if nil != err {
			exitwithstatus.Message("%s: https_rpc setup error: %s", program, err)
		}
		if err := l.Serve(); nil != err {
			exitwithstatus.Message("%s: https_rpc serve error: %s", program, err)
		}
		stoppers = append(stoppers, l)
	}

	// configuration reload
	watcher, err := newFileWatcher(configurationFile, logger.New(fileWatcherLoggerPrefix))
	if nil != err {
		exitwithstatus.Message("%s: file watcher setup failed with error: %s", program, err)
	}
	reader := newConfigReader(logger.New(readerLoggerPrefix), configurationFile, masterConfiguration, watcher.Changes())
	log.Infof("mining threads: %d", reader.Threads())

	processes := background.Processes{watcher, reader}

	// job subscription, optional submission
	if 0 != len(masterConfiguration.Mining.Subscribe) {
		subscriber, err := proof.NewSubscriber(logger.New("subscriber"), masterConfiguration.Mining.Subscribe)
		if nil != err {
			exitwithstatus.Message("%s: subscriber setup error: %s", program, err)
		}

		var sink solutionSink
		if "" != masterConfiguration.Mining.Submit {
			submitter, err := proof.NewSubmitter(logger.New("submitter"), masterConfiguration.Mining.Submit)
			if nil != err {
				exitwithstatus.Message("%s: submitter setup error: %s", program, err)
			}
			defer submitter.Close()
			sink = submitter
		}

		m := newMiner(
			logger.New(minerLoggerPrefix),
			registry,
			subscriber,
			sink,
			storage.Pool.Solutions,
			reader.Threads,
			masterConfiguration.Mining.BatchSize,
		)
		processes = append(processes, subscriber, m)
	} else {
		log.Info("no subscribe endpoints: mining disabled")
	}

	bg := background.Start(processes, nil)
	defer bg.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down...\n")
	}
}
