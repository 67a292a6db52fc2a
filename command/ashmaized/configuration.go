// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/configuration"
	"github.com/bitmark-inc/ashmaize/rom"
	"github.com/bitmark-inc/ashmaize/rpc/listeners"
	"github.com/bitmark-inc/ashmaize/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "ashmaize"

	defaultLogDirectory = "log"
	defaultLogFile      = "ashmaized.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10
	defaultROMSize    = "1GiB"
	defaultPreSize    = "16MiB"
	defaultROMExpiry  = "30m"
	defaultROMCached  = 8
	defaultBatchSize  = 10000
	defaultCPUUsage   = 50

	modeFullRandom = "full-random"
	modeTwoStep    = "two-step"
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// ROMType - table generation, shared by every key
type ROMType struct {
	Key           string `gluamapper:"key" json:"key"`
	Mode          string `gluamapper:"mode" json:"mode"`
	Size          string `gluamapper:"size" json:"size"`
	PreSize       string `gluamapper:"pre_size" json:"pre_size"`
	MixingNumbers uint32 `gluamapper:"mixing_numbers" json:"mixing_numbers"`
	Expiry        string `gluamapper:"expiry" json:"expiry"`
	MaximumCached int    `gluamapper:"maximum_cached" json:"maximum_cached"`
}

// MiningType - job subscription and solution submission
type MiningType struct {
	Subscribe []string `gluamapper:"subscribe" json:"subscribe"`
	Submit    string   `gluamapper:"submit" json:"submit"`
	BatchSize uint32   `gluamapper:"batch_size" json:"batch_size"`
}

// DatabaseType - LevelDB location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - the whole file
type Configuration struct {
	DataDirectory string                       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                       `gluamapper:"pidfile" json:"pidfile"`
	MaxCPUUsage   int                          `gluamapper:"max_cpu_usage" json:"max_cpu_usage"`
	ROM           ROMType                      `gluamapper:"rom" json:"rom"`
	Mining        MiningType                   `gluamapper:"mining" json:"mining"`
	Database      DatabaseType                 `gluamapper:"database" json:"database"`
	ClientRPC     listeners.RPCConfiguration   `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC      listeners.HTTPSConfiguration `gluamapper:"https_rpc" json:"https_rpc"`
	Logging       logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		MaxCPUUsage:   defaultCPUUsage,

		ROM: ROMType{
			Mode:          modeFullRandom,
			Size:          defaultROMSize,
			PreSize:       defaultPreSize,
			MixingNumbers: rom.DefaultMixingNumbers,
			Expiry:        defaultROMExpiry,
			MaximumCached: defaultROMCached,
		},

		Mining: MiningType{
			BatchSize: defaultBatchSize,
		},

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabaseName,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		HttpsRPC: listeners.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if options.MaxCPUUsage <= 0 || options.MaxCPUUsage > 100 {
		options.MaxCPUUsage = defaultCPUUsage
	}

	options.ROM.Mode = strings.ToLower(options.ROM.Mode)
	if _, err := options.parameters(); nil != err {
		return nil, err
	}
	if _, err := options.expiry(); nil != err {
		return nil, err
	}
	if options.ROM.MaximumCached <= 0 {
		return nil, fmt.Errorf("rom maximum_cached: %d must be positive", options.ROM.MaximumCached)
	}
	if 0 == options.Mining.BatchSize {
		return nil, fmt.Errorf("mining batch_size: %d must be positive", options.Mining.BatchSize)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	util.MakeAbsolute(
		options.DataDirectory,
		&options.PidFile,
		&options.Database.Directory,
		&options.Logging.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.HttpsRPC.Certificate,
		&options.HttpsRPC.PrivateKey,
	)

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.Absolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// parameters - generation settings from the rom section
func (c *Configuration) parameters() (cache.Parameters, error) {
	size, err := util.ParseSize(c.ROM.Size)
	if nil != err {
		return cache.Parameters{}, fmt.Errorf("rom size: %q  error: %s", c.ROM.Size, err)
	}

	switch c.ROM.Mode {
	case modeFullRandom, "":
		return cache.Parameters{Size: size, Generation: rom.FullRandom()}, nil

	case modeTwoStep:
		preSize, err := util.ParseSize(c.ROM.PreSize)
		if nil != err {
			return cache.Parameters{}, fmt.Errorf("rom pre_size: %q  error: %s", c.ROM.PreSize, err)
		}
		return cache.Parameters{Size: size, Generation: rom.TwoStep(preSize, c.ROM.MixingNumbers)}, nil

	default:
		return cache.Parameters{}, fmt.Errorf("rom mode: %q is not supported", c.ROM.Mode)
	}
}

// expiry - how long an unused table stays cached
func (c *Configuration) expiry() (time.Duration, error) {
	d, err := time.ParseDuration(c.ROM.Expiry)
	if nil != err {
		return 0, fmt.Errorf("rom expiry: %q  error: %s", c.ROM.Expiry, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("rom expiry: %q must be positive", c.ROM.Expiry)
	}
	return d, nil
}
