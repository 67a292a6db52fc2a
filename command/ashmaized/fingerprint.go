// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/cache"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/storage"
)

// storage key: rom key, 0x00, generation settings
func romRecordKey(key string, parameters cache.Parameters) []byte {
	k := make([]byte, 0, len(key)+32)
	k = append(k, key...)
	k = append(k, 0)
	return append(k, parameters.String()...)
}

// checkROMDigest - compare a built table with the one recorded on an
// earlier run, recording it if this is the first
//
// a mismatch means the generator changed and stored solutions no
// longer verify
func checkROMDigest(log *logger.L, pool storage.Handle, key string, parameters cache.Parameters, digest string) error {
	k := romRecordKey(key, parameters)

	stored := pool.Get(k)
	if nil == stored {
		log.Infof("record rom digest for key: %q  %s", key, parameters)
		pool.Put(k, []byte(digest))
		return nil
	}

	if string(stored) != digest {
		log.Criticalf("rom digest for key: %q  stored: %s  built: %s", key, stored, digest)
		return fault.ROMDigestMismatch
	}

	log.Debugf("rom digest for key: %q matches", key)
	return nil
}
