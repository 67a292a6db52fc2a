// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ashmaize/fault"
)

// outside every pool's key range
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentVersion uint32 = 0x100

// a new database is stamped unless read only; a newer one is refused
func checkVersion(db *leveldb.DB, readOnly bool) error {
	value, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		if readOnly {
			return nil
		}
		stamp := make([]byte, 4)
		binary.BigEndian.PutUint32(stamp, currentVersion)
		return db.Put(versionKey, stamp, nil)
	}
	if nil != err {
		return err
	}

	if 4 != len(value) {
		return fault.DatabaseVersion
	}
	if binary.BigEndian.Uint32(value) > currentVersion {
		return fault.DatabaseVersion
	}
	return nil
}
