// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Solutions *PoolHandle `prefix:"S"` // proof.Solution JSON by challenge
	ROMs      *PoolHandle `prefix:"R"` // table digest by key and settings
	TestData  *PoolHandle `prefix:"Z"`
}

// Pool - the set of exported pools
var Pool pools

// holds the database handle
var poolData struct {
	sync.RWMutex
	database *leveldb.DB
}

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Initialise - open NAME.leveldb and bind every pool to it
//
// this must be called before any pool is accessed
func Initialise(database string, readOnly bool) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.database {
		return fault.AlreadyInitialised
	}

	db, err := leveldb.OpenFile(database+".leveldb", &ldb_opt.Options{
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	})
	if nil != err {
		return err
	}

	if err := checkVersion(db, readOnly); nil != err {
		logger.Criticalf("database: %q  error: %s", database, err)
		db.Close()
		return err
	}

	handles, err := bind(db)
	if nil != err {
		db.Close()
		return err
	}

	poolData.database = db
	Pool = handles
	return nil
}

// Finalise - close the database connection
func Finalise() {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.database {
		poolData.database.Close()
		poolData.database = nil
	}
	Pool = pools{}
}

// one handle per field, keyed by its single byte prefix tag
func bind(db *leveldb.DB) (pools, error) {
	var p pools

	poolType := reflect.TypeOf(p)
	poolValue := reflect.ValueOf(&p).Elem()

	seen := make(map[byte]string)
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		tag := fieldInfo.Tag.Get("prefix")
		if 1 != len(tag) {
			return pools{}, fmt.Errorf("pool: %s has invalid prefix: %q", fieldInfo.Name, tag)
		}
		prefix := tag[0]
		if other, ok := seen[prefix]; ok {
			return pools{}, fmt.Errorf("pool: %s reuses prefix: %q of: %s", fieldInfo.Name, tag, other)
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		poolValue.Field(i).Set(reflect.ValueOf(&PoolHandle{
			prefix:   prefix,
			limit:    limit,
			database: db,
		}))
	}
	return p, nil
}
