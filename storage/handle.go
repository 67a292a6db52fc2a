// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize/fault"
)

// Handle - the operations on a single pool
type Handle interface {
	Put(key []byte, value []byte)
	Get(key []byte) []byte
	Delete(key []byte)
	Fetch(start []byte, count int) ([]Element, error)
}

// PoolHandle - keys sharing a one byte prefix
type PoolHandle struct {
	prefix   byte
	limit    []byte
	database *leveldb.DB
}

// Element - a key/value pair with the pool prefix removed
type Element struct {
	Key   []byte
	Value []byte
}

func (p *PoolHandle) prefixKey(key []byte) []byte {
	k := make([]byte, 0, len(key)+1)
	return append(append(k, p.prefix), key...)
}

// run fn under the shared lock; false once the database is closed
func (p *PoolHandle) open(fn func()) bool {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.database {
		return false
	}
	fn()
	return true
}

// Put - store or overwrite a value
func (p *PoolHandle) Put(key []byte, value []byte) {
	ok := p.open(func() {
		logger.PanicIfError("pool.Put", p.database.Put(p.prefixKey(key), value, nil))
	})
	if !ok {
		logger.Panic("pool.Put: database is closed")
	}
}

// Get - the value for key, nil if absent
func (p *PoolHandle) Get(key []byte) []byte {
	var value []byte
	p.open(func() {
		v, err := p.database.Get(p.prefixKey(key), nil)
		if leveldb.ErrNotFound != err {
			logger.PanicIfError("pool.Get", err)
			value = v
		}
	})
	return value
}

// Delete - absent keys are ignored
func (p *PoolHandle) Delete(key []byte) {
	p.open(func() {
		logger.PanicIfError("pool.Delete", p.database.Delete(p.prefixKey(key), nil))
	})
}

// Fetch - up to count elements in key order starting at start
func (p *PoolHandle) Fetch(start []byte, count int) ([]Element, error) {
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	var results []Element
	var err error
	ok := p.open(func() {
		iter := p.database.NewIterator(&ldb_util.Range{Start: p.prefixKey(start), Limit: p.limit}, nil)
		defer iter.Release()

		results = make([]Element, 0, count)
		for len(results) < count && iter.Next() {
			// iterator buffers are reused on every move
			results = append(results, Element{
				Key:   append([]byte{}, iter.Key()[1:]...),
				Value: append([]byte{}, iter.Value()...),
			})
		}
		err = iter.Error()
	})
	if !ok {
		return nil, fault.DatabaseIsNotSet
	}
	if nil != err {
		return nil, err
	}
	return results, nil
}
