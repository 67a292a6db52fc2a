// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache - built ROMs kept by key for reuse
//
// Building a table costs seconds, so jobs naming the same key share
// one table. Entries expire when unused; the cache then drops its own
// reference and the table is freed once callers close theirs.
package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ashmaize"
	"github.com/bitmark-inc/ashmaize/counter"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/rom"
	"github.com/bitmark-inc/ashmaize/util"
)

// Parameters - generation settings applied to every key
type Parameters struct {
	Size       uint64
	Generation rom.Generation
}

func (p Parameters) String() string {
	return util.FormatSize(p.Size) + " " + p.Generation.String()
}

// Registry - key to table map with expiry
type Registry struct {
	log        *logger.L
	parameters Parameters
	items      *gocache.Cache
	building   singleflight.Group
	builds     counter.Counter

	// maximum number of tables, zero for no limit
	limit    sync.Mutex
	maximum  int
	reserved int
}

// New - an empty registry; unused entries are closed after expiry
func New(log *logger.L, parameters Parameters, expiry time.Duration) *Registry {
	r := &Registry{
		log:        log,
		parameters: parameters,
		items:      gocache.New(expiry, expiry/2),
	}
	r.items.OnEvicted(func(key string, value interface{}) {
		value.(*ashmaize.ROM).Close()
		r.log.Infof("released rom for key: %q", key)
	})
	return r
}

// Parameters - settings used for every build
func (r *Registry) Parameters() Parameters {
	return r.parameters
}

// SetMaximum - limit the number of cached tables, zero removes the limit
func (r *Registry) SetMaximum(maximum int) {
	r.limit.Lock()
	r.maximum = maximum
	r.limit.Unlock()
}

// reserve a slot for a new table
func (r *Registry) reserve() error {
	r.limit.Lock()
	defer r.limit.Unlock()
	if 0 != r.maximum && r.items.ItemCount()+r.reserved >= r.maximum {
		return fault.TooManyROMs
	}
	r.reserved += 1
	return nil
}

// give back a reserved slot, storing the table in it if one was built
func (r *Registry) settle(key string, built *ashmaize.ROM) {
	r.limit.Lock()
	defer r.limit.Unlock()
	if nil != built {
		r.items.SetDefault(key, built)
	}
	r.reserved -= 1
}

// Get - a reference to the table for key, building it if needed
//
// the caller must Close the returned ROM; concurrent requests for one
// key wait for a single build
func (r *Registry) Get(ctx context.Context, key string) (*ashmaize.ROM, error) {
	if "" == key {
		return nil, fault.MissingROMKey
	}

	// a cached entry may be evicted between lookup and clone
	for attempt := 0; attempt < 2; attempt += 1 {
		if value, found := r.items.Get(key); found {
			cached := value.(*ashmaize.ROM)
			if clone, err := cached.Clone(); nil == err {
				r.items.SetDefault(key, cached)
				return clone, nil
			}
		}

		value, err, shared := r.building.Do(key, func() (interface{}, error) {
			if value, found := r.items.Get(key); found {
				return value, nil
			}
			if err := r.reserve(); nil != err {
				r.log.Warnf("rejected rom for key: %q  cached: %d  error: %s", key, r.items.ItemCount(), err)
				return nil, err
			}

			start := time.Now()
			r.log.Infof("building rom: %s for key: %q", r.parameters, key)
			built, err := ashmaize.BuildROMWithGeneration(ctx, key, r.parameters.Generation, r.parameters.Size)
			if nil != err {
				r.settle(key, nil)
				r.log.Errorf("build rom for key: %q  error: %s", key, err)
				return nil, err
			}
			r.builds.Increment()
			d, _ := built.Digest()
			r.log.Infof("built rom for key: %q  digest: %s  time: %s", key, d, time.Since(start))
			r.settle(key, built)
			return built, nil
		})
		if nil != err {
			return nil, err
		}
		if shared {
			r.log.Debugf("shared build for key: %q", key)
		}

		if clone, err := value.(*ashmaize.ROM).Clone(); nil == err {
			return clone, nil
		}
	}
	return nil, fault.ErrROMReleased
}

// Remove - drop the cache's reference for key
func (r *Registry) Remove(key string) {
	r.items.Delete(key)
}

// Flush - drop every cached reference
func (r *Registry) Flush() {
	for key := range r.items.Items() {
		r.items.Delete(key)
	}
}

// Count - number of cached tables
func (r *Registry) Count() int {
	return r.items.ItemCount()
}

// Builds - number of tables built so far
func (r *Registry) Builds() uint64 {
	return r.builds.Uint64()
}
