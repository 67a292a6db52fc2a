// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - LevelDB backed pools
//
// Each pool is a key range of one database distinguished by a single
// prefix byte. Pools are created by Initialise from the field tags of
// the Pool structure.
package storage
