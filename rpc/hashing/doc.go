// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hashing - Hash.Compute and Hash.Batch RPCs
//
// requests name a ROM key; the table is fetched from the registry and
// a zero loop or instruction count selects the default tuning and
// oversized tuning is refused before any table is fetched
package hashing
