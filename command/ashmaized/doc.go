// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Hashing and mining daemon
//
// This program keeps AshMaize tables cached by key, serves hash,
// mining and verification calls over JSON-RPC and HTTPS, and
// optionally subscribes to a job stream, mining each job until a salt
// meets its difficulty mask and submitting the solution.
package main
