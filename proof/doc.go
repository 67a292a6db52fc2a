// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package proof - mining jobs in, solutions out
//
// Jobs arrive as JSON on a ZeroMQ SUB socket connected to one or more
// publishers; only the newest job matters so a pending job is replaced
// by the next one. Solutions leave as JSON on a PUSH socket and are
// also recorded locally.
package proof
