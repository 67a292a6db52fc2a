// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// Absolute - filePath unchanged if absolute, otherwise below directory
func Absolute(directory string, filePath string) string {
	if filepath.IsAbs(filePath) {
		return filepath.Clean(filePath)
	}
	return filepath.Join(directory, filePath)
}

// MakeAbsolute - rewrite each non-blank path in place; blank means
// "not configured" and is left alone
func MakeAbsolute(directory string, paths ...*string) {
	for _, p := range paths {
		if "" != *p {
			*p = Absolute(directory, *p)
		}
	}
}

// AnyExists - true if any of the names is present
func AnyExists(names ...string) bool {
	for _, name := range names {
		if _, err := os.Stat(name); nil == err {
			return true
		}
	}
	return false
}
