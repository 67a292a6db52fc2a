// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ashmaize/util"
)

func TestAbsolute(t *testing.T) {
	assert.Equal(t, "/var/lib/ashmaize/log", util.Absolute("/var/lib/ashmaize", "log"))
	assert.Equal(t, "/tmp/x", util.Absolute("/var/lib/ashmaize", "/tmp//x"))
	assert.Equal(t, "/var/lib/x", util.Absolute("/var/lib/ashmaize", "../x"))
}

func TestMakeAbsolute(t *testing.T) {
	a := "data"
	b := ""
	c := "/etc/ashmaize.conf"
	util.MakeAbsolute("/srv", &a, &b, &c)
	assert.Equal(t, "/srv/data", a)
	assert.Equal(t, "", b, "blank path changed")
	assert.Equal(t, "/etc/ashmaize.conf", c)
}

func TestAnyExists(t *testing.T) {
	dir, err := ioutil.TempDir("", "ashmaize-util")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	present := filepath.Join(dir, "present")
	err = ioutil.WriteFile(present, []byte("x"), 0600)
	assert.Nil(t, err)

	missing := filepath.Join(dir, "missing")
	assert.False(t, util.AnyExists(missing))
	assert.False(t, util.AnyExists())
	assert.True(t, util.AnyExists(missing, present))
}
