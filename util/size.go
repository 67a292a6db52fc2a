// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bitmark-inc/ashmaize/fault"
)

var sizeSuffixes = []struct {
	suffix     string
	multiplier uint64
}{
	{"KiB", 1 << 10},
	{"MiB", 1 << 20},
	{"GiB", 1 << 30},
	{"TiB", 1 << 40},
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"G", 1 << 30},
	{"T", 1 << 40},
}

// ParseSize - convert "16MiB", "1G" or "4096" to a byte count
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	multiplier := uint64(1)
	for _, sfx := range sizeSuffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			multiplier = sfx.multiplier
			s = strings.TrimSpace(strings.TrimSuffix(s, sfx.suffix))
			break
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return 0, fault.InvalidSize
	}
	if 0 != n && n*multiplier/multiplier != n {
		return 0, fault.InvalidSize
	}
	return n * multiplier, nil
}

// FormatSize - largest exact binary unit, e.g. 1073741824 -> "1GiB"
func FormatSize(n uint64) string {
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	u := 0
	for u < len(units)-1 && 0 != n && 0 == n%1024 {
		n /= 1024
		u += 1
	}
	if 0 == u {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d%s", n, units[u])
}
