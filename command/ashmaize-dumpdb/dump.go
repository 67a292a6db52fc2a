// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bitmark-inc/ashmaize/difficulty"
	"github.com/bitmark-inc/ashmaize/proof"
	"github.com/bitmark-inc/ashmaize/storage"
)

// colours
const (
	keyColour1 = "\033[1;36m"
	keyColour2 = "\033[1;31m"
	valColour1 = "\033[1;33m"
	valColour2 = "\033[1;34m"
	endColour  = "\033[0m"
)

type dumper struct {
	w      io.Writer
	colour bool
	ascii  bool
	raw    bool
}

// print one record, decoded when the pool format is known
func (d *dumper) element(i int, tag string, e storage.Element) {
	ck1, ck2, cv1, cv2, ce := "", "", "", "", ""
	if d.colour {
		ck1, ck2, cv1, cv2, ce = keyColour1, keyColour2, valColour1, valColour2, endColour
	}

	if !d.raw {
		if key, value, ok := decode(tag, e); ok {
			fmt.Fprintf(d.w, "%d: %sKey: %s%s%s\n", i, ck1, ck2, key, ce)
			fmt.Fprintf(d.w, "%d: %sVal: %s%s%s\n", i, cv1, cv2, value, ce)
			return
		}
	}

	fmt.Fprintf(d.w, "%d: %sKey: %s%x%s\n", i, ck1, ck2, e.Key, ce)
	if d.ascii {
		hexDump(d.w, fmt.Sprintf("%d: %sVal: %s", i, cv1, cv2), ce, e.Value)
	} else {
		fmt.Fprintf(d.w, "%d: %sVal: %s%x%s\n", i, cv1, cv2, e.Value, ce)
	}
}

// readable key and value for known pools
func decode(tag string, e storage.Element) (string, string, bool) {
	switch tag {
	case "S":
		parts := bytes.SplitN(e.Key, []byte{0}, 2)
		if 2 != len(parts) || len(parts[1]) < 5 {
			return "", "", false
		}
		static := parts[1][:len(parts[1])-5]
		mask := difficulty.Mask(binary.BigEndian.Uint32(parts[1][len(parts[1])-4:]))
		key := fmt.Sprintf("rom: %q  static: %q  mask: %s", parts[0], static, mask)

		var solution proof.Solution
		if err := json.Unmarshal(e.Value, &solution); nil != err {
			return "", "", false
		}
		value := fmt.Sprintf("job: %q  salt: %q  digest: %s  at: %s", solution.Job, solution.Salt, solution.Digest, solution.Timestamp)
		return key, value, true

	case "R":
		parts := bytes.SplitN(e.Key, []byte{0}, 2)
		if 2 != len(parts) {
			return "", "", false
		}
		return fmt.Sprintf("rom: %q  %s", parts[0], parts[1]), string(e.Value), true

	default:
		return "", "", false
	}
}

// dump hex data
func hexDump(w io.Writer, prefix string, suffix string, data []byte) {
	address := 0
	const bytesPerLine = 32
	for i := 0; i < len(data); i += bytesPerLine {
		fmt.Fprintf(w, "%s%04x  ", prefix, address)
		address += bytesPerLine
		for j := 0; j < bytesPerLine; j += 1 {
			if bytesPerLine/2 == j {
				fmt.Fprintf(w, " ")
			}
			if i+j < len(data) {
				fmt.Fprintf(w, "%02x ", data[i+j])
			} else {
				fmt.Fprintf(w, "   ")
			}
		}
		fmt.Fprintf(w, " |")
	ascii_loop:
		for j := 0; j < bytesPerLine; j += 1 {
			if i+j < len(data) {
				c := data[i+j]
				if c < 32 || c >= 127 {
					c = '.'
				}
				fmt.Fprintf(w, "%c", c)

			} else {
				break ascii_loop
			}
		}
		fmt.Fprintf(w, "|%s\n", suffix)
	}
}
