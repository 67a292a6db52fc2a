// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rom

import (
	"context"
	"encoding/binary"
	"hash"
	"runtime"

	"github.com/bitmark-inc/go-argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/fault"
)

// segments are generated and fingerprinted independently so the
// result does not depend on how many goroutines did the work
const segmentSize = 1 << 20

// key stretching parameters
const (
	seedMode        = argon2.ModeArgon2d
	seedMemory      = 1 << 12 // 4 MiB
	seedParallelism = 1
	seedIterations  = 3
	seedVersion     = argon2.Version13
	seedLength      = 64
)

var (
	seedSalt  = []byte("ashmaize-rom:")
	keyTag    = []byte("ashmaize-key:")
	mixingTag = []byte("mix")
	preTag    = []byte("pre")
)

// New - build a table of size bytes from key
//
// construction is CPU heavy and runs on all processors; it stops early
// with ctx.Err() if the context is cancelled and never returns a
// partially filled table
func New(ctx context.Context, key []byte, generation Generation, size uint64) (*ROM, error) {
	if err := generation.validate(size); nil != err {
		return nil, err
	}

	seed, err := stretch(key, generation, size)
	if nil != err {
		return nil, err
	}

	data, err := allocate(size)
	if nil != err {
		return nil, err
	}

	var segmentDigests [][]byte
	switch generation.Mode {
	case ModeTwoStep:
		pre, err := allocate(generation.PreSize)
		if nil != err {
			return nil, err
		}
		preSeed := blake2b.Sum512(append(append([]byte{}, seed...), preTag...))
		if _, err := fillRandom(ctx, pre, preSeed[:]); nil != err {
			return nil, err
		}
		segmentDigests, err = fillMixed(ctx, data, pre, seed, generation.MixingNumbers)
		if nil != err {
			return nil, err
		}
	default:
		segmentDigests, err = fillRandom(ctx, data, seed)
		if nil != err {
			return nil, err
		}
	}

	r := &ROM{
		data:       data,
		generation: generation,
	}
	r.digest = fingerprint(size, segmentDigests)
	return r, nil
}

// key stretching: Argon2d over a fixed length digest of the key so an
// empty key is still acceptable
func stretch(key []byte, generation Generation, size uint64) ([]byte, error) {
	password := blake2b.Sum512(append(append([]byte{}, keyTag...), key...))
	salt := append(append([]byte{}, seedSalt...), generation.bytes(size)...)

	params := &argon2.Context{
		Iterations:  seedIterations,
		Memory:      seedMemory,
		Parallelism: seedParallelism,
		HashLen:     seedLength,
		Mode:        seedMode,
		Version:     seedVersion,
	}
	return argon2.Hash(params, password[:], salt)
}

// make the table, turning an allocation panic into an error
func allocate(size uint64) (data []byte, err error) {
	defer func() {
		if r := recover(); nil != r {
			data = nil
			err = fault.ErrROMAllocation
		}
	}()
	return make([]byte, size), nil
}

// run fn over each segment in parallel, collecting segment digests
func eachSegment(ctx context.Context, data []byte, fn func(segment int, buffer []byte) error) ([][]byte, error) {
	count := (len(data) + segmentSize - 1) / segmentSize
	digests := make([][]byte, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for s := 0; s < count; s += 1 {
		s := s
		g.Go(func() error {
			if err := gctx.Err(); nil != err {
				return err
			}
			start := s * segmentSize
			end := start + segmentSize
			if end > len(data) {
				end = len(data)
			}
			buffer := data[start:end]
			if err := fn(s, buffer); nil != err {
				return err
			}
			d := blake2b.Sum512(buffer)
			digests[s] = d[:]
			return nil
		})
	}
	if err := g.Wait(); nil != err {
		return nil, err
	}
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	return digests, nil
}

// line i = keyed BLAKE2b-512(le64(i))
func fillRandom(ctx context.Context, data []byte, seed []byte) ([][]byte, error) {
	return eachSegment(ctx, data, func(segment int, buffer []byte) error {
		h, err := blake2b.New512(seed)
		if nil != err {
			return err
		}
		first := uint64(segment) * (segmentSize / LineSize)
		fillLines(h, buffer, first)
		return nil
	})
}

func fillLines(h hash.Hash, buffer []byte, first uint64) {
	index := make([]byte, 8)
	for n := 0; n < len(buffer); n += LineSize {
		binary.LittleEndian.PutUint64(index, first+uint64(n/LineSize))
		h.Reset()
		h.Write(index)
		h.Sum(buffer[n:n])
	}
}

// each output line is the XOR of mixingNumbers pre-buffer lines chosen
// by a per segment generator, then tagged with its own index
func fillMixed(ctx context.Context, data []byte, pre []byte, seed []byte, mixingNumbers uint32) ([][]byte, error) {
	preLines := uint64(len(pre)) / LineSize

	return eachSegment(ctx, data, func(segment int, buffer []byte) error {
		s := make([]byte, 0, len(seed)+len(mixingTag)+8)
		s = append(s, seed...)
		s = append(s, mixingTag...)
		s = binary.LittleEndian.AppendUint64(s, uint64(segment))
		segmentSeed := blake2b.Sum512(s)
		rng := newXoshiro(segmentSeed[:])

		first := uint64(segment) * (segmentSize / LineSize)
		for n := 0; n < len(buffer); n += LineSize {
			line := buffer[n : n+LineSize]
			for k := uint32(0); k < mixingNumbers; k += 1 {
				j := (rng.Uint64() % preLines) * LineSize
				source := pre[j : j+LineSize]
				for b := 0; b < LineSize; b += 8 {
					w := binary.LittleEndian.Uint64(line[b:]) ^ binary.LittleEndian.Uint64(source[b:])
					binary.LittleEndian.PutUint64(line[b:], w)
				}
			}
			w := binary.LittleEndian.Uint64(line) ^ (first + uint64(n/LineSize))
			binary.LittleEndian.PutUint64(line, w)
		}
		return nil
	})
}

func fingerprint(size uint64, segmentDigests [][]byte) digest.Digest {
	h, err := blake2b.New512(nil)
	fault.PanicIfError("rom.fingerprint", err)

	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, size)
	h.Write(b)
	for _, d := range segmentDigests {
		h.Write(d)
	}

	var d digest.Digest
	copy(d[:], h.Sum(nil))
	return d
}
