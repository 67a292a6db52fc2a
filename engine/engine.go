// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine - the memory hard hash
//
// A salt and the ROM fingerprint seed a small register machine. Each
// round expands a random program from a running BLAKE2b state and
// executes it; operands may read ROM lines chosen by register values,
// so evaluation needs the whole table resident. The result is always
// 64 bytes.
package engine

import (
	"encoding/binary"
	"hash"
	"math/bits"

	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/ashmaize/digest"
	"github.com/bitmark-inc/ashmaize/fault"
	"github.com/bitmark-inc/ashmaize/rom"
)

// default tuning
const (
	DefaultLoops        = 8
	DefaultInstructions = 256
)

var (
	registersTag = []byte("registers")
	programTag   = []byte("program")
	memoryTag    = []byte("memory")
)

type machine struct {
	rom           *rom.ROM
	registers     [registerCount]uint64
	programDigest hash.Hash
	memoryDigest  hash.Hash
	accesses      uint64
	program       []byte
	word          [8]byte
}

// Hash - evaluate salt against the ROM
//
// pure: the same salt, ROM and tuning always give the same digest;
// safe to call from any number of goroutines sharing one ROM
func Hash(salt []byte, r *rom.ROM, loops uint32, instructions uint32) digest.Digest {

	seedInput := make([]byte, 0, digest.Length+8+len(salt))
	romDigest := r.Digest()
	seedInput = append(seedInput, romDigest[:]...)
	seedInput = binary.LittleEndian.AppendUint32(seedInput, loops)
	seedInput = binary.LittleEndian.AppendUint32(seedInput, instructions)
	seedInput = append(seedInput, salt...)
	seed := blake2b.Sum512(seedInput)

	m := &machine{
		rom:           r,
		programDigest: newDigest(programTag, seed[:]),
		memoryDigest:  newDigest(memoryTag, seed[:]),
		program:       make([]byte, int(instructions)*instructionSize),
	}

	initial := make([]byte, registerCount*8)
	expand(initial, seed[:], registersTag)
	for i := range m.registers {
		m.registers[i] = binary.LittleEndian.Uint64(initial[i*8:])
	}

	programSeed := seed[:]
	for l := uint32(0); l < loops; l += 1 {
		expand(m.program, programSeed, programTag)
		for n := 0; n < len(m.program); n += instructionSize {
			m.execute(decode(m.program[n : n+instructionSize]))
		}
		m.programDigest.Write(m.registerBytes())
		programSeed = m.programDigest.Sum(nil)
	}

	final, err := blake2b.New512(nil)
	fault.PanicIfError("engine.Hash", err)
	final.Write(m.programDigest.Sum(nil))
	final.Write(m.memoryDigest.Sum(nil))
	binary.LittleEndian.PutUint64(m.word[:], m.accesses)
	final.Write(m.word[:])
	final.Write(m.registerBytes())

	var d digest.Digest
	copy(d[:], final.Sum(nil))
	return d
}

func newDigest(tag []byte, seed []byte) hash.Hash {
	h, err := blake2b.New512(nil)
	fault.PanicIfError("engine.newDigest", err)
	h.Write(tag)
	h.Write(seed)
	return h
}

// counter mode stream: block k = BLAKE2b-512(seed || tag || le64(k))
func expand(out []byte, seed []byte, tag []byte) {
	h, err := blake2b.New512(nil)
	fault.PanicIfError("engine.expand", err)

	var counter [8]byte
	block := make([]byte, 0, blake2b.Size)
	for n, k := 0, uint64(0); n < len(out); k += 1 {
		binary.LittleEndian.PutUint64(counter[:], k)
		h.Reset()
		h.Write(seed)
		h.Write(tag)
		h.Write(counter[:])
		block = h.Sum(block[:0])
		n += copy(out[n:], block)
	}
}

func (m *machine) registerBytes() []byte {
	b := make([]byte, registerCount*8)
	for i, r := range m.registers {
		binary.LittleEndian.PutUint64(b[i*8:], r)
	}
	return b
}

func (m *machine) operand(kind operandKind, register uint8, literal uint64) uint64 {
	switch kind {
	case operandRegister:
		return m.registers[register]
	case operandMemory:
		line := m.rom.Line(literal ^ m.registers[register])
		m.memoryDigest.Write(line)
		m.accesses += 1
		w := int(literal>>61) * 8
		return binary.LittleEndian.Uint64(line[w : w+8])
	case operandLiteral:
		return literal
	case operandProgramDigest:
		return binary.LittleEndian.Uint64(m.programDigest.Sum(nil))
	case operandMemoryDigest:
		return binary.LittleEndian.Uint64(m.memoryDigest.Sum(nil))
	default:
		return literal
	}
}

func (m *machine) execute(in instruction) {
	a := m.operand(in.left, in.src1, in.lit1)
	b := m.operand(in.right, in.src2, in.lit2)

	var result uint64
	switch in.op {
	case opAdd:
		result = a + b
	case opMul:
		result = a * b
	case opMulH:
		result, _ = bits.Mul64(a, b)
	case opXor:
		result = a ^ b
	case opDiv:
		if 0 == b {
			result = a
		} else {
			result = a / b
		}
	case opMod:
		if 0 == b {
			result = a
		} else {
			result = a % b
		}
	case opISqrt:
		result = isqrt(a)
	case opBitRev:
		result = bits.Reverse64(a)
	case opRotL:
		result = bits.RotateLeft64(a, int(b&63))
	case opRotR:
		result = bits.RotateLeft64(a, -int(b&63))
	case opNeg:
		result = ^a
	case opAnd:
		result = a & b
	case opHash:
		var buffer [16]byte
		binary.LittleEndian.PutUint64(buffer[0:], a)
		binary.LittleEndian.PutUint64(buffer[8:], b)
		h := blake2b.Sum512(buffer[:])
		result = binary.LittleEndian.Uint64(h[:8])
	}
	m.registers[in.dst] = result
}

// floor(sqrt(x)) without floating point
func isqrt(x uint64) uint64 {
	var r uint64
	bit := uint64(1) << 62
	for bit > x {
		bit >>= 2
	}
	for 0 != bit {
		if x >= r+bit {
			x -= r + bit
			r = r>>1 + bit
		} else {
			r >>= 1
		}
		bit >>= 2
	}
	return r
}
