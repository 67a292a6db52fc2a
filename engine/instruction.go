// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"encoding/binary"
)

// bytes per encoded instruction
const instructionSize = 20

// number of 64 bit registers
const registerCount = 32

type opcode uint8

const (
	opAdd opcode = iota
	opMul
	opMulH
	opXor
	opDiv
	opMod
	opISqrt
	opBitRev
	opRotL
	opRotR
	opNeg
	opAnd
	opHash
)

// relative frequency of each opcode out of 256
var opcodeWeights = []struct {
	op     opcode
	weight int
}{
	{opAdd, 40},
	{opMul, 40},
	{opMulH, 20},
	{opXor, 40},
	{opDiv, 15},
	{opMod, 15},
	{opISqrt, 10},
	{opBitRev, 10},
	{opRotL, 16},
	{opRotR, 16},
	{opNeg, 10},
	{opAnd, 20},
	{opHash, 4},
}

var opcodeTable [256]opcode

func init() {
	n := 0
	for _, w := range opcodeWeights {
		for i := 0; i < w.weight; i += 1 {
			opcodeTable[n] = w.op
			n += 1
		}
	}
	if 256 != n {
		panic("engine: opcode weights must total 256")
	}
}

type operandKind uint8

const (
	operandRegister operandKind = iota
	operandMemory
	operandLiteral
	operandProgramDigest
	operandMemoryDigest
)

// nibble to operand kind
var operandTable = [16]operandKind{
	operandRegister, operandRegister, operandRegister, operandRegister,
	operandRegister, operandRegister, operandMemory, operandMemory,
	operandMemory, operandMemory, operandLiteral, operandLiteral,
	operandLiteral, operandProgramDigest, operandMemoryDigest, operandRegister,
}

type instruction struct {
	op          opcode
	left, right operandKind
	dst         uint8
	src1, src2  uint8
	lit1, lit2  uint64
}

// layout: opcode, operand kinds (low nibble left), destination,
// sources (low 5 bits first), then two little endian literals
func decode(b []byte) instruction {
	return instruction{
		op:    opcodeTable[b[0]],
		left:  operandTable[b[1]&0x0f],
		right: operandTable[b[1]>>4],
		dst:   b[2] % registerCount,
		src1:  b[3] % registerCount,
		src2:  (b[3] >> 3) % registerCount,
		lit1:  binary.LittleEndian.Uint64(b[4:12]),
		lit2:  binary.LittleEndian.Uint64(b[12:20]),
	}
}
