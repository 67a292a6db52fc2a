// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised       = ExistsError("already initialised")
	BatchTooLarge            = LengthError("batch is too large")
	CannotDecodeHex          = InvalidError("cannot decode hex")
	CertificateFileExists    = ExistsError("certificate or key file already exists")
	DatabaseIsNotSet         = ProcessError("database is not set")
	DatabaseVersion          = RecordError("database version is not supported")
	DigestLengthInvalid      = LengthError("digest length is invalid")
	ErrInvalidMixingNumbers  = InvalidError("mixing numbers must be at least one")
	ErrInvalidPreSize        = InvalidError("pre-size must be a non-zero multiple of 64 not exceeding size")
	ErrInvalidPreimage       = InvalidError("preimage is not valid text")
	ErrInvalidROMSize        = InvalidError("rom size must be a non-zero multiple of 64")
	ErrROMAllocation         = ProcessError("rom allocation failed")
	ErrROMReleased           = ProcessError("rom has been released")
	InvalidCount             = InvalidError("invalid count")
	InvalidDifficultyMask    = InvalidError("invalid difficulty mask")
	InvalidLoopCount         = InvalidError("loop count is too large")
	InvalidInstructionCount  = InvalidError("instruction count is too large")
	InvalidNonce             = InvalidError("invalid nonce")
	InvalidSalt              = InvalidError("salt does not carry a nonce prefix")
	InvalidSize              = InvalidError("invalid size")
	InvalidIpAddress         = InvalidError("invalid IP address")
	InvalidLoggerChannel     = ProcessError("invalid logger channel")
	KeyNotFound              = NotFoundError("key not found")
	MissingParameters        = InvalidError("missing parameters")
	MissingROMKey            = InvalidError("missing rom key")
	NotInitialised           = NotFoundError("not initialised")
	NotLuaTable              = InvalidError("configuration is not a table")
	RateLimiting             = InvalidError("rate limiting")
	ROMDigestMismatch        = RecordError("rom digest does not match stored value")
	SolutionNotValid         = InvalidError("solution does not meet difficulty")
	TooManyROMs              = LengthError("too many roms cached")
)

// Error - the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// IsErrExists - determine the class of an error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - error class
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrLength - error class
func IsErrLength(e error) bool { _, ok := e.(LengthError); return ok }

// IsErrNotFound - error class
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - error class
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }

// IsErrRecord - error class
func IsErrRecord(e error) bool { _, ok := e.(RecordError); return ok }
