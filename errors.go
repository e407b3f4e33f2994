// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontext

import (
	"errors"
	"strconv"

	"github.com/streamjson/streamjson/internal/jsonwire"
	"github.com/streamjson/streamjson/internal/sink"
)

const errorPrefix = "jsontext: "

// Error matches every error returned by this package according to
// errors.Is, the same way encoding/json/v2's own Error sentinel does.
const Error = writerError("jsontext error")

type writerError string

func (e writerError) Error() string { return string(e) }
func (e writerError) Is(target error) bool {
	return e == target || target == Error
}

// Kind classifies why a Writer call failed, per the error surface design:
// none of these are recoverable mid-token, and all are reported before any
// byte of the offending token is committed.
type Kind uint8

const (
	_ Kind = iota
	InvalidOperation
	DepthLimitExceeded
	ArgumentTooLarge
	InvalidUTF8
	InvalidUTF16
	InvalidFloatValue
	Overcommit
	OutOfSpace
)

func (k Kind) String() string {
	switch k {
	case InvalidOperation:
		return "invalid operation"
	case DepthLimitExceeded:
		return "depth limit exceeded"
	case ArgumentTooLarge:
		return "argument too large"
	case InvalidUTF8:
		return "invalid UTF-8"
	case InvalidUTF16:
		return "invalid UTF-16"
	case InvalidFloatValue:
		return "invalid float value"
	case Overcommit:
		return "sink overcommit"
	case OutOfSpace:
		return "sink out of space"
	default:
		return "unknown error"
	}
}

// WriteError reports why a token write was rejected.
//
// The contents of this error as produced by this package may change over
// time; callers should compare against Error (or a Kind via errors.As)
// rather than matching on the message text.
type WriteError struct {
	Kind Kind

	// ByteOffset is bytes_committed at the time of the failing call: the
	// offset up to which output remains valid and the writer remains
	// usable.
	ByteOffset int64

	// Err is the underlying cause, if any (e.g. a jsonwire or sink error).
	Err error
}

func (e *WriteError) Error() string {
	s := errorPrefix + e.Kind.String()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	s += " (after byte offset " + strconv.FormatInt(e.ByteOffset, 10) + ")"
	return s
}

func (e *WriteError) Is(target error) bool {
	return e == target || target == Error || errors.Is(e.Err, target)
}

func (e *WriteError) Unwrap() error { return e.Err }

var (
	errInvalidOperation   = writerError("invalid operation")
	errDepthLimitExceeded = writerError("depth limit exceeded")
)

// newError wraps a Kind and optional cause with the writer's current byte
// offset, producing the error actually returned to callers.
func (w *Writer) newError(kind Kind, cause error) error {
	return &WriteError{Kind: kind, ByteOffset: w.bytesCommitted, Err: cause}
}

// classifySinkError maps a BufferSink failure onto the writer's own Kind
// taxonomy so callers never need to know about the internal/sink package.
func classifySinkError(err error) Kind {
	switch {
	case errors.Is(err, sink.ErrOvercommit):
		return Overcommit
	case errors.Is(err, sink.ErrOutOfSpace):
		return OutOfSpace
	default:
		return OutOfSpace
	}
}

// classifyEncodingError maps a jsonwire codec failure onto the writer's Kind
// taxonomy.
func classifyEncodingError(err error) Kind {
	switch {
	case errors.Is(err, jsonwire.ErrInvalidUTF8):
		return InvalidUTF8
	case errors.Is(err, jsonwire.ErrInvalidUTF16):
		return InvalidUTF16
	default:
		return InvalidOperation
	}
}
