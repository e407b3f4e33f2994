// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sink implements the BufferSink abstraction the streaming JSON
// writer appends into: a growable pooled in-memory buffer, a fixed-span
// buffer, and an io.Writer-backed flushing buffer.
package sink

import "errors"

// ErrOvercommit is returned by Advance when the caller claims more bytes
// than the last span returned by GetSpan actually contained.
var ErrOvercommit = errors.New("sink: advance exceeds reserved span")

// ErrOutOfSpace is returned by GetSpan when a fixed-capacity sink cannot
// satisfy the requested minimum size.
var ErrOutOfSpace = errors.New("sink: out of space")

// CapReporter is implemented by sinks that can report their current
// backing capacity. It exists solely so a Writer can log buffer-growth
// events; a Sink that doesn't implement it is simply never logged.
type CapReporter interface {
	Cap() int
}

// Sink is the abstract output destination a Writer appends tokens into.
// Implementations need not be safe for concurrent use.
type Sink interface {
	// GetSpan returns a contiguous writable region of at least minSize
	// bytes, starting at the position the next byte should be written.
	// It may trigger allocation or rental. The returned span is only
	// valid until the next call to GetSpan or Advance.
	GetSpan(minSize int) ([]byte, error)

	// Advance declares that the first n bytes of the span most recently
	// returned by GetSpan are now valid output. n must not exceed the
	// length of that span; violating this returns ErrOvercommit.
	Advance(n int) error

	// Flush surrenders any committed-but-unflushed bytes to their final
	// destination. For purely in-memory sinks this may be a no-op.
	Flush() error
}
