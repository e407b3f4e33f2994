// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

// FixedSink is a Sink backed by a caller-supplied span of fixed capacity.
// It never grows; once the remaining capacity cannot satisfy a
// reservation, GetSpan fails with ErrOutOfSpace. Useful for writing into
// a pre-sized buffer (e.g., a stack-allocated array or a network datagram)
// where the caller wants encoding to fail rather than allocate.
type FixedSink struct {
	buf     []byte // full capacity, buf[:n] is committed
	n       int
	pending int
}

// NewFixedSink wraps span as a fixed-capacity sink. Any existing content
// of span is discarded; committed output starts at index 0.
func NewFixedSink(span []byte) *FixedSink {
	return &FixedSink{buf: span}
}

// Bytes returns the committed contents.
func (s *FixedSink) Bytes() []byte { return s.buf[:s.n] }

// Reset empties the sink without changing its backing span.
func (s *FixedSink) Reset() {
	s.n = 0
	s.pending = 0
}

func (s *FixedSink) GetSpan(minSize int) ([]byte, error) {
	if len(s.buf)-s.n < minSize {
		return nil, ErrOutOfSpace
	}
	s.pending = minSize
	return s.buf[s.n : s.n+minSize], nil
}

func (s *FixedSink) Advance(n int) error {
	if n < 0 || n > s.pending {
		return ErrOvercommit
	}
	s.n += n
	s.pending = 0
	return nil
}

// Flush is a no-op; FixedSink has no downstream destination of its own.
func (s *FixedSink) Flush() error { return nil }
