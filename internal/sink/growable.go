// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

// GrowableSink is an in-memory Sink that doubles its backing array on
// demand, drawing replacement arrays from a size-classed BytePool. It
// keeps a single contiguous backing array, unlike SegmentedSink's chain
// of segments, since a writer only ever needs its most recent
// reservation to be contiguous, not the buffer as a whole — the tradeoff
// is that every grow copies the entire prior content into the new array.
type GrowableSink struct {
	buf     []byte // buf[:len(buf)] is committed output
	pending int     // bytes reserved via GetSpan but not yet Advance'd
	pool    *BytePool
}

// NewGrowableSink constructs a GrowableSink. If pool is nil, the
// package-level Default pool is used.
func NewGrowableSink(pool *BytePool) *GrowableSink {
	if pool == nil {
		pool = Default
	}
	return &GrowableSink{pool: pool}
}

// Bytes returns the committed contents. The returned slice aliases the
// sink's internal buffer and is only valid until the next mutating call.
func (s *GrowableSink) Bytes() []byte { return s.buf }

// Cap reports the current backing array capacity, for diagnostic
// logging via sink.CapReporter.
func (s *GrowableSink) Cap() int { return cap(s.buf) }

// Reset empties the sink, retaining its backing array for reuse.
func (s *GrowableSink) Reset() {
	s.buf = s.buf[:0]
	s.pending = 0
}

func (s *GrowableSink) GetSpan(minSize int) ([]byte, error) {
	have := cap(s.buf) - len(s.buf)
	if have < minSize {
		need := len(s.buf) + minSize
		grown := s.pool.Get(max(need, 2*cap(s.buf)))
		grown = append(grown, s.buf...)
		if cap(s.buf) >= 1 {
			s.pool.Put(s.buf[:0], true)
		}
		s.buf = grown
	}
	s.pending = minSize
	return s.buf[len(s.buf) : len(s.buf)+minSize], nil
}

func (s *GrowableSink) Advance(n int) error {
	if n < 0 || n > s.pending {
		return ErrOvercommit
	}
	s.buf = s.buf[:len(s.buf)+n]
	s.pending = 0
	return nil
}

// Flush is a no-op for an in-memory sink; Bytes already reflects every
// committed byte.
func (s *GrowableSink) Flush() error { return nil }
