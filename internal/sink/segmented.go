// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

// minSegmentSize is the smallest segment SegmentedSink ever requests from
// its pool, regardless of how small an individual reservation is. This
// keeps a writer emitting many tiny tokens (a long array of small ints,
// say) from fragmenting into one pool rental per token.
const minSegmentSize = 64 << 10

// SegmentedSink is an in-memory Sink backed by a chain of segments drawn
// from a BytePool, rather than one contiguous, doubling array. Where
// GrowableSink copies its entire prior content into a larger array on
// every grow, SegmentedSink only ever copies when Bytes is called to view
// the output as one contiguous slice, which makes it the better choice
// for a writer that emits a very large document but is only flushed to
// an io.Writer-backed destination incrementally rather than read back as
// a single []byte. It reuses the same size-classed BytePool GrowableSink
// and the writer's own scratch-buffer rentals already draw from, rather
// than a second, independent pooling scheme.
type SegmentedSink struct {
	pool     *BytePool
	segments [][]byte
	length   int
	pending  int
}

// NewSegmentedSink constructs an empty SegmentedSink. If pool is nil, the
// package-level Default pool is used.
func NewSegmentedSink(pool *BytePool) *SegmentedSink {
	if pool == nil {
		pool = Default
	}
	return &SegmentedSink{pool: pool}
}

func (s *SegmentedSink) last() *[]byte { return &s.segments[len(s.segments)-1] }

func (s *SegmentedSink) available() int {
	if len(s.segments) == 0 {
		return 0
	}
	last := *s.last()
	return cap(last) - len(last)
}

func (s *SegmentedSink) GetSpan(minSize int) ([]byte, error) {
	if s.available() < minSize {
		if len(s.segments) > 0 && len(*s.last()) == 0 {
			s.pool.Put(*s.last(), false)
			s.segments = s.segments[:len(s.segments)-1]
		}
		want := minSize
		if want < minSegmentSize {
			want = minSegmentSize
		}
		s.segments = append(s.segments, s.pool.Get(want))
	}
	s.pending = minSize
	last := s.last()
	return (*last)[len(*last) : len(*last)+minSize : len(*last)+minSize], nil
}

func (s *SegmentedSink) Advance(n int) error {
	if n < 0 || n > s.pending {
		return ErrOvercommit
	}
	if n > 0 {
		last := s.last()
		*last = (*last)[:len(*last)+n]
		s.length += n
	}
	s.pending = 0
	return nil
}

// Flush is a no-op for an in-memory sink.
func (s *SegmentedSink) Flush() error { return nil }

// Bytes returns the committed contents as a single contiguous slice,
// merging segments if necessary. The returned slice aliases the sink's
// internal storage and is only valid until the next mutating call.
func (s *SegmentedSink) Bytes() []byte {
	if len(s.segments) == 0 {
		return nil
	}
	if len(s.segments) > 1 {
		merged := s.pool.Get(s.length)
		for i := range s.segments {
			merged = append(merged, s.segments[i]...)
			s.pool.Put(s.segments[i], true)
			s.segments[i] = nil
		}
		s.segments = append(s.segments[:0], merged)
	}
	return s.segments[0]
}

// Len reports the number of committed bytes.
func (s *SegmentedSink) Len() int { return s.length }

// Cap reports the current total backing capacity across all segments,
// for diagnostic logging via sink.CapReporter.
func (s *SegmentedSink) Cap() int {
	n := s.length
	n += s.available()
	return n
}

// Reset empties the sink, returning every segment to the pool.
func (s *SegmentedSink) Reset() {
	for i, seg := range s.segments {
		s.pool.Put(seg, true)
		s.segments[i] = nil
	}
	s.length = 0
	s.segments = s.segments[:0]
	s.pending = 0
}
