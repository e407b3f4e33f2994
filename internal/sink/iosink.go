// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"bytes"
	"io"
)

// WriterSink is a Sink that buffers committed output and surrenders it to
// an underlying io.Writer on Flush. It is grounded on the teacher's
// encodeBuffer/Encoder.Flush design, including the bytes.Buffer
// specialization that appends directly into the destination buffer
// without an intermediate copy when the caller's io.Writer happens to be
// one.
type WriterSink struct {
	buf     []byte
	pending int
	wr      io.Writer
	pool    *BytePool
}

// NewWriterSink constructs a WriterSink flushing to w. If pool is nil,
// the package-level Default pool is used for growth.
func NewWriterSink(w io.Writer, pool *BytePool) *WriterSink {
	if pool == nil {
		pool = Default
	}
	s := &WriterSink{wr: w, pool: pool}
	if bb, ok := w.(*bytes.Buffer); ok && bb != nil {
		s.buf = bb.Bytes()[bb.Len():]
	}
	return s
}

func (s *WriterSink) GetSpan(minSize int) ([]byte, error) {
	have := cap(s.buf) - len(s.buf)
	if have < minSize {
		need := len(s.buf) + minSize
		grown := s.pool.Get(max(need, max(2*cap(s.buf), 1<<12)))
		grown = append(grown, s.buf...)
		s.buf = grown
	}
	s.pending = minSize
	return s.buf[len(s.buf) : len(s.buf)+minSize], nil
}

func (s *WriterSink) Advance(n int) error {
	if n < 0 || n > s.pending {
		return ErrOvercommit
	}
	s.buf = s.buf[:len(s.buf)+n]
	s.pending = 0
	return nil
}

// Flush writes all committed-but-unwritten bytes to the underlying
// io.Writer. On a partial write, the unwritten remainder is preserved at
// the front of the buffer so a subsequent Flush can retry it — write
// errors are not fatal so long as the io.Writer's own state stays
// consistent after a partial write.
func (s *WriterSink) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	if bb, ok := s.wr.(*bytes.Buffer); ok {
		n, _ := bb.Write(s.buf)
		_ = n
		s.buf = s.buf[:0]
		if bb.Available() < bb.Len()/4 {
			bb.Grow(bb.Available() + 1)
		}
		s.buf = bb.AvailableBuffer()
		return nil
	}
	n, err := s.wr.Write(s.buf)
	if err != nil {
		if n > 0 {
			s.buf = s.buf[:copy(s.buf, s.buf[n:])]
		}
		return err
	}
	s.buf = s.buf[:0]
	return nil
}
