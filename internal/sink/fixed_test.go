// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"bytes"
	"testing"
)

func TestFixedSinkWritesWithinCapacity(t *testing.T) {
	s := NewFixedSink(make([]byte, 8))
	span, err := s.GetSpan(8)
	if err != nil {
		t.Fatalf("GetSpan: %v", err)
	}
	copy(span, "abcdefgh")
	if err := s.Advance(8); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := s.Bytes(); !bytes.Equal(got, []byte("abcdefgh")) {
		t.Fatalf("Bytes = %q", got)
	}
}

func TestFixedSinkOutOfSpace(t *testing.T) {
	s := NewFixedSink(make([]byte, 4))
	if _, err := s.GetSpan(5); err != ErrOutOfSpace {
		t.Fatalf("GetSpan(5) on 4-byte sink = %v, want ErrOutOfSpace", err)
	}
}

func TestFixedSinkExactCapacityThenFails(t *testing.T) {
	s := NewFixedSink(make([]byte, 4))
	span, err := s.GetSpan(4)
	if err != nil {
		t.Fatalf("GetSpan(4): %v", err)
	}
	copy(span, "abcd")
	if err := s.Advance(4); err != nil {
		t.Fatalf("Advance(4): %v", err)
	}
	if _, err := s.GetSpan(1); err != ErrOutOfSpace {
		t.Fatalf("GetSpan(1) after exhausting capacity = %v, want ErrOutOfSpace", err)
	}
}
