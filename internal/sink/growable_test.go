// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"bytes"
	"testing"
)

func TestGrowableSinkReserveCommit(t *testing.T) {
	s := NewGrowableSink(nil)
	span, err := s.GetSpan(5)
	if err != nil {
		t.Fatalf("GetSpan: %v", err)
	}
	if len(span) != 5 {
		t.Fatalf("len(span) = %d, want 5", len(span))
	}
	copy(span, "hello")
	if err := s.Advance(5); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := s.Bytes(); !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("Bytes = %q, want %q", got, "hello")
	}
}

func TestGrowableSinkGrowsAcrossReservations(t *testing.T) {
	s := NewGrowableSink(nil)
	for i := 0; i < 1000; i++ {
		span, err := s.GetSpan(16)
		if err != nil {
			t.Fatalf("GetSpan(%d): %v", i, err)
		}
		copy(span, "0123456789abcdef")
		if err := s.Advance(16); err != nil {
			t.Fatalf("Advance(%d): %v", i, err)
		}
	}
	if got, want := len(s.Bytes()), 1000*16; got != want {
		t.Fatalf("len(Bytes) = %d, want %d", got, want)
	}
}

func TestGrowableSinkOvercommit(t *testing.T) {
	s := NewGrowableSink(nil)
	if _, err := s.GetSpan(4); err != nil {
		t.Fatalf("GetSpan: %v", err)
	}
	if err := s.Advance(5); err != ErrOvercommit {
		t.Fatalf("Advance(5) after GetSpan(4) = %v, want ErrOvercommit", err)
	}
}

func TestGrowableSinkReset(t *testing.T) {
	s := NewGrowableSink(nil)
	span, _ := s.GetSpan(3)
	copy(span, "abc")
	s.Advance(3)
	s.Reset()
	if len(s.Bytes()) != 0 {
		t.Fatalf("len(Bytes) after Reset = %d, want 0", len(s.Bytes()))
	}
	if cap(s.buf) == 0 {
		t.Fatalf("Reset discarded backing array; want retained capacity")
	}
}
