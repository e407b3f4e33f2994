// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontext

import (
	"encoding/base64"
	"math"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/streamjson/streamjson/internal/sink"
)

func newTestWriter(opts ...Option) (*Writer, *sink.GrowableSink) {
	s := sink.NewGrowableSink(nil)
	return NewWriter(s, opts...), s
}

func TestEmptyObject(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.StartObject())
	mustSucceed(t, w.EndObject())
	wantOutput(t, s, `{}`)
}

func TestSinglePropertyCompact(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.StartObject())
	mustSucceed(t, w.PropertyName("a"))
	mustSucceed(t, w.Int(1))
	mustSucceed(t, w.EndObject())
	wantOutput(t, s, `{"a":1}`)
}

func TestSinglePropertyIndented(t *testing.T) {
	w, s := newTestWriter(WithIndent(), WithIndentWidth(2))
	mustSucceed(t, w.StartObject())
	mustSucceed(t, w.PropertyName("a"))
	mustSucceed(t, w.Int(1))
	mustSucceed(t, w.EndObject())
	wantOutput(t, s, "{\n  \"a\": 1\n}")
}

func TestEscapedPropertyValue(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.StartObject())
	mustSucceed(t, w.PropertyName(`a"b`))
	mustSucceed(t, w.Null())
	mustSucceed(t, w.EndObject())
	wantOutput(t, s, `{"a\"b":null}`)
}

func TestNonASCIIPropertyName(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.StartObject())
	mustSucceed(t, w.PropertyName("π"))
	mustSucceed(t, w.Null())
	mustSucceed(t, w.EndObject())
	escape := string([]byte{'\\', 'u', '0', '3', 'c', '0'})
	wantOutput(t, s, `{"`+escape+`":null}`)
}

func TestNestedArrayOfObjects(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.StartArray())
	mustSucceed(t, w.StartObject())
	mustSucceed(t, w.PropertyName("x"))
	mustSucceed(t, w.Bool(true))
	mustSucceed(t, w.EndObject())
	mustSucceed(t, w.Null())
	mustSucceed(t, w.EndArray())
	wantOutput(t, s, `[{"x":true},null]`)
}

func TestPropertyFusedVariants(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.StartObject())
	mustSucceed(t, w.PropertyString("name", "gopher"))
	mustSucceed(t, w.PropertyInt("age", 12))
	mustSucceed(t, w.PropertyBool("ok", true))
	mustSucceed(t, w.PropertyNull("extra"))
	mustSucceed(t, w.EndObject())
	wantOutput(t, s, `{"name":"gopher","age":12,"ok":true,"extra":null}`)
}

func TestUnsignedNumberAboveInt64Max(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.Uint(math.MaxUint64))
	wantOutput(t, s, "18446744073709551615")
}

func TestFloatRejectsNaNAndInf(t *testing.T) {
	w, _ := newTestWriter(WithMultipleValues())
	if err := w.Float64(math.NaN()); err == nil {
		t.Fatalf("expected error writing NaN")
	}
	if err := w.Float64(math.Inf(1)); err == nil {
		t.Fatalf("expected error writing +Inf")
	}
	if err := w.Float64(math.Inf(-1)); err == nil {
		t.Fatalf("expected error writing -Inf")
	}
}

func TestFloatNegativeZero(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.Float64(math.Copysign(0, -1)))
	wantOutput(t, s, "-0")
}

func TestGUIDValue(t *testing.T) {
	w, s := newTestWriter()
	u := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	mustSucceed(t, w.GUID(u))
	wantOutput(t, s, `"123e4567-e89b-12d3-a456-426614174000"`)
}

func TestBase64Value(t *testing.T) {
	w, s := newTestWriter()
	mustSucceed(t, w.Base64([]byte("hello world")))
	wantOutput(t, s, `"aGVsbG8gd29ybGQ="`)
}

func TestBase64LargeInputMatchesSingleShot(t *testing.T) {
	data := make([]byte, 3*4096*2+7)
	for i := range data {
		data[i] = byte(i)
	}
	w, s := newTestWriter()
	mustSucceed(t, w.Base64(data))
	want := `"` + base64.StdEncoding.EncodeToString(data) + `"`
	wantOutput(t, s, want)
}

func TestBase64FailureLeavesSinkUnchangedAndStateUnadvanced(t *testing.T) {
	// "hello world" base64-encodes to 16 bytes, so the full token (with
	// quotes) needs 18 bytes; a 10-byte fixed sink can't satisfy even the
	// single, whole-token reservation.
	s := sink.NewFixedSink(make([]byte, 10))
	w := NewWriter(s)
	if err := w.Base64([]byte("hello world")); err == nil {
		t.Fatalf("expected failure from undersized sink")
	}
	if got := s.Bytes(); len(got) != 0 {
		t.Fatalf("sink retained %q after a failed token write, want no committed bytes", got)
	}
	if got := w.BytesCommitted(); got != 0 {
		t.Fatalf("BytesCommitted = %d after a failed token write, want 0", got)
	}
	// The state machine must not have advanced past the failed value: a
	// smaller value (well within the remaining capacity) must still be
	// accepted as the writer's first top-level value, not rejected as a
	// second one.
	if err := w.Bool(true); err != nil {
		t.Fatalf("Bool after failed Base64: %v", err)
	}
	if got, want := string(s.Bytes()), "true"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestStackKindAtDepthZeroReportsFalseWithoutPanic(t *testing.T) {
	w, _ := newTestWriter()
	if got := w.CurrentDepth(); got != 0 {
		t.Fatalf("CurrentDepth on a fresh writer = %d, want 0", got)
	}
	if got := w.StackKind(); got != false {
		t.Fatalf("StackKind at depth 0 = %v, want false", got)
	}
}

func TestDepthLimitRejectsOneDeeperThanMax(t *testing.T) {
	w, _ := newTestWriter(WithMaxDepth(2))
	mustSucceed(t, w.StartArray())
	mustSucceed(t, w.StartArray())
	if err := w.StartArray(); err == nil {
		t.Fatalf("expected DepthLimitExceeded one level past max_depth")
	}
}

func TestDepthLimitAllowsExactlyMax(t *testing.T) {
	w, _ := newTestWriter(WithMaxDepth(2))
	mustSucceed(t, w.StartArray())
	mustSucceed(t, w.StartArray())
	mustSucceed(t, w.EndArray())
	mustSucceed(t, w.EndArray())
}

func TestStructuralViolationLeavesOffsetUnchanged(t *testing.T) {
	w, _ := newTestWriter()
	mustSucceed(t, w.StartObject())
	before := w.BytesCommitted()
	if err := w.Int(1); err == nil {
		t.Fatalf("expected failure writing a bare value where a property name is required")
	}
	if got := w.BytesCommitted(); got != before {
		t.Fatalf("BytesCommitted changed on a rejected call: got %d, want %d", got, before)
	}
}

func TestSkipValidationBypassesStateMachine(t *testing.T) {
	w, s := newTestWriter(WithSkipValidation())
	mustSucceed(t, w.EndObject())
	mustSucceed(t, w.EndArray())
	wantOutput(t, s, `}]`)
}

func TestPropertyNameLengthBoundaries(t *testing.T) {
	for _, n := range []int{0, 1, minStackAllocLength - 1, minStackAllocLength, minStackAllocLength + 1} {
		name := make([]byte, n)
		for i := range name {
			name[i] = 'a' + byte(i%26)
		}
		w, s := newTestWriter()
		mustSucceed(t, w.StartObject())
		mustSucceed(t, w.PropertyName(string(name)))
		mustSucceed(t, w.Null())
		mustSucceed(t, w.EndObject())
		want := `{"` + string(name) + `":null}`
		wantOutput(t, s, want)
	}
}

func TestEscapeExpansionFillsWorstCaseBound(t *testing.T) {
	// Every byte is a C0 control, each expanding to a six-byte \u00XX escape.
	raw := make([]byte, 50)
	for i := range raw {
		raw[i] = 0x01
	}
	w, s := newTestWriter()
	mustSucceed(t, w.String(string(raw)))
	want := `"` + strings.Repeat(string([]byte{'\\', 'u', '0', '0', '0', '1'}), len(raw)) + `"`
	wantOutput(t, s, want)
}

func TestInvalidUTF8Rejected(t *testing.T) {
	w, _ := newTestWriter()
	overlong := string([]byte{0xE0, 0x80, 0x80})
	if err := w.String(overlong); err == nil {
		t.Fatalf("expected InvalidUTF8 on overlong 3-byte sequence")
	}
	w2, _ := newTestWriter()
	truncated := string([]byte{0xE2, 0x82})
	if err := w2.String(truncated); err == nil {
		t.Fatalf("expected InvalidUTF8 on truncated sequence")
	}
}

func TestInvalidUTF16LoneSurrogateRejected(t *testing.T) {
	w, _ := newTestWriter()
	if err := w.StringUTF16([]uint16{0xD800}); err == nil {
		t.Fatalf("expected InvalidUTF16 on lone high surrogate")
	}
}

func TestLoggerReceivesGrowthAndRentalDiagnostics(t *testing.T) {
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	s := sink.NewGrowableSink(nil)
	w := NewWriter(s, WithLogger(logger))
	// A tiny initial sink has zero capacity, so the first reservation
	// always grows it; forces the "sink buffer grown" record.
	mustSucceed(t, w.StartArray())

	raw := make([]byte, 300) // exceeds minStackAllocLength, forces a pool rental
	for i := range raw {
		raw[i] = 'a'
	}
	mustSucceed(t, w.String(string(raw)))

	var sawGrowth, sawRental bool
	for _, l := range lines {
		if strings.Contains(l, "sink buffer grown") {
			sawGrowth = true
		}
		if strings.Contains(l, "scratch buffer pool rental") {
			sawRental = true
		}
	}
	if !sawGrowth {
		t.Fatalf("expected a sink buffer grown log record, got %v", lines)
	}
	if !sawRental {
		t.Fatalf("expected a scratch buffer pool rental log record, got %v", lines)
	}
}

func TestFlushIsNoOpForGrowableSink(t *testing.T) {
	w, _ := newTestWriter()
	mustSucceed(t, w.Bool(true))
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func mustSucceed(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func wantOutput(t *testing.T, s *sink.GrowableSink, want string) {
	t.Helper()
	if diff := cmp.Diff(want, string(s.Bytes())); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
