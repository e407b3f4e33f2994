// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsontext implements a streaming, forward-only, UTF-8 JSON token
// writer. It appends JSON tokens into a caller-supplied BufferSink,
// growing on demand, enforcing well-formed JSON structure via a bounded
// nesting state machine, and escaping string payloads per RFC 8259. Every
// token is written transactionally: either all of its bytes land in the
// sink, or none do.
package jsontext

import (
	"encoding/base64"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/streamjson/streamjson/internal/jsonwire"
	"github.com/streamjson/streamjson/internal/sink"
)

// Writer is a single-threaded, synchronous, forward-only JSON token
// writer over a BufferSink. The zero value is not usable; construct one
// with NewWriter. A Writer must not be used concurrently, and must not
// be retained past the lifetime of its sink.
type Writer struct {
	sink           sink.Sink
	st             state
	opts           Options
	bytesCommitted int64
	scratch        [256]byte
}

// NewWriter constructs a Writer appending into s.
func NewWriter(s sink.Sink, opts ...Option) *Writer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w := &Writer{sink: s, opts: o}
	w.st.init(o.maxDepth, o.allowMultiple)
	return w
}

// CurrentDepth returns the current container nesting depth (0 at the top
// level).
func (w *Writer) CurrentDepth() int { return w.st.Depth() }

// BytesCommitted returns the number of bytes surrendered to the sink so
// far (diagnostic offset reporting, matching a WriteError's ByteOffset).
func (w *Writer) BytesCommitted() int64 { return w.bytesCommitted }

// StackKind reports whether the innermost open container is an object.
// At depth 0 (CurrentDepth returns 0, no container open) it does not
// panic; it silently reports false, the same as an open array, since the
// zero value of the depth word carries no container kind. Callers that
// care about the distinction must check CurrentDepth first.
func (w *Writer) StackKind() (isObject bool) {
	return w.st.word.isObject()
}

// Flush surrenders any sink-pending bytes to their final destination.
// Flush does not affect bytesCommitted, which already reflects every
// byte handed to the sink via Advance.
func (w *Writer) Flush() error {
	if err := w.sink.Flush(); err != nil {
		return w.newError(classifySinkError(err), err)
	}
	return nil
}

// prefixPlan captures the separator/colon/indent bytes that must precede
// a token, computed once so its exact length and its rendering never
// disagree.
type prefixPlan struct {
	colon       bool
	colonSpace  bool
	comma       bool
	indentDepth int // -1 means no newline/indent prefix
}

func (w *Writer) planPrefix(k kind) prefixPlan {
	if w.st.needsColon() {
		return prefixPlan{colon: true, colonSpace: w.opts.indented, indentDepth: -1}
	}
	p := prefixPlan{indentDepth: -1}
	if w.st.needsSeparator(k) {
		p.comma = true
	}
	if w.opts.indented && w.st.prev != tokenNone && w.st.Depth() > 0 {
		depth := w.st.Depth()
		if k == kindEndObject || k == kindEndArray {
			depth--
		}
		p.indentDepth = depth
	}
	return p
}

func (p prefixPlan) length(indentWidth int) int {
	n := 0
	if p.colon {
		n++
		if p.colonSpace {
			n++
		}
	}
	if p.comma {
		n++
	}
	if p.indentDepth >= 0 {
		n += 1 + p.indentDepth*indentWidth
	}
	return n
}

func (p prefixPlan) append(dst []byte, indentWidth int) []byte {
	if p.colon {
		dst = append(dst, ':')
		if p.colonSpace {
			dst = append(dst, ' ')
		}
		return dst
	}
	if p.comma {
		dst = append(dst, ',')
	}
	if p.indentDepth >= 0 {
		dst = append(dst, '\n')
		for i := 0; i < p.indentDepth*indentWidth; i++ {
			dst = append(dst, ' ')
		}
	}
	return dst
}

// writeToken implements the eight-step token-write procedure: validate,
// size, reserve, write prefix, write payload, advance the sink, advance
// the state machine, and bump bytesCommitted. writePayload receives a
// span of exactly maxPayload bytes and must return the number of bytes it
// actually used (which may be less, e.g. a number shorter than its
// worst-case digit count) or an error, in which case no state mutates.
func (w *Writer) writeToken(k kind, maxPayload int, writePayload func(dst []byte) (int, error)) error {
	if !w.opts.skipValidation {
		if err := w.st.validate(k); err != nil {
			if err == errDepthLimitExceeded {
				return w.newError(DepthLimitExceeded, nil)
			}
			return w.newError(InvalidOperation, nil)
		}
	}
	plan := w.planPrefix(k)
	prefixLen := plan.length(w.opts.indentWidth)
	total := prefixLen + maxPayload
	if maxPayload < 0 || total < prefixLen {
		return w.newError(ArgumentTooLarge, nil)
	}
	capBefore, reportsCap := w.sinkCap()
	dst, err := w.sink.GetSpan(total)
	if err != nil {
		return w.newError(classifySinkError(err), err)
	}
	if reportsCap {
		w.logGrowth(capBefore)
	}
	dst = plan.append(dst[:0], w.opts.indentWidth)
	n, err := writePayload(dst[prefixLen : prefixLen+maxPayload : prefixLen+maxPayload])
	if err != nil {
		return err
	}
	used := prefixLen + n
	if err := w.sink.Advance(used); err != nil {
		return w.newError(classifySinkError(err), err)
	}
	w.st.advance(k) // validated above (or skip_validation trusts the caller)
	w.bytesCommitted += int64(used)
	return nil
}

// StartObject begins a JSON object.
func (w *Writer) StartObject() error {
	return w.writeToken(kindStartObject, 1, func(dst []byte) (int, error) {
		dst[0] = '{'
		return 1, nil
	})
}

// EndObject closes a JSON object.
func (w *Writer) EndObject() error {
	return w.writeToken(kindEndObject, 1, func(dst []byte) (int, error) {
		dst[0] = '}'
		return 1, nil
	})
}

// StartArray begins a JSON array.
func (w *Writer) StartArray() error {
	return w.writeToken(kindStartArray, 1, func(dst []byte) (int, error) {
		dst[0] = '['
		return 1, nil
	})
}

// EndArray closes a JSON array.
func (w *Writer) EndArray() error {
	return w.writeToken(kindEndArray, 1, func(dst []byte) (int, error) {
		dst[0] = ']'
		return 1, nil
	})
}

// scratchBuffer returns a buffer of at least n bytes: the writer's fixed
// scratch array when n fits within it and the configured stack-alloc
// limit, otherwise a rental from the configured pool. release must be
// called exactly once, with scrub true, since the buffer holds caller
// string data.
func (w *Writer) scratchBuffer(n int) (buf []byte, release func()) {
	limit := w.opts.stackAllocLimit
	if limit > len(w.scratch) {
		limit = len(w.scratch)
	}
	if n <= limit {
		return w.scratch[:n], func() {}
	}
	if w.opts.logger.Enabled() {
		w.opts.logger.V(1).Info("scratch buffer pool rental", "requested", n)
	}
	rented := w.opts.pool.Get(n)
	return rented[:n], func() { w.opts.pool.Put(rented, true) }
}

// sinkCap returns the sink's current backing capacity and whether it
// implements sink.CapReporter, so writeToken can detect a growth event
// around its GetSpan call without every Sink implementation needing to
// know about logging.
func (w *Writer) sinkCap() (n int, ok bool) {
	if !w.opts.logger.Enabled() {
		return 0, false
	}
	cr, ok := w.sink.(sink.CapReporter)
	if !ok {
		return 0, false
	}
	return cr.Cap(), true
}

// logGrowth emits a diagnostic record if the sink's capacity increased
// since capBefore was sampled.
func (w *Writer) logGrowth(capBefore int) {
	cr := w.sink.(sink.CapReporter)
	if after := cr.Cap(); after > capBefore {
		w.opts.logger.V(1).Info("sink buffer grown", "oldCapacity", capBefore, "newCapacity", after)
	}
}

// writeEscapedUTF8 implements the property-name/string-value writer
// described in §4.4: classify with C1, and either memcpy the raw bytes
// verbatim (no scratch buffer allocated) or escape through a scratch
// buffer via C2.
func (w *Writer) writeEscapedUTF8(k kind, s string) error {
	raw := []byte(s)
	first := jsonwire.FirstEscapeIndexUTF8(raw)
	if first < 0 {
		return w.writeToken(k, len(raw)+2, func(dst []byte) (int, error) {
			dst[0] = '"'
			n := copy(dst[1:], raw)
			dst[1+n] = '"'
			return n + 2, nil
		})
	}
	worst, ok := jsonwire.MaxStringWorstCase(len(raw), 1)
	if !ok {
		return w.newError(ArgumentTooLarge, nil)
	}
	scratch, release := w.scratchBuffer(worst)
	defer release()
	escaped, err := jsonwire.AppendEscapedUTF8(scratch[:0], raw, first)
	if err != nil {
		return w.newError(classifyEncodingError(err), err)
	}
	return w.writeToken(k, len(escaped)+2, func(dst []byte) (int, error) {
		dst[0] = '"'
		n := copy(dst[1:], escaped)
		dst[1+n] = '"'
		return n + 2, nil
	})
}

// writeEscapedUTF16 is the 16-bit code-unit counterpart of
// writeEscapedUTF8.
func (w *Writer) writeEscapedUTF16(k kind, s []uint16) error {
	first := jsonwire.FirstEscapeIndexUTF16(s)
	if first < 0 {
		return w.writeToken(k, len(s)+2, func(dst []byte) (int, error) {
			dst[0] = '"'
			n := 1
			for _, c := range s {
				dst[n] = byte(c)
				n++
			}
			dst[n] = '"'
			return n + 1, nil
		})
	}
	worst, ok := jsonwire.MaxStringWorstCase(len(s), 2)
	if !ok {
		return w.newError(ArgumentTooLarge, nil)
	}
	scratch, release := w.scratchBuffer(worst)
	defer release()
	escaped, err := jsonwire.AppendEscapedUTF16(scratch[:0], s, first)
	if err != nil {
		return w.newError(classifyEncodingError(err), err)
	}
	return w.writeToken(k, len(escaped)+2, func(dst []byte) (int, error) {
		dst[0] = '"'
		n := copy(dst[1:], escaped)
		dst[1+n] = '"'
		return n + 2, nil
	})
}

// writeRawQuoted writes s verbatim between quotes, with no classification
// or escaping: the caller is asserting that s is already a safe JSON
// string payload.
func (w *Writer) writeRawQuoted(k kind, s string) error {
	return w.writeToken(k, len(s)+2, func(dst []byte) (int, error) {
		dst[0] = '"'
		n := copy(dst[1:], s)
		dst[1+n] = '"'
		return n + 2, nil
	})
}

// PropertyName writes an object member name, escaping it as needed. The
// input is assumed to be well-formed UTF-8.
func (w *Writer) PropertyName(name string) error {
	return w.writeEscapedUTF8(kindPropertyName, name)
}

// PropertyNameUTF16 writes an object member name from 16-bit code units.
func (w *Writer) PropertyNameUTF16(name []uint16) error {
	return w.writeEscapedUTF16(kindPropertyName, name)
}

// RawPropertyName writes an object member name verbatim, suppressing
// escaping entirely. The caller must guarantee name requires no escaping.
func (w *Writer) RawPropertyName(name string) error {
	return w.writeRawQuoted(kindPropertyName, name)
}

// String writes a string value, escaping it as needed. The input is
// assumed to be well-formed UTF-8.
func (w *Writer) String(s string) error {
	return w.writeEscapedUTF8(kindValue, s)
}

// StringUTF16 writes a string value from 16-bit code units.
func (w *Writer) StringUTF16(s []uint16) error {
	return w.writeEscapedUTF16(kindValue, s)
}

// RawString writes a string value verbatim, suppressing escaping
// entirely. The caller must guarantee s requires no escaping.
func (w *Writer) RawString(s string) error {
	return w.writeRawQuoted(kindValue, s)
}

// Bool writes a boolean value.
func (w *Writer) Bool(v bool) error {
	return w.writeToken(kindValue, 5, func(dst []byte) (int, error) {
		if v {
			return copy(dst, "true"), nil
		}
		return copy(dst, "false"), nil
	})
}

// Null writes a JSON null.
func (w *Writer) Null() error {
	return w.writeToken(kindValue, 4, func(dst []byte) (int, error) {
		return copy(dst, "null"), nil
	})
}

// Int writes a signed integer value, up to 64 bits wide.
func (w *Writer) Int(v int64) error {
	return w.writeToken(kindValue, 20, func(dst []byte) (int, error) {
		return len(strconv.AppendInt(dst[:0], v, 10)), nil
	})
}

// Uint writes an unsigned integer value, up to 64 bits wide, formatted
// natively rather than through a signed 64-bit cast (unlike the source
// this writer was adapted from, which truncated values above
// math.MaxInt64).
func (w *Writer) Uint(v uint64) error {
	return w.writeToken(kindValue, 20, func(dst []byte) (int, error) {
		return len(strconv.AppendUint(dst[:0], v, 10)), nil
	})
}

// Float64 writes a 64-bit floating-point value. NaN and infinities have
// no JSON representation and are rejected with InvalidFloatValue.
func (w *Writer) Float64(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return w.newError(InvalidFloatValue, nil)
	}
	return w.writeToken(kindValue, 32, func(dst []byte) (int, error) {
		return len(jsonwire.AppendFloat(dst[:0], v, 64)), nil
	})
}

// Float32 writes a 32-bit floating-point value.
func (w *Writer) Float32(v float32) error {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return w.newError(InvalidFloatValue, nil)
	}
	return w.writeToken(kindValue, 32, func(dst []byte) (int, error) {
		return len(jsonwire.AppendFloat(dst[:0], float64(v), 32)), nil
	})
}

// DecimalValue is implemented by arbitrary-precision decimal types. The
// string it produces must already be a valid JSON number literal (an
// optional '-', digits, an optional '.' fraction, an optional exponent);
// it is copied into the output verbatim, never reformatted.
type DecimalValue interface {
	String() string
}

// Decimal writes an arbitrary-precision decimal value verbatim.
func (w *Writer) Decimal(v DecimalValue) error {
	s := v.String()
	if !jsonwire.IsValidNumber(s) {
		return w.newError(InvalidFloatValue, nil)
	}
	return w.writeToken(kindValue, len(s), func(dst []byte) (int, error) {
		return copy(dst, s), nil
	})
}

// DateTime writes a date-time value as an RFC 3339 string with
// nanosecond precision, the ISO 8601 profile this writer standardizes on.
func (w *Writer) DateTime(t time.Time) error {
	return w.writeToken(kindValue, 2+len(time.RFC3339Nano)+10, func(dst []byte) (int, error) {
		dst[0] = '"'
		n := 1
		n += len(t.AppendFormat(dst[n:n], time.RFC3339Nano))
		dst[n] = '"'
		return n + 1, nil
	})
}

// GUID writes a GUID/UUID value as its canonical hyphenated string form.
func (w *Writer) GUID(u uuid.UUID) error {
	return w.writeToken(kindValue, 2+36, func(dst []byte) (int, error) {
		dst[0] = '"'
		n := 1 + copy(dst[1:], u.String())
		dst[n] = '"'
		return n + 1, nil
	})
}

// Base64 writes bytes as a base64-encoded (standard alphabet, padded)
// string value. Unlike escaped string payloads, a base64-encoded length
// is exactly computable from the input length (no worst-case bound
// needed), so the whole token — opening quote, encoded payload, closing
// quote — goes through a single writeToken reservation: either every
// byte of it lands in the sink, or none does.
func (w *Writer) Base64(b []byte) error {
	encLen := base64.StdEncoding.EncodedLen(len(b))
	return w.writeToken(kindValue, encLen+2, func(dst []byte) (int, error) {
		dst[0] = '"'
		base64.StdEncoding.Encode(dst[1:1+encLen], b)
		dst[1+encLen] = '"'
		return encLen + 2, nil
	})
}

// Property-paired variants fuse a name and a value into one call. Output
// is identical to the corresponding two-call sequence.

// PropertyString writes name and then a string value.
func (w *Writer) PropertyString(name, value string) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.String(value)
}

// PropertyInt writes name and then a signed integer value.
func (w *Writer) PropertyInt(name string, value int64) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.Int(value)
}

// PropertyUint writes name and then an unsigned integer value.
func (w *Writer) PropertyUint(name string, value uint64) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.Uint(value)
}

// PropertyFloat64 writes name and then a 64-bit floating-point value.
func (w *Writer) PropertyFloat64(name string, value float64) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.Float64(value)
}

// PropertyBool writes name and then a boolean value.
func (w *Writer) PropertyBool(name string, value bool) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.Bool(value)
}

// PropertyNull writes name and then a JSON null.
func (w *Writer) PropertyNull(name string) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.Null()
}

// PropertyDateTime writes name and then a date-time value.
func (w *Writer) PropertyDateTime(name string, value time.Time) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.DateTime(value)
}

// PropertyGUID writes name and then a GUID value.
func (w *Writer) PropertyGUID(name string, value uuid.UUID) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.GUID(value)
}

// PropertyBase64 writes name and then a base64-encoded bytes value.
func (w *Writer) PropertyBase64(name string, value []byte) error {
	if err := w.PropertyName(name); err != nil {
		return err
	}
	return w.Base64(value)
}
