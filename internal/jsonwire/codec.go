// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonwire

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrInvalidUTF8 reports that a byte string intended as a JSON string
// payload was not well-formed UTF-8.
var ErrInvalidUTF8 = errors.New("jsonwire: invalid UTF-8")

// ErrInvalidUTF16 reports that a uint16 code-unit sequence intended as a
// JSON string payload contained a lone or misordered surrogate.
var ErrInvalidUTF16 = errors.New("jsonwire: invalid UTF-16")

const hexDigits = "0123456789abcdef"

// AppendEscapedUTF8 appends the escaped contents of src (without
// surrounding quotes) to dst, starting the code-unit-by-code-unit work at
// firstEscape (everything before it is assumed already copied verbatim by
// the caller). It validates that src is well-formed UTF-8 and returns
// ErrInvalidUTF8 without corrupting dst beyond the last valid rune if it
// is not — per §4.2, this writer never substitutes U+FFFD for invalid
// input since doing so would silently corrupt caller data.
func AppendEscapedUTF8(dst, src []byte, firstEscape int) ([]byte, error) {
	dst = append(dst, src[:firstEscape]...)
	for i := firstEscape; i < len(src); {
		c := src[i]
		if c < utf8.RuneSelf {
			if needsEscape[c] {
				dst = appendShortOrUnicodeEscape(dst, c)
			} else {
				dst = append(dst, c)
			}
			i++
			continue
		}
		r, size := decodeRuneStrict(src[i:])
		if r == utf8.RuneError {
			return dst, ErrInvalidUTF8
		}
		dst = appendEscapedRune(dst, r)
		i += size
	}
	return dst, nil
}

// decodeRuneStrict decodes the single UTF-8 sequence at the start of b,
// rejecting overlong encodings, surrogate-range scalars, and out-of-range
// 4-byte sequences per §4.2's validation policy. It returns
// (utf8.RuneError, 0) for any ill-formed sequence; callers must treat a
// zero size as a hard validation failure rather than consume-and-continue,
// since the precise number of bytes "consumed so far" is only relevant to
// an in-place substitution strategy, which this writer deliberately does
// not implement.
func decodeRuneStrict(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return utf8.RuneError, 0
	}
	// utf8.DecodeRune already rejects overlong encodings, surrogates, and
	// out-of-range scalars by reporting RuneError with size 1 in those
	// cases, so reaching here means the sequence is well-formed.
	return r, size
}

func appendShortOrUnicodeEscape(dst []byte, c byte) []byte {
	switch c {
	case '"', '\\':
		return append(dst, '\\', c)
	case '\b':
		return append(dst, '\\', 'b')
	case '\f':
		return append(dst, '\\', 'f')
	case '\n':
		return append(dst, '\\', 'n')
	case '\r':
		return append(dst, '\\', 'r')
	case '\t':
		return append(dst, '\\', 't')
	default:
		return appendUnicodeEscape(dst, uint16(c))
	}
}

func appendUnicodeEscape(dst []byte, x uint16) []byte {
	return append(dst, '\\', 'u',
		hexDigits[(x>>12)&0xf], hexDigits[(x>>8)&0xf],
		hexDigits[(x>>4)&0xf], hexDigits[(x>>0)&0xf])
}

// appendEscapedRune appends the \uXXXX (or surrogate-pair \uXXXX\uXXXX)
// escape for a scalar value above ASCII. Every non-ASCII scalar is
// escaped by this writer (see §4.1's "any non-ASCII" rule), so this is
// always reached via the slow path rather than selectively.
func appendEscapedRune(dst []byte, r rune) []byte {
	if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
		dst = appendUnicodeEscape(dst, uint16(r1))
		dst = appendUnicodeEscape(dst, uint16(r2))
		return dst
	}
	return appendUnicodeEscape(dst, uint16(r))
}

// AppendEscapedUTF16 appends the escaped contents of a UTF-16 code-unit
// sequence (without surrounding quotes) to dst, transcoding every code
// unit to its UTF-8 JSON representation. A high surrogate not immediately
// followed by a low surrogate, or a lone low surrogate, reports
// ErrInvalidUTF16.
func AppendEscapedUTF16(dst []byte, src []uint16, firstEscape int) ([]byte, error) {
	for i := 0; i < firstEscape; i++ {
		dst = append(dst, byte(src[i])) // verbatim range is pure ASCII, not escaped
	}
	for i := firstEscape; i < len(src); i++ {
		c := src[i]
		switch {
		case isHighSurrogate(c):
			if i+1 >= len(src) || !isLowSurrogate(src[i+1]) {
				return dst, ErrInvalidUTF16
			}
			r := utf16.DecodeRune(rune(c), rune(src[i+1]))
			dst = appendEscapedRune(dst, r)
			i++
		case isLowSurrogate(c):
			return dst, ErrInvalidUTF16
		case c < utf8.RuneSelf:
			if needsEscape[byte(c)] {
				dst = appendShortOrUnicodeEscape(dst, byte(c))
			} else {
				dst = append(dst, byte(c))
			}
		case c <= 0xFF:
			// Latin-1 supplement scalars: non-ASCII, always escaped.
			dst = appendUnicodeEscape(dst, c)
		default:
			dst = appendEscapedRune(dst, rune(c))
		}
	}
	return dst, nil
}

func isHighSurrogate(c uint16) bool { return c >= 0xD800 && c <= 0xDBFF }
func isLowSurrogate(c uint16) bool  { return c >= 0xDC00 && c <= 0xDFFF }
