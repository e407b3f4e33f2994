// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonwire implements the low-level escaping and validation
// primitives shared by the streaming JSON writer: the escape classifier
// (first-escape-index scan) and the UTF-8/UTF-16 validating escaper.
package jsonwire

// extraEscapedASCII lists the ASCII characters, beyond what RFC 8259
// itself requires, that this writer escapes defensively so that the
// output is always safe to embed in an HTML, XML, or JS string context.
const extraEscapedASCII = `'&+<>` + "`" + `/`

// needsEscape is a 256-entry lookup table of bytes that must be escaped
// in a JSON string literal written by this package. A byte classifies as
// "needs escape" iff it is a C0 control, '"', '\\', one of the characters
// in extraEscapedASCII, or any non-ASCII byte (>= 0x80), since multi-byte
// UTF-8 sequences must always be decoded rather than copied verbatim.
var needsEscape = func() (tbl [256]bool) {
	for c := 0; c < ' '; c++ {
		tbl[c] = true
	}
	tbl['"'] = true
	tbl['\\'] = true
	for _, c := range []byte(extraEscapedASCII) {
		tbl[c] = true
	}
	for c := 0x7F; c < 0x100; c++ {
		tbl[c] = true
	}
	return tbl
}()

// NeedsEscapeByte reports whether a single byte (treated as an ASCII code
// unit) must be escaped per the writer's policy.
func NeedsEscapeByte(c byte) bool { return needsEscape[c] }

// FirstEscapeIndexUTF8 scans a byte string assumed to be UTF-8 and returns
// the index of the first byte that must be escaped, or -1 if none of the
// input needs escaping. It does not itself validate UTF-8 well-formedness;
// callers that need a verbatim-copy fast path must still run the escaper
// over any remainder to catch ill-formed sequences.
func FirstEscapeIndexUTF8(s []byte) int {
	for i := 0; i < len(s); i++ {
		if needsEscape[s[i]] {
			return i
		}
	}
	return -1
}

// FirstEscapeIndexUTF16 scans a slice of UTF-16 code units and returns the
// index of the first one that must be escaped, or -1 if none do. Code units
// above 0xFF always classify as needing escape since they cannot be copied
// verbatim into a UTF-8 JSON string literal.
func FirstEscapeIndexUTF16(s []uint16) int {
	for i, c := range s {
		if c > 0xFF || needsEscape[byte(c)] {
			return i
		}
	}
	return -1
}
