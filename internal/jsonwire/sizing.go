// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonwire

import "math"

// EscapeExpansionFactor is the worst-case number of output bytes a single
// input code unit can expand to: every code unit becomes a six-byte
// \uXXXX escape.
const EscapeExpansionFactor = 6

// UTF16To8ExpansionFactor is the worst-case number of UTF-8 bytes a single
// UTF-16 code unit can transcode to.
const UTF16To8ExpansionFactor = 3

// MaxStringWorstCase returns the maximum number of bytes that escaping n
// code units of the given unit size (1 for UTF-8 bytes, 2 for UTF-16 code
// units) could produce, plus the two surrounding quote bytes. ok is false
// if the computation would overflow an int, in which case callers must
// fail the token with TokenTooLarge before emitting any bytes.
func MaxStringWorstCase(n int, unitSize int) (size int, ok bool) {
	if n < 0 {
		return 0, false
	}
	factor := EscapeExpansionFactor
	if unitSize == 2 {
		factor *= UTF16To8ExpansionFactor
	}
	// n * factor + 2 (quotes), checked against int overflow.
	if n > (math.MaxInt-2)/factor {
		return 0, false
	}
	return n*factor + 2, true
}
