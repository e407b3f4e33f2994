// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonwire

import "testing"

func TestNeedsEscapeByte(t *testing.T) {
	tests := []struct {
		c    byte
		want bool
	}{
		{'a', false},
		{'0', false},
		{' ', false},
		{'\t', true},
		{'\n', true},
		{'"', true},
		{'\\', true},
		{'\'', true},
		{'&', true},
		{'+', true},
		{'<', true},
		{'>', true},
		{'`', true},
		{'/', true},
		{0x7F, true},
		{0x80, true},
		{0xFF, true},
	}
	for _, tt := range tests {
		if got := NeedsEscapeByte(tt.c); got != tt.want {
			t.Errorf("NeedsEscapeByte(%q) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestFirstEscapeIndexUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", -1},
		{"hello", -1},
		{`hello"world`, 5},
		{"tab\there", 3},
		{"caf\xc3\xa9", -1}, // 'é' is multi-byte UTF-8, no byte needs escape
		{"a<b", 1},
	}
	for _, tt := range tests {
		if got := FirstEscapeIndexUTF8([]byte(tt.in)); got != tt.want {
			t.Errorf("FirstEscapeIndexUTF8(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFirstEscapeIndexUTF16(t *testing.T) {
	tests := []struct {
		in   []uint16
		want int
	}{
		{nil, -1},
		{[]uint16{'a', 'b', 'c'}, -1},
		{[]uint16{'a', '"', 'c'}, 1},
		{[]uint16{'a', 0x00E9, 'c'}, 1}, // 'é' above 0xFF, must escape
		{[]uint16{0xD83D, 0xDE00}, 0},  // surrogate pair, high half > 0xFF
	}
	for _, tt := range tests {
		if got := FirstEscapeIndexUTF16(tt.in); got != tt.want {
			t.Errorf("FirstEscapeIndexUTF16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
