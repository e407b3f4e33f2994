// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonwire

import "testing"

func TestAppendFloat64(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{1.5, "1.5"},
		{100, "100"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1e-6, "0.000001"},
		{1e-7, "1e-7"},
	}
	for _, tt := range tests {
		if got := string(AppendFloat(nil, tt.in, 64)); got != tt.want {
			t.Errorf("AppendFloat(%v, 64) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAppendFloat32(t *testing.T) {
	got := string(AppendFloat(nil, 1.5, 32))
	if want := "1.5"; got != want {
		t.Errorf("AppendFloat(1.5, 32) = %q, want %q", got, want)
	}
}
