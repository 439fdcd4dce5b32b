// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding_test

import (
	"testing"

	"github.com/hex-lang/gohex/pkg/encoding"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		Input string
		Want  int64
	}{
		{"0x1234", 0x1234},
		{"x1234", 0x1234},
		{"0x12", 0x12},
		{"x12", 0x12},
	}

	for _, test := range tests {
		got, err := encoding.DecodeHex(test.Input)
		if err != nil {
			t.Fatalf("DecodeHex(%q): %v", test.Input, err)
		}
		if got != test.Want {
			t.Fatalf("DecodeHex(%q): want %#x, have %#x", test.Input, test.Want, got)
		}
	}

	if _, err := encoding.DecodeHex("1234"); err == nil {
		t.Fatal("expected an error for a string missing the x/X marker")
	}
}

func TestDecodeInt(t *testing.T) {
	tests := []struct {
		Input string
		Want  int64
	}{
		{"#123", 123},
		{"123", 123},
		{"-123", -123},
	}

	for _, test := range tests {
		got, err := encoding.DecodeInt(test.Input)
		if err != nil {
			t.Fatalf("DecodeInt(%q): %v", test.Input, err)
		}
		if got != test.Want {
			t.Fatalf("DecodeInt(%q): want %d, have %d", test.Input, test.Want, got)
		}
	}
}

func TestNibbles(t *testing.T) {
	tests := []struct {
		Value int32
		Want  int64
	}{
		{0, 1},
		{5, 1},
		{15, 1},
		{16, 2},
		{300, 3},
		{-1, 1},
		{-16, 1},
		{-17, 2},
		{-4096, 3},
	}

	for _, test := range tests {
		if got := encoding.Nibbles(test.Value); got != test.Want {
			t.Fatalf("Nibbles(%d): want %d, have %d", test.Value, test.Want, got)
		}
	}
}

func TestEncodedSize(t *testing.T) {
	tests := []struct {
		Value int32
		Want  int64
	}{
		{0, 1},
		{5, 1},
		{300, 3},
		{-1, 2},
		{-16, 2},
		{-17, 2},
	}

	for _, test := range tests {
		if got := encoding.EncodedSize(test.Value); got != test.Want {
			t.Fatalf("EncodedSize(%d): want %d, have %d", test.Value, test.Want, got)
		}
	}
}

func TestInstrLen(t *testing.T) {
	tests := []struct {
		Name           string
		TargetOffset   int64
		InstrStartByte int64
		Want           int64
	}{
		{"self-loop", 0, 0, 1},
		{"forward one byte", 2, 1, 1},
		{"forward far", 300, 0, 3},
	}

	for _, test := range tests {
		got := encoding.InstrLen(test.TargetOffset, test.InstrStartByte)
		if got != test.Want {
			t.Fatalf("%s: InstrLen(%d, %d): want %d, have %d", test.Name, test.TargetOffset, test.InstrStartByte, test.Want, got)
		}
	}
}
