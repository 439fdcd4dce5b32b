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

package assembler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hex-lang/gohex/pkg/assembler"
)

type testCase struct {
	Name   string
	Input  string
	Output []byte
	Labels map[string]int64
}

type failCase struct {
	Name  string
	Input string
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	t.Helper()

	result, errs := assembler.Assemble(strings.NewReader(test.Input), test.Name)
	if len(errs) > 0 {
		t.Fatalf("%s: unexpected error: %v", test.Name, errs[0])
	}

	if test.Output != nil && !bytes.Equal(result.Binary, test.Output) {
		t.Fatalf(
			"%s: binary mismatch\nwant: % x\nhave: % x",
			test.Name, test.Output, result.Binary,
		)
	}

	for name, want := range test.Labels {
		have, ok := result.Labels[name]
		if !ok {
			t.Fatalf("%s: label %q missing from label table", test.Name, name)
		}
		if have != want {
			t.Fatalf("%s: label %q: want %d, have %d", test.Name, name, want, have)
		}
	}
}

func testAssemblerFailure(t *testing.T, test *failCase) {
	t.Helper()

	_, errs := assembler.Assemble(strings.NewReader(test.Input), test.Name)
	if len(errs) == 0 {
		t.Fatalf("%s: expected an error, got none", test.Name)
	}
}

func TestAssembleDirect(t *testing.T) {
	tests := []testCase{
		{
			Name:   "single OPR",
			Input:  "OPR SVC",
			Output: []byte{0xB3},
		},
		{
			Name:   "small immediate load",
			Input:  "LDAC 5",
			Output: []byte{0x25},
		},
		{
			Name:   "negative small immediate",
			Input:  "LDAC -1",
			Output: []byte{0xEF, 0x2F},
		},
		{
			Name:   "large positive immediate needs PFIX",
			Input:  "LDAC 300",
			Output: []byte{0xC1, 0xC2, 0x2C},
		},
		{
			Name:   "negative immediate spanning two prefix bytes",
			Input:  "LDAC -4096",
			Output: []byte{0xE0, 0xC0, 0x20},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerSuccess(t, &test)
		})
	}
}

func TestAssembleLabels(t *testing.T) {
	tests := []testCase{
		{
			Name: "forward branch to end of program",
			Input: `
BR skip
OPR ADD
skip
OPR SVC
`,
			Labels: map[string]int64{"skip": 2},
		},
		{
			Name: "branch to self",
			Input: `
loop
BR loop
`,
			Labels: map[string]int64{"loop": 0},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerSuccess(t, &test)
		})
	}
}

func TestAssembleData(t *testing.T) {
	tests := []testCase{
		{
			Name: "data word is 4-byte aligned",
			Input: `
OPR SVC
DATA 1
`,
			Output: []byte{0xB3, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerSuccess(t, &test)
		})
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []failCase{
		{Name: "unknown label", Input: "BR nowhere"},
		{Name: "duplicate label", Input: "here\nhere\nOPR SVC"},
		{Name: "invalid OPR operand", Input: "OPR LDAC"},
		{Name: "missing operand", Input: "LDAC"},
		{Name: "unexpected character", Input: "LDAC 5 @"},
		{Name: "func name is not an identifier", Input: "FUNC LDAC"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testAssemblerFailure(t, &test)
		})
	}
}
