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

package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hex-lang/gohex/pkg/machine"
)

type testCase struct {
	Name   string
	Binary []byte
	Steps  int
	AReg   uint32
	BReg   uint32
	PC     uint32
}

func testMachineSuccess(t *testing.T, test *testCase) {
	t.Helper()

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(test.Binary)); err != nil {
		t.Fatalf("%s: LoadBin: %v", test.Name, err)
	}

	for i := 0; i < test.Steps; i++ {
		if err := mc.Step(); err != nil {
			t.Fatalf("%s: Step %d: %v", test.Name, i, err)
		}
	}

	if mc.State.AReg != test.AReg {
		t.Fatalf("%s: AReg: want %#x, have %#x", test.Name, test.AReg, mc.State.AReg)
	}

	if mc.State.BReg != test.BReg {
		t.Fatalf("%s: BReg: want %#x, have %#x", test.Name, test.BReg, mc.State.BReg)
	}

	if mc.State.PC != test.PC {
		t.Fatalf("%s: PC: want %#x, have %#x", test.Name, test.PC, mc.State.PC)
	}
}

func TestStepLoadConstant(t *testing.T) {
	tests := []testCase{
		{
			Name:   "LDAC small",
			Binary: []byte{0x25}, // LDAC 5
			Steps:  1,
			AReg:   5,
			PC:     1,
		},
		{
			Name:   "LDBC small",
			Binary: []byte{0x37}, // LDBC 7
			Steps:  1,
			BReg:   7,
			PC:     1,
		},
		{
			Name:   "LDAC via PFIX",
			Binary: []byte{0xC1, 0xC2, 0x2C}, // LDAC 300
			Steps:  3,
			AReg:   300,
			PC:     3,
		},
		{
			Name:   "LDAC via NFIX",
			Binary: []byte{0xEF, 0x2F}, // LDAC -1
			Steps:  2,
			AReg:   0xFFFFFFFF,
			PC:     2,
		},
		{
			Name:   "LDAC via chained NFIX/PFIX",
			Binary: []byte{0xE0, 0xC0, 0x20}, // LDAC -4096
			Steps:  3,
			AReg:   0xFFFFF000,
			PC:     3,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			testMachineSuccess(t, &test)
		})
	}
}

func TestStepMemory(t *testing.T) {
	binary := []byte{
		0x25, // LDAC 5
		0xD0, // STAM 0  -- Memory[0] = AReg
		0x00, // LDAM 0  -- AReg = Memory[0]
	}

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := mc.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if mc.State.Memory[0] != 5 {
		t.Fatalf("Memory[0]: want 5, have %d", mc.State.Memory[0])
	}

	if mc.State.AReg != 5 {
		t.Fatalf("AReg: want 5, have %d", mc.State.AReg)
	}
}

func TestStepBranch(t *testing.T) {
	binary := []byte{
		0x81, // BR +1 (skip the next byte)
		0x21, // LDAC 1 (skipped)
		0x22, // LDAC 2
	}

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := mc.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if mc.State.AReg != 2 {
		t.Fatalf("AReg: want 2, have %d", mc.State.AReg)
	}
}

func TestStepArithmetic(t *testing.T) {
	binary := []byte{
		0x22, // LDAC 2
		0x33, // LDBC 3
		0xB1, // OPR ADD
	}

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := mc.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if mc.State.AReg != 5 {
		t.Fatalf("AReg: want 5, have %d", mc.State.AReg)
	}
}

func TestStepArithmeticSub(t *testing.T) {
	binary := []byte{
		0x25, // LDAC 5
		0x32, // LDBC 2
		0xB2, // OPR SUB
	}

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := mc.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if mc.State.AReg != 3 {
		t.Fatalf("AReg: want 3, have %d", mc.State.AReg)
	}
}

func TestStepBranchRegister(t *testing.T) {
	binary := []byte{
		0xB0, // OPR BRB
	}

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	mc.State.BReg = 0x100

	if err := mc.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if mc.State.PC != 0x100 {
		t.Fatalf("PC: want %#x, have %#x", 0x100, mc.State.PC)
	}

	if mc.State.BReg != 0x100 {
		t.Fatalf("BReg: want %#x unchanged, have %#x", 0x100, mc.State.BReg)
	}
}

func TestUndefinedOpcode(t *testing.T) {
	// 0xF nibble names no opcode.
	binary := []byte{0xF0}

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	err := mc.Step()
	if err == nil {
		t.Fatal("expected an UndefinedOpcodeError, got nil")
	}

	if _, ok := err.(*machine.UndefinedOpcodeError); !ok {
		t.Fatalf("expected *machine.UndefinedOpcodeError, got %T", err)
	}
}

// TestSyscallExit builds a syscall frame by hand rather than assembling a
// program: word[1] holds the byte address of the stack pointer, and the
// words starting there hold the selector and its arguments.
func TestSyscallExit(t *testing.T) {
	binary := make([]byte, 16) // words 0-3
	binary[4] = 8              // word[1] = 8 -> sp = word index 2
	// word[2] left zero: SyscallExit == 0
	binary[12] = 42 // word[3] = exit code

	mc := &machine.Machine{}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	mc.State.Memory[4] = uint32(0xB3) // OPR SVC in word[4]'s low byte
	mc.State.PC = 16

	if err := mc.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if mc.State.Running {
		t.Fatal("expected Running to be false after EXIT")
	}

	if mc.State.ExitCode != 42 {
		t.Fatalf("ExitCode: want 42, have %d", mc.State.ExitCode)
	}
}

func TestSyscallWrite(t *testing.T) {
	binary := make([]byte, 24) // words 0-5
	binary[4] = 8              // word[1] = 8 -> sp = word index 2
	binary[8] = 1              // word[2] = SyscallWrite
	// word[3] unused
	binary[16] = 'A'                          // word[4] = data
	binary[20] = byte(machine.StreamStdout) // word[5] = descriptor

	var out bytes.Buffer
	mc := &machine.Machine{Streams: machine.NewStreams(strings.NewReader(""), &out, &out)}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	mc.State.Memory[6] = uint32(0xB3) // OPR SVC in word[6]'s low byte
	mc.State.PC = 24

	if err := mc.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if out.String() != "A" {
		t.Fatalf("stdout: want %q, have %q", "A", out.String())
	}
}

func TestSyscallRead(t *testing.T) {
	binary := make([]byte, 20) // words 0-4
	binary[4] = 8              // word[1] = 8 -> sp = word index 2
	binary[8] = 2              // word[2] = SyscallRead
	// word[3] receives the read byte
	binary[16] = byte(machine.StreamStdin) // word[4] = descriptor

	mc := &machine.Machine{Streams: machine.NewStreams(strings.NewReader("z"), &bytes.Buffer{}, &bytes.Buffer{})}
	if err := mc.LoadBin(bytes.NewReader(binary)); err != nil {
		t.Fatalf("LoadBin: %v", err)
	}

	mc.State.Memory[5] = uint32(0xB3) // OPR SVC in word[5]'s low byte
	mc.State.PC = 20

	if err := mc.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if mc.State.Memory[3] != uint32('z') {
		t.Fatalf("Memory[3]: want %d, have %d", 'z', mc.State.Memory[3])
	}
}
