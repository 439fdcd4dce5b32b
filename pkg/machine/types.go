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

package machine

import (
	"fmt"
	"io"
)

// Streams multiplexes the syscall ABI's WRITE/READ descriptors onto real
// io.Reader/io.Writer values, generalizing the single keyboard/display pair
// a fixed-purpose machine would wire directly. Descriptors 0, 1 and 2
// follow POSIX convention (stdin, stdout, stderr) but the map accepts any
// uint32 key a program's syscalls reference.
type Streams struct {
	In  map[uint32]io.Reader
	Out map[uint32]io.Writer
}

// NewStreams wires the conventional stdin/stdout/stderr descriptors.
func NewStreams(in io.Reader, out, errOut io.Writer) *Streams {
	return &Streams{
		In:  map[uint32]io.Reader{StreamStdin: in},
		Out: map[uint32]io.Writer{StreamStdout: out, StreamStderr: errOut},
	}
}

// MachineState is the complete architectural state of the processor: the
// program counter, the three general registers, and the word-addressed
// memory array.
type MachineState struct {
	PC   uint32
	AReg uint32
	BReg uint32
	OReg uint32

	Running  bool
	ExitCode uint32

	Memory [MemorySizeWords]uint32
}

// MachineDebugger receives callbacks around each fetch/decode/execute cycle
// and around every memory access, letting a REPL implement breakpoints and
// watchpoints without the core Step loop knowing about either.
type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint32, mc *Machine)
	Write(addr uint32, mc *Machine)
}

type Machine struct {
	Streams  *Streams
	State    MachineState
	Debugger MachineDebugger
}

// UndefinedOpcodeError reports a fetched instruction whose primary opcode
// has no defined behavior. The Hex ISA has no reserved-opcode trap, so this
// is always fatal to Step.
type UndefinedOpcodeError struct {
	PC     uint32
	Opcode uint8
}

func (err *UndefinedOpcodeError) Error() string {
	return fmt.Sprintf("machine: undefined opcode %#x at pc %#08x", err.Opcode, err.PC)
}

// UndefinedSyscallError reports an OPR SVC whose selector word does not
// match EXIT, WRITE, or READ.
type UndefinedSyscallError struct {
	PC      uint32
	Syscall uint32
}

func (err *UndefinedSyscallError) Error() string {
	return fmt.Sprintf("machine: undefined syscall %d at pc %#08x", err.Syscall, err.PC)
}

// MemoryOutOfRangeError reports an access outside the machine's fixed
// address space.
type MemoryOutOfRangeError struct {
	Addr uint32
}

func (err *MemoryOutOfRangeError) Error() string {
	return fmt.Sprintf("machine: address %#08x out of range", err.Addr)
}

// UndefinedStreamError reports a WRITE or READ syscall whose descriptor has
// no entry in the machine's Streams.
type UndefinedStreamError struct {
	Descriptor uint32
}

func (err *UndefinedStreamError) Error() string {
	return fmt.Sprintf("machine: undefined stream descriptor %d", err.Descriptor)
}
