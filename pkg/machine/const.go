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

// MemorySizeWords is the fixed word count of the simulated address space.
// PC is a byte address into this space, as are AReg and BReg when they are
// the base of an indirect access; MemorySizeWords*4-1 is the highest legal
// byte address.
const MemorySizeWords = 200000

// Opcode values, matching the high nibble of each fetched instruction byte.
// These must agree bit-for-bit with the OPC_* constants in
// pkg/assembler/const.go.
const (
	OPC_LDAM uint8 = 0
	OPC_LDBM uint8 = 1
	OPC_LDAC uint8 = 2
	OPC_LDBC uint8 = 3
	OPC_LDAP uint8 = 4
	OPC_LDAI uint8 = 5
	OPC_LDBI uint8 = 6
	OPC_STAI uint8 = 7
	OPC_BR   uint8 = 8
	OPC_BRZ  uint8 = 9
	OPC_BRN  uint8 = 10
	OPC_OPR  uint8 = 11
	OPC_PFIX uint8 = 12
	OPC_STAM uint8 = 13
	OPC_NFIX uint8 = 14
)

// OPR sub-opcodes, carried in OReg when the primary opcode is OPC_OPR.
const (
	SUBOPC_BRB uint8 = 0
	SUBOPC_ADD uint8 = 1
	SUBOPC_SUB uint8 = 2
	SUBOPC_SVC uint8 = 3
)

// Syscall numbers, read from the word at the stack pointer when OPR SVC
// executes. The stack pointer itself is the byte address held in the word
// at byte address 4 (word index 1).
const (
	SyscallExit  uint32 = 0
	SyscallWrite uint32 = 1
	SyscallRead  uint32 = 2
)

// Stream descriptors recognised by the default Streams wiring, POSIX-shaped.
const (
	StreamStdin  uint32 = 0
	StreamStdout uint32 = 1
	StreamStderr uint32 = 2
)
