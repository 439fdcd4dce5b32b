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
	"encoding/binary"
	"io"
	"io/ioutil"
)

func (mc *MachineState) Reset() {
	mc.PC = 0
	mc.AReg = 0
	mc.BReg = 0
	mc.OReg = 0
	mc.Running = true
	mc.ExitCode = 0

	for i := range mc.Memory {
		mc.Memory[i] = 0
	}
}

// LoadBin resets the machine and loads the binary produced by the
// assembler into memory starting at byte address 0, packing every four
// bytes into one little-endian word.
func (mc *Machine) LoadBin(reader io.Reader) error {
	mc.State.Reset()

	data, err := ioutil.ReadAll(reader)
	if err != nil {
		return err
	}

	if len(data)%4 != 0 {
		data = append(data, make([]byte, 4-len(data)%4)...)
	}

	if len(data)/4 > MemorySizeWords {
		return &MemoryOutOfRangeError{Addr: uint32(len(data))}
	}

	for i := 0; i+4 <= len(data); i += 4 {
		mc.State.Memory[i/4] = binary.LittleEndian.Uint32(data[i : i+4])
	}

	return nil
}

func (mc *Machine) readWord(index uint32) (uint32, error) {
	if index >= MemorySizeWords {
		return 0, &MemoryOutOfRangeError{Addr: index}
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(index, mc)
	}

	return mc.State.Memory[index], nil
}

func (mc *Machine) writeWord(index uint32, value uint32) error {
	if index >= MemorySizeWords {
		return &MemoryOutOfRangeError{Addr: index}
	}

	mc.State.Memory[index] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(index, mc)
	}

	return nil
}

func (mc *Machine) fetchByte(pc uint32) (byte, error) {
	wordIndex := pc >> 2
	if wordIndex >= MemorySizeWords {
		return 0, &MemoryOutOfRangeError{Addr: pc}
	}

	shift := (pc & 0x3) * 8
	return byte((mc.State.Memory[wordIndex] >> shift) & 0xFF), nil
}

// Step executes a single fetch/decode/execute cycle: one byte is consumed
// from the instruction stream, folded into OReg, and dispatched on its
// high nibble. PFIX and NFIX extend OReg for the instruction that follows
// instead of executing anything themselves; every other opcode consumes
// OReg as its operand and then clears it.
func (mc *Machine) Step() error {
	if !mc.State.Running {
		return nil
	}

	b, err := mc.fetchByte(mc.State.PC)
	if err != nil {
		return err
	}

	mc.State.PC++
	mc.State.OReg |= uint32(b & 0xF)
	opcode := (b >> 4) & 0xF

	switch opcode {
	case OPC_PFIX:
		mc.State.OReg <<= 4
		return mc.afterStep()

	case OPC_NFIX:
		mc.State.OReg = 0xFFFFFF00 | (mc.State.OReg << 4)
		return mc.afterStep()

	case OPC_LDAM:
		v, err := mc.readWord(mc.State.OReg)
		if err != nil {
			return err
		}
		mc.State.AReg = v

	case OPC_LDBM:
		v, err := mc.readWord(mc.State.OReg)
		if err != nil {
			return err
		}
		mc.State.BReg = v

	case OPC_STAM:
		if err := mc.writeWord(mc.State.OReg, mc.State.AReg); err != nil {
			return err
		}

	case OPC_LDAC:
		mc.State.AReg = mc.State.OReg

	case OPC_LDBC:
		mc.State.BReg = mc.State.OReg

	case OPC_LDAP:
		mc.State.AReg = mc.State.PC + mc.State.OReg

	case OPC_LDAI:
		v, err := mc.readWord((mc.State.AReg >> 2) + mc.State.OReg)
		if err != nil {
			return err
		}
		mc.State.AReg = v

	case OPC_LDBI:
		v, err := mc.readWord((mc.State.BReg >> 2) + mc.State.OReg)
		if err != nil {
			return err
		}
		mc.State.BReg = v

	case OPC_STAI:
		if err := mc.writeWord((mc.State.BReg>>2)+mc.State.OReg, mc.State.AReg); err != nil {
			return err
		}

	case OPC_BR:
		mc.State.PC = mc.State.PC + mc.State.OReg

	case OPC_BRZ:
		if mc.State.AReg == 0 {
			mc.State.PC = mc.State.PC + mc.State.OReg
		}

	case OPC_BRN:
		if int32(mc.State.AReg) < 0 {
			mc.State.PC = mc.State.PC + mc.State.OReg
		}

	case OPC_OPR:
		if err := mc.opr(uint8(mc.State.OReg & 0xF)); err != nil {
			return err
		}

	default:
		return &UndefinedOpcodeError{PC: mc.State.PC - 1, Opcode: opcode}
	}

	mc.State.OReg = 0
	return mc.afterStep()
}

func (mc *Machine) afterStep() error {
	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}
	return nil
}

func (mc *Machine) opr(subop uint8) error {
	switch subop {
	case SUBOPC_BRB:
		mc.State.PC = mc.State.BReg

	case SUBOPC_ADD:
		mc.State.AReg = mc.State.AReg + mc.State.BReg

	case SUBOPC_SUB:
		mc.State.AReg = mc.State.AReg - mc.State.BReg

	case SUBOPC_SVC:
		return mc.syscall()

	default:
		return &UndefinedOpcodeError{PC: mc.State.PC - 1, Opcode: OPC_OPR}
	}

	return nil
}

// syscall implements the minimal EXIT/WRITE/READ ABI: the stack pointer is
// the byte address held in the word at byte address 4, and every syscall's
// selector and arguments live in the words at and after that pointer.
func (mc *Machine) syscall() error {
	spWord, err := mc.readWord(1)
	if err != nil {
		return err
	}
	sp := spWord >> 2

	selector, err := mc.readWord(sp)
	if err != nil {
		return err
	}

	switch selector {
	case SyscallExit:
		code, err := mc.readWord(sp + 1)
		if err != nil {
			return err
		}
		mc.State.ExitCode = code
		mc.State.Running = false

	case SyscallWrite:
		data, err := mc.readWord(sp + 2)
		if err != nil {
			return err
		}
		descriptor, err := mc.readWord(sp + 3)
		if err != nil {
			return err
		}
		return mc.writeStream(descriptor, data)

	case SyscallRead:
		descriptor, err := mc.readWord(sp + 2)
		if err != nil {
			return err
		}
		value, err := mc.readStream(descriptor)
		if err != nil {
			return err
		}
		return mc.writeWord(sp+1, value)

	default:
		return &UndefinedSyscallError{PC: mc.State.PC - 1, Syscall: selector}
	}

	return nil
}

func (mc *Machine) writeStream(descriptor uint32, data uint32) error {
	if mc.Streams == nil {
		return &UndefinedStreamError{Descriptor: descriptor}
	}

	w, ok := mc.Streams.Out[descriptor]
	if !ok {
		return &UndefinedStreamError{Descriptor: descriptor}
	}

	_, err := w.Write([]byte{byte(data & 0xFF)})
	return err
}

func (mc *Machine) readStream(descriptor uint32) (uint32, error) {
	if mc.Streams == nil {
		return 0, &UndefinedStreamError{Descriptor: descriptor}
	}

	r, ok := mc.Streams.In[descriptor]
	if !ok {
		return 0, &UndefinedStreamError{Descriptor: descriptor}
	}

	var b [1]byte
	n, err := r.Read(b[:])
	if err != nil && err != io.EOF {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	return uint32(b[0]), nil
}

// Run steps the machine until a syscall clears Running or Step returns an
// error.
func (mc *Machine) Run() error {
	for mc.State.Running {
		if err := mc.Step(); err != nil {
			return err
		}
	}
	return nil
}
