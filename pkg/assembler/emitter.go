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

package assembler

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// EmitBin lays out directives (already resolved by Resolve) into their final
// byte representation: DATA words padded to 4-byte alignment, instructions
// encoded as a chain of PFIX/NFIX prefix bytes followed by a final opcode
// byte. A SymTable mapping every emitted byte offset back to its source
// position is returned alongside the bytes so the caller can persist it as
// debug information.
func EmitBin(directives []Directive, source string) ([]byte, *SymTable, error) {
	var buf bytes.Buffer

	symtable := &SymTable{
		Source:  source,
		Symbols: make(map[int64]int64),
		Labels:  make(map[int64]string),
	}

	for _, d := range directives {
		switch v := d.(type) {
		case *DataDirective:
			for buf.Len()%4 != 0 {
				buf.WriteByte(0)
			}
			symtable.Symbols[int64(buf.Len())] = v.Position.Byte
			if err := binary.Write(&buf, binary.LittleEndian, v.value); err != nil {
				return nil, nil, err
			}

		case *FuncDirective, *ProcDirective:
			// Carry no size; retained only for the symbol table.

		case *LabelDirective:
			symtable.Labels[int64(buf.Len())] = v.Name

		case *InstrImmDirective:
			symtable.Symbols[int64(buf.Len())] = v.Position.Byte
			if err := emitInstruction(&buf, instrOpcode(v.Opcode), v.Imm, v.Size()); err != nil {
				return nil, nil, err
			}

		case *InstrLabelDirective:
			symtable.Symbols[int64(buf.Len())] = v.Position.Byte
			if err := emitInstruction(&buf, instrOpcode(v.Opcode), v.Resolved, v.Size()); err != nil {
				return nil, nil, err
			}

		case *InstrOpDirective:
			symtable.Symbols[int64(buf.Len())] = v.Position.Byte
			buf.WriteByte((OPC_OPR << 4) | oprSubOpcode(v.SubOp))

		default:
			return nil, nil, fmt.Errorf("assembler: unhandled directive type %T", d)
		}
	}

	return buf.Bytes(), symtable, nil
}

// emitInstruction writes the PFIX/NFIX prefix chain for value, followed by
// the final byte carrying opcode in its high nibble. length is the total
// byte count (prefixes plus final byte), as computed by encoding.EncodedSize
// and confirmed by the resolver's fixpoint.
func emitInstruction(buf *bytes.Buffer, opcode uint8, value int32, length int64) error {
	if length < 1 {
		return fmt.Errorf("assembler: invalid instruction length %d", length)
	}

	nibbles := make([]uint8, length)
	r := value

	for i := int(length) - 1; i >= 1; i-- {
		nibbles[i] = uint8(r) & 0xF
		r >>= 4
	}

	outer := uint8(OPC_PFIX)
	if r < 0 {
		outer = OPC_NFIX
	}
	nibbles[0] = uint8(r) & 0xF

	for i := 0; i < int(length)-1; i++ {
		fix := uint8(OPC_PFIX)
		if i == 0 {
			fix = outer
		}
		buf.WriteByte((fix << 4) | nibbles[i])
	}

	buf.WriteByte((opcode << 4) | nibbles[length-1])
	return nil
}

// EmitTree writes a human-readable dump of directives, one per line: the
// byte offset, the directive's String form padded to 20 columns, and its
// size, e.g. "0x000010 BR loop (-7)          (2 bytes)" -- used by the assembler CLI's -tree
// flag. Directives must already be resolved so Size/Value reflect the
// final encoding.
func EmitTree(w io.Writer, directives []Directive) error {
	var offset int64

	for _, d := range directives {
		if _, ok := d.(*DataDirective); ok {
			for offset%4 != 0 {
				offset++
			}
		}

		fmt.Fprintf(w, "%#08x %-20s (%d bytes)\n", offset, d.String(), d.Size())
		offset += d.Size()
	}

	return nil
}
