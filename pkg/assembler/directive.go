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
	"fmt"

	"github.com/hex-lang/gohex/pkg/encoding"
)

// Directive is one parsed element of a Hex assembly program: a data word,
// a function/procedure marker, a label, or an instruction. Size() and
// Value() are only meaningful for directives that occupy bytes in the
// emitted stream; see the per-variant comments below.
type Directive interface {
	Token() TokenType
	Size() int64
	Value() int64
	OperandIsLabel() bool
	String() string
}

// DataDirective carries a signed 32-bit word. Its own Size is always 4; the
// up-to-3 bytes of alignment padding that may precede it in the stream are
// tracked separately by the resolver and emitter, not by the directive.
type DataDirective struct {
	Position Cursor
	value    int32
}

func NewDataDirective(position Cursor, value int32) *DataDirective {
	return &DataDirective{Position: position, value: value}
}

func (d *DataDirective) Token() TokenType    { return TOKEN_DATA }
func (d *DataDirective) Size() int64         { return 4 }
func (d *DataDirective) Value() int64        { return int64(d.value) }
func (d *DataDirective) OperandIsLabel() bool { return false }
func (d *DataDirective) String() string      { return fmt.Sprintf("DATA %d", d.value) }

type FuncDirective struct {
	Position Cursor
	Name     string
}

func (d *FuncDirective) Token() TokenType    { return TOKEN_FUNC }
func (d *FuncDirective) Size() int64         { return 0 }
func (d *FuncDirective) Value() int64        { return 0 }
func (d *FuncDirective) OperandIsLabel() bool { return false }
func (d *FuncDirective) String() string      { return "FUNC " + d.Name }

type ProcDirective struct {
	Position Cursor
	Name     string
}

func (d *ProcDirective) Token() TokenType    { return TOKEN_PROC }
func (d *ProcDirective) Size() int64         { return 0 }
func (d *ProcDirective) Value() int64        { return 0 }
func (d *ProcDirective) OperandIsLabel() bool { return false }
func (d *ProcDirective) String() string      { return "PROC " + d.Name }

// LabelDirective marks a position in the program. Its Resolved offset is
// written by the resolver, never by the parser.
type LabelDirective struct {
	Position Cursor
	Name     string
	Resolved int64
}

func (d *LabelDirective) Token() TokenType    { return TOKEN_IDENT }
func (d *LabelDirective) Size() int64         { return 0 }
func (d *LabelDirective) Value() int64        { return d.Resolved }
func (d *LabelDirective) OperandIsLabel() bool { return false }
func (d *LabelDirective) String() string      { return d.Name }

// InstrImmDirective is an instruction whose operand is a literal immediate.
type InstrImmDirective struct {
	Position Cursor
	Opcode   TokenType
	Imm      int32
}

func (d *InstrImmDirective) Token() TokenType { return d.Opcode }
func (d *InstrImmDirective) Size() int64      { return encoding.EncodedSize(d.Imm) }
func (d *InstrImmDirective) Value() int64     { return int64(d.Imm) }
func (d *InstrImmDirective) OperandIsLabel() bool { return false }
func (d *InstrImmDirective) String() string {
	return fmt.Sprintf("%s %d", d.Opcode, d.Imm)
}

// InstrLabelDirective is an instruction whose operand is label-relative.
// Resolved is written by the resolver on every fixpoint iteration; Size
// and Value read it back, so they are only meaningful after resolution.
type InstrLabelDirective struct {
	Position Cursor
	Opcode   TokenType
	Label    string
	Resolved int32
}

func (d *InstrLabelDirective) Token() TokenType { return d.Opcode }
func (d *InstrLabelDirective) Size() int64      { return encoding.EncodedSize(d.Resolved) }
func (d *InstrLabelDirective) Value() int64     { return int64(d.Resolved) }
func (d *InstrLabelDirective) OperandIsLabel() bool { return true }
func (d *InstrLabelDirective) String() string {
	return fmt.Sprintf("%s %s (%d)", d.Opcode, d.Label, d.Resolved)
}

// InstrOpDirective is an OPR instruction; its sub-opcode is fixed at parse
// time and never resized, since it always occupies exactly one byte.
type InstrOpDirective struct {
	Position Cursor
	SubOp    TokenType
}

func (d *InstrOpDirective) Token() TokenType    { return TOKEN_OPR }
func (d *InstrOpDirective) Size() int64         { return 1 }
func (d *InstrOpDirective) Value() int64        { return int64(oprSubOpcode(d.SubOp)) }
func (d *InstrOpDirective) OperandIsLabel() bool { return false }
func (d *InstrOpDirective) String() string      { return "OPR " + d.SubOp.String() }
