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

type TokenType uint

const (
	TOKEN_NONE TokenType = iota
	TOKEN_EOF
	TOKEN_NUMBER
	TOKEN_MINUS
	TOKEN_IDENT

	// Instruction keywords with an operand.
	TOKEN_LDAM
	TOKEN_LDBM
	TOKEN_STAM
	TOKEN_LDAC
	TOKEN_LDBC
	TOKEN_LDAP
	TOKEN_LDAI
	TOKEN_LDBI
	TOKEN_STAI
	TOKEN_BR
	TOKEN_BRZ
	TOKEN_BRN

	// OPR sub-opcodes.
	TOKEN_BRB
	TOKEN_ADD
	TOKEN_SUB
	TOKEN_SVC

	// Directive keywords.
	TOKEN_DATA
	TOKEN_FUNC
	TOKEN_PROC
	TOKEN_OPR
)

func (t TokenType) String() string {
	switch t {
	case TOKEN_NONE:
		return "NONE"
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_NUMBER:
		return "NUMBER"
	case TOKEN_MINUS:
		return "MINUS"
	case TOKEN_IDENT:
		return "IDENTIFIER"
	case TOKEN_LDAM:
		return "LDAM"
	case TOKEN_LDBM:
		return "LDBM"
	case TOKEN_STAM:
		return "STAM"
	case TOKEN_LDAC:
		return "LDAC"
	case TOKEN_LDBC:
		return "LDBC"
	case TOKEN_LDAP:
		return "LDAP"
	case TOKEN_LDAI:
		return "LDAI"
	case TOKEN_LDBI:
		return "LDBI"
	case TOKEN_STAI:
		return "STAI"
	case TOKEN_BR:
		return "BR"
	case TOKEN_BRZ:
		return "BRZ"
	case TOKEN_BRN:
		return "BRN"
	case TOKEN_BRB:
		return "BRB"
	case TOKEN_ADD:
		return "ADD"
	case TOKEN_SUB:
		return "SUB"
	case TOKEN_SVC:
		return "SVC"
	case TOKEN_DATA:
		return "DATA"
	case TOKEN_FUNC:
		return "FUNC"
	case TOKEN_PROC:
		return "PROC"
	case TOKEN_OPR:
		return "OPR"
	default:
		return "<invalid>"
	}
}

var keywords = map[string]TokenType{
	"LDAM": TOKEN_LDAM,
	"LDBM": TOKEN_LDBM,
	"STAM": TOKEN_STAM,
	"LDAC": TOKEN_LDAC,
	"LDBC": TOKEN_LDBC,
	"LDAP": TOKEN_LDAP,
	"LDAI": TOKEN_LDAI,
	"LDBI": TOKEN_LDBI,
	"STAI": TOKEN_STAI,
	"BR":   TOKEN_BR,
	"BRZ":  TOKEN_BRZ,
	"BRN":  TOKEN_BRN,
	"BRB":  TOKEN_BRB,
	"ADD":  TOKEN_ADD,
	"SUB":  TOKEN_SUB,
	"SVC":  TOKEN_SVC,
	"DATA": TOKEN_DATA,
	"FUNC": TOKEN_FUNC,
	"PROC": TOKEN_PROC,
	"OPR":  TOKEN_OPR,
}

// instructionTokens are the keywords that parse as InstrLabel/InstrImm
// directives: an opcode followed by either a label or a signed integer.
var instructionTokens = map[TokenType]bool{
	TOKEN_LDAM: true,
	TOKEN_LDBM: true,
	TOKEN_STAM: true,
	TOKEN_LDAC: true,
	TOKEN_LDBC: true,
	TOKEN_LDAP: true,
	TOKEN_LDAI: true,
	TOKEN_LDBI: true,
	TOKEN_STAI: true,
	TOKEN_BR:   true,
	TOKEN_BRZ:  true,
	TOKEN_BRN:  true,
}

// oprSubTokens are the only legal operands to OPR.
var oprSubTokens = map[TokenType]bool{
	TOKEN_BRB: true,
	TOKEN_ADD: true,
	TOKEN_SUB: true,
	TOKEN_SVC: true,
}

// Opcode numeric codes (high nibble of the encoded byte). These must agree
// bit-for-bit with the OPC_* constants in pkg/machine/const.go: the
// assembler and the VM are independent readers of the same binary format,
// exactly as an ISA table in a hardware manual is independent of both.
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

const (
	SUBOPC_BRB uint8 = 0
	SUBOPC_ADD uint8 = 1
	SUBOPC_SUB uint8 = 2
	SUBOPC_SVC uint8 = 3
)

// instrOpcode maps an instruction keyword token to its numeric opcode.
func instrOpcode(t TokenType) uint8 {
	switch t {
	case TOKEN_LDAM:
		return OPC_LDAM
	case TOKEN_LDBM:
		return OPC_LDBM
	case TOKEN_STAM:
		return OPC_STAM
	case TOKEN_LDAC:
		return OPC_LDAC
	case TOKEN_LDBC:
		return OPC_LDBC
	case TOKEN_LDAP:
		return OPC_LDAP
	case TOKEN_LDAI:
		return OPC_LDAI
	case TOKEN_LDBI:
		return OPC_LDBI
	case TOKEN_STAI:
		return OPC_STAI
	case TOKEN_BR:
		return OPC_BR
	case TOKEN_BRZ:
		return OPC_BRZ
	case TOKEN_BRN:
		return OPC_BRN
	default:
		panic("assembler: not an instruction token: " + t.String())
	}
}

// oprSubOpcode maps an OPR sub-opcode token to its numeric code.
func oprSubOpcode(t TokenType) uint8 {
	switch t {
	case TOKEN_BRB:
		return SUBOPC_BRB
	case TOKEN_ADD:
		return SUBOPC_ADD
	case TOKEN_SUB:
		return SUBOPC_SUB
	case TOKEN_SVC:
		return SUBOPC_SVC
	default:
		panic("assembler: not an OPR sub-opcode token: " + t.String())
	}
}
