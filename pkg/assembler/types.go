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
)

type Cursor struct {
	Line   int
	Column int
	Byte   int64
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

// SymTable is emitted by the assembler in -debug mode and consumed by the
// simulator's debug REPL: it maps emitted byte offsets back to source byte
// offsets and label names.
type SymTable struct {
	Source  string
	Symbols map[int64]int64
	Labels  map[int64]string
}

// TokenError is implemented by every error kind in the assembler's fatal
// taxonomy that can be attributed to a source position.
type TokenError interface {
	error
	GetPosition() Cursor
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor { return err.Position }

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%d:%d: unexpected character %q", err.Position.Line, err.Position.Column, err.Received,
	)
}

// UnrecognisedTokenError reports a token that is syntactically valid on its
// own but is the wrong kind for the position it appears in -- for example a
// FUNC or PROC directive whose name slot holds an opcode keyword instead of
// an identifier.
type UnrecognisedTokenError struct {
	Position Cursor
	Received TokenType
}

func (err *UnrecognisedTokenError) GetPosition() Cursor { return err.Position }

func (err *UnrecognisedTokenError) Error() string {
	return fmt.Sprintf(
		"%d:%d: expected an identifier, have %s", err.Position.Line, err.Position.Column, err.Received,
	)
}

type InvalidIntegerError struct {
	Position Cursor
	Received TokenType
}

func (err *InvalidIntegerError) GetPosition() Cursor { return err.Position }

func (err *InvalidIntegerError) Error() string {
	return fmt.Sprintf(
		"%d:%d: expected an integer, have %s", err.Position.Line, err.Position.Column, err.Received,
	)
}

type InvalidOprOperandError struct {
	Position Cursor
	Received TokenType
}

func (err *InvalidOprOperandError) GetPosition() Cursor { return err.Position }

func (err *InvalidOprOperandError) Error() string {
	return fmt.Sprintf(
		"%d:%d: invalid OPR operand %s, want BRB, ADD, SUB, or SVC",
		err.Position.Line, err.Position.Column, err.Received,
	)
}

type UnexpectedTokenError struct {
	Position Cursor
	Received TokenType
}

func (err *UnexpectedTokenError) GetPosition() Cursor { return err.Position }

func (err *UnexpectedTokenError) Error() string {
	return fmt.Sprintf(
		"%d:%d: unexpected token %s", err.Position.Line, err.Position.Column, err.Received,
	)
}

type UnknownLabelError struct {
	Position Cursor
	Received string
}

func (err *UnknownLabelError) GetPosition() Cursor { return err.Position }

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf(
		"%d:%d: unknown label '%s'", err.Position.Line, err.Position.Column, err.Received,
	)
}

type DuplicateLabelError struct {
	Position Cursor
	Received string
}

func (err *DuplicateLabelError) GetPosition() Cursor { return err.Position }

func (err *DuplicateLabelError) Error() string {
	return fmt.Sprintf(
		"%d:%d: redeclaration of label '%s'", err.Position.Line, err.Position.Column, err.Received,
	)
}
