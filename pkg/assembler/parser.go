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
	"io"

	"github.com/hex-lang/gohex/pkg/encoding"
)

// Parser consumes a token stream from a Lexer and builds a flat program of
// Directives. Unlike the lexer, which fails fast on the first bad
// character, Parse accumulates every error it can recover from so a single
// invocation reports as many problems as possible.
type Parser struct {
	lex  *Lexer
	tok  Token
	errs []error
}

func newParser(lex *Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	return p
}

func (p *Parser) advance() {
	tok, err := p.lex.Next()
	if err != nil {
		p.errs = append(p.errs, err)
		p.tok = Token{Type: TOKEN_EOF, Position: tok.Position}
		return
	}
	p.tok = tok
}

// Parse reads r to exhaustion and returns the program's directives in
// source order along with every error encountered. A non-empty error slice
// does not necessarily mean directives is empty: parsing continues past
// most errors so later, independent problems can still be reported.
func Parse(r io.Reader) ([]Directive, []error) {
	return newParser(NewLexer(r)).parseProgram()
}

func (p *Parser) parseProgram() ([]Directive, []error) {
	var directives []Directive

	for p.tok.Type != TOKEN_EOF {
		d := p.parseDirective()
		if d != nil {
			directives = append(directives, d)
		} else if p.tok.Type != TOKEN_EOF {
			// parseDirective already recorded an error; skip the
			// offending token so parsing can resynchronise.
			p.advance()
		}
	}

	if err := p.checkLabels(directives); err != nil {
		p.errs = append(p.errs, err...)
	}

	return directives, p.errs
}

func (p *Parser) parseDirective() Directive {
	switch {
	case p.tok.Type == TOKEN_DATA:
		return p.parseData()
	case p.tok.Type == TOKEN_FUNC:
		return p.parseFunc()
	case p.tok.Type == TOKEN_PROC:
		return p.parseProc()
	case p.tok.Type == TOKEN_IDENT:
		return p.parseLabel()
	case p.tok.Type == TOKEN_OPR:
		return p.parseOpr()
	case instructionTokens[p.tok.Type]:
		return p.parseInstruction()
	default:
		p.errs = append(p.errs, &UnexpectedTokenError{Position: p.tok.Position, Received: p.tok.Type})
		return nil
	}
}

func (p *Parser) parseData() Directive {
	position := p.tok.Position
	p.advance()

	value, ok := p.parseInteger()
	if !ok {
		return nil
	}

	return NewDataDirective(position, int32(value))
}

func (p *Parser) parseFunc() Directive {
	position := p.tok.Position
	p.advance()

	if p.tok.Type != TOKEN_IDENT {
		p.errs = append(p.errs, &UnrecognisedTokenError{Position: p.tok.Position, Received: p.tok.Type})
		return nil
	}

	name := p.tok.Value
	p.advance()
	return &FuncDirective{Position: position, Name: name}
}

func (p *Parser) parseProc() Directive {
	position := p.tok.Position
	p.advance()

	if p.tok.Type != TOKEN_IDENT {
		p.errs = append(p.errs, &UnrecognisedTokenError{Position: p.tok.Position, Received: p.tok.Type})
		return nil
	}

	name := p.tok.Value
	p.advance()
	return &ProcDirective{Position: position, Name: name}
}

func (p *Parser) parseLabel() Directive {
	position := p.tok.Position
	name := p.tok.Value
	p.advance()
	return &LabelDirective{Position: position, Name: name}
}

func (p *Parser) parseOpr() Directive {
	position := p.tok.Position
	p.advance()

	if !oprSubTokens[p.tok.Type] {
		p.errs = append(p.errs, &InvalidOprOperandError{Position: p.tok.Position, Received: p.tok.Type})
		return nil
	}

	subOp := p.tok.Type
	p.advance()
	return &InstrOpDirective{Position: position, SubOp: subOp}
}

func (p *Parser) parseInstruction() Directive {
	position := p.tok.Position
	opcode := p.tok.Type
	p.advance()

	if p.tok.Type == TOKEN_IDENT {
		label := p.tok.Value
		p.advance()
		return &InstrLabelDirective{Position: position, Opcode: opcode, Label: label}
	}

	value, ok := p.parseInteger()
	if !ok {
		return nil
	}

	return &InstrImmDirective{Position: position, Opcode: opcode, Imm: int32(value)}
}

// parseInteger parses an optional leading MINUS followed by a NUMBER token.
func (p *Parser) parseInteger() (int64, bool) {
	negative := false
	if p.tok.Type == TOKEN_MINUS {
		negative = true
		p.advance()
	}

	if p.tok.Type != TOKEN_NUMBER {
		p.errs = append(p.errs, &InvalidIntegerError{Position: p.tok.Position, Received: p.tok.Type})
		return 0, false
	}

	value, err := encoding.DecodeInt(p.tok.Value)
	if err != nil {
		p.errs = append(p.errs, &InvalidIntegerError{Position: p.tok.Position, Received: p.tok.Type})
		return 0, false
	}

	p.advance()

	if negative {
		value = -value
	}

	return value, true
}

// checkLabels rejects redeclared labels. Unknown-label references are left
// to the resolver, which is the only stage that knows the full label set
// up front and needs a single pass over it regardless.
func (p *Parser) checkLabels(directives []Directive) []error {
	var errs []error
	seen := make(map[string]bool)

	for _, d := range directives {
		label, ok := d.(*LabelDirective)
		if !ok {
			continue
		}

		if seen[label.Name] {
			errs = append(errs, &DuplicateLabelError{Position: label.Position, Received: label.Name})
			continue
		}

		seen[label.Name] = true
	}

	return errs
}
