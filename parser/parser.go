package parser

import (
	"github.com/mjfoley/vam16/isa"
	"github.com/mjfoley/vam16/lexer"
)

// Parser consumes one source line at a time and accumulates a Program.
// It is a two-pass front end only in the sense that labels are resolved
// by the linker, not here: this pass never needs to look ahead across
// lines, since a line is self-contained syntax.
type Parser struct {
	section        Section
	dataOffset     int // next free word offset in the data segment
	dataWords      []int32
	dataLabels     map[string]int
	dataLabelOrder []string
	instructions   []Instruction
	errors         ErrorList
}

// New creates a Parser positioned in the code section, which is the
// default placement until a .DATA or .CODE directive says otherwise.
func New() *Parser {
	return &Parser{
		section:    SectionCode,
		dataLabels: make(map[string]int),
	}
}

// Errors returns every error accumulated across all ParseLine calls.
func (p *Parser) Errors() *ErrorList { return &p.errors }

// Program returns the accumulated parse result.
func (p *Parser) Program() Program {
	return Program{
		Instructions:   p.instructions,
		DataWords:      p.dataWords,
		DataLabels:     p.dataLabels,
		DataLabelOrder: p.dataLabelOrder,
	}
}

// ParseLine tokenizes and parses one already-isolated source line.
// Blank lines produce nothing and no error.
func (p *Parser) ParseLine(line string, lineNo int) {
	lx := lexer.New(line, lineNo)

	tok, err := lx.GetToken()
	if err != nil {
		p.errors.add(errPos(err), "%s", err.Error())
		return
	}
	if tok.Type == lexer.TokenEOF {
		return
	}

	label := ""
	if tok.Type == lexer.TokenLabel {
		peeked, perr := lx.Peek()
		if perr != nil {
			p.errors.add(errPos(perr), "%s", perr.Error())
			return
		}
		if peeked.Type == lexer.TokenColon {
			label = tok.Text
			if _, err := lx.GetToken(); err != nil { // consume ':'
				p.errors.add(errPos(err), "%s", err.Error())
				return
			}
			tok, err = lx.GetToken()
			if err != nil {
				p.errors.add(errPos(err), "%s", err.Error())
				return
			}
		}
	}

	switch tok.Type {
	case lexer.TokenEOF:
		if label != "" {
			p.emitLabelOnly(label, tok.Pos)
		}
		return
	case lexer.TokenDirective:
		p.parseDirective(tok, label, lx)
		return
	case lexer.TokenInstruction:
		p.parseInstruction(tok, label, lx)
		return
	default:
		p.errors.add(tok.Pos, "expected instruction or directive, got %s", tok.Type)
	}
}

func errPos(err error) lexer.Position {
	if le, ok := err.(*lexer.Error); ok {
		return le.Pos
	}
	return lexer.Position{}
}

func (p *Parser) emitLabelOnly(label string, pos lexer.Position) {
	switch p.section {
	case SectionData:
		p.defineDataLabel(label)
	default:
		p.instructions = append(p.instructions, Instruction{Label: label, Pos: pos})
	}
}

func (p *Parser) defineDataLabel(label string) {
	if _, exists := p.dataLabels[label]; exists {
		return
	}
	p.dataLabels[label] = p.dataOffset
	p.dataLabelOrder = append(p.dataLabelOrder, label)
}

func (p *Parser) parseDirective(tok *lexer.Token, label string, lx *lexer.Lexer) {
	switch tok.Text {
	case "CODE":
		p.section = SectionCode
		if label != "" {
			p.emitLabelOnly(label, tok.Pos)
		}
	case "DATA":
		p.section = SectionData
		if label != "" {
			p.emitLabelOnly(label, tok.Pos)
		}
	case "WORD":
		p.parseWordDirective(tok, label, lx)
	default:
		p.errors.add(tok.Pos, "directive .%s is not valid here", tok.Text)
	}
}

func (p *Parser) parseWordDirective(tok *lexer.Token, label string, lx *lexer.Lexer) {
	if p.section != SectionData {
		p.errors.add(tok.Pos, ".WORD is only valid in a .DATA section")
		return
	}
	if label != "" {
		p.defineDataLabel(label)
	}

	for {
		t, err := lx.GetToken()
		if err != nil {
			p.errors.add(errPos(err), "%s", err.Error())
			return
		}
		if t.Type != lexer.TokenInt {
			p.errors.add(t.Pos, "expected integer literal in .WORD list, got %s", t.Type)
			return
		}
		p.dataWords = append(p.dataWords, int32(t.Value))
		p.dataOffset++

		next, err := lx.GetToken()
		if err != nil {
			p.errors.add(errPos(err), "%s", err.Error())
			return
		}
		if next.Type == lexer.TokenEOF {
			return
		}
		if next.Type != lexer.TokenComma {
			p.errors.add(next.Pos, "expected ',' or end of line in .WORD list, got %s", next.Type)
			return
		}
	}
}

func (p *Parser) parseInstruction(tok *lexer.Token, label string, lx *lexer.Lexer) {
	if p.section != SectionCode {
		p.errors.add(tok.Pos, "instructions are only valid in a .CODE section")
		return
	}
	info, ok := isa.Table[tok.Text]
	if !ok {
		p.errors.add(tok.Pos, "unknown mnemonic %s", tok.Text)
		return
	}

	inst := Instruction{Label: label, Mnemonic: tok.Text, Pos: tok.Pos}

	for i := 0; i < info.Operands; i++ {
		operand, err := p.parseOperand(lx)
		if err != nil {
			p.errors.add(errPos(err), "%s", err.Error())
			return
		}
		inst.Operands = append(inst.Operands, operand)

		if i < info.Operands-1 {
			next, err := lx.GetToken()
			if err != nil {
				p.errors.add(errPos(err), "%s", err.Error())
				return
			}
			if next.Type != lexer.TokenComma {
				p.errors.add(next.Pos, "expected ',' between operands of %s, got %s", tok.Text, next.Type)
				return
			}
		}
	}

	end, err := lx.GetToken()
	if err != nil {
		p.errors.add(errPos(err), "%s", err.Error())
		return
	}
	if end.Type != lexer.TokenEOF {
		p.errors.add(end.Pos, "unexpected trailing %s after %s", end.Type, tok.Text)
		return
	}

	p.instructions = append(p.instructions, inst)
}

func (p *Parser) parseOperand(lx *lexer.Lexer) (Operand, error) {
	tok, err := lx.GetToken()
	if err != nil {
		return Operand{}, err
	}

	switch tok.Type {
	case lexer.TokenRegister:
		return Operand{Kind: OpRegister, Reg: int(tok.Value), Pos: tok.Pos}, nil
	case lexer.TokenInt:
		return Operand{Kind: OpImmediate, Int: tok.Value, Pos: tok.Pos}, nil
	case lexer.TokenLabel:
		return Operand{Kind: OpLabel, Label: tok.Text, Pos: tok.Pos}, nil
	case lexer.TokenLBracket:
		return p.parseBracketedOperand(lx, tok.Pos)
	default:
		return Operand{}, &lexer.Error{Pos: tok.Pos, Message: "expected operand, got " + tok.Type.String()}
	}
}

func (p *Parser) parseBracketedOperand(lx *lexer.Lexer, start lexer.Position) (Operand, error) {
	inner, err := lx.GetToken()
	if err != nil {
		return Operand{}, err
	}

	var op Operand
	switch inner.Type {
	case lexer.TokenRegister:
		op = Operand{Kind: OpMemRegister, Reg: int(inner.Value), Bracketed: true, Pos: start}
	case lexer.TokenInt:
		op = Operand{Kind: OpMemImmediate, Int: inner.Value, Bracketed: true, Pos: start}
	case lexer.TokenLabel:
		op = Operand{Kind: OpLabel, Label: inner.Text, Bracketed: true, Pos: start}
	default:
		return Operand{}, &lexer.Error{Pos: inner.Pos, Message: "expected register, integer, or label inside brackets, got " + inner.Type.String()}
	}

	closeTok, err := lx.GetToken()
	if err != nil {
		return Operand{}, err
	}
	if closeTok.Type != lexer.TokenRBracket {
		return Operand{}, &lexer.Error{Pos: closeTok.Pos, Message: "expected ']', got " + closeTok.Type.String()}
	}
	return op, nil
}
