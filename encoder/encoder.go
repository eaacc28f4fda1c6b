// Package encoder is the code generator: it linearizes a parsed program
// into a bytecode stream plus a relocation table, producing an
// objfile.Object ready for the linker.
package encoder

import (
	"fmt"

	"github.com/mjfoley/vam16/isa"
	"github.com/mjfoley/vam16/objfile"
	"github.com/mjfoley/vam16/parser"
)

// Operand type bytes, per the wire format's five addressing modes.
const (
	typeImmediate byte = 0
	typeRegister  byte = 1
	typeMemImm    byte = 2
	typeMemReg    byte = 3
	typeLabel     byte = 4
)

// Encoder walks a parser.Program and emits an objfile.Object.
type Encoder struct {
	code   []byte
	data   []byte
	syms   []objfile.Symbol
	fixups []objfile.Fixup
}

// New creates an Encoder ready to generate code for one translation unit.
func New() *Encoder {
	return &Encoder{}
}

// Generate produces the object artifact for prog. Every pure label
// instruction anchors a code symbol at the current code length; every
// other instruction emits an opcode byte followed by its operand
// records, and emits a fixup for any operand still carrying an
// unresolved label.
func (e *Encoder) Generate(prog parser.Program) (*objfile.Object, error) {
	for _, inst := range prog.Instructions {
		if inst.Label != "" {
			e.syms = append(e.syms, objfile.Symbol{
				Name:    inst.Label,
				Address: int32(len(e.code)),
			})
		}
		if inst.IsLabelOnly() {
			continue
		}
		if err := e.emitInstruction(inst, prog); err != nil {
			return nil, err
		}
	}

	codeSize := int32(len(e.code))

	for _, name := range prog.DataLabelOrder {
		wordOffset := prog.DataLabels[name]
		e.syms = append(e.syms, objfile.Symbol{
			Name:    name,
			Address: codeSize + int32(wordOffset)*4,
			IsData:  true,
		})
	}

	for _, w := range prog.DataWords {
		e.data = append(e.data, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}

	return &objfile.Object{
		CodeSegment: e.code,
		DataSegment: e.data,
		Symbols:     e.syms,
		Fixups:      e.fixups,
		CodeSize:    codeSize,
	}, nil
}

func (e *Encoder) emitInstruction(inst parser.Instruction, prog parser.Program) error {
	info, ok := isa.Table[inst.Mnemonic]
	if !ok {
		return fmt.Errorf("%s: unknown mnemonic %s", inst.Pos, inst.Mnemonic)
	}
	if len(inst.Operands) != info.Operands {
		return fmt.Errorf("%s: %s expects %d operands, got %d", inst.Pos, inst.Mnemonic, info.Operands, len(inst.Operands))
	}

	e.code = append(e.code, byte(info.Opcode))
	for _, operand := range inst.Operands {
		if err := e.emitOperand(operand, prog); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) emitOperand(op parser.Operand, prog parser.Program) error {
	switch op.Kind {
	case parser.OpImmediate:
		e.emitRecord(typeImmediate, int32(op.Int))
	case parser.OpRegister:
		if op.Reg < 0 || op.Reg > 15 {
			return fmt.Errorf("%s: register index %d out of range", op.Pos, op.Reg)
		}
		e.emitRecord(typeRegister, int32(op.Reg))
	case parser.OpMemImmediate:
		e.emitRecord(typeMemImm, int32(op.Int))
	case parser.OpMemRegister:
		if op.Reg < 0 || op.Reg > 15 {
			return fmt.Errorf("%s: register index %d out of range", op.Pos, op.Reg)
		}
		e.emitRecord(typeMemReg, int32(op.Reg))
	case parser.OpLabel:
		_, isData := prog.DataLabels[op.Label]
		e.fixups = append(e.fixups, objfile.Fixup{
			BytecodeOffset:    int32(len(e.code) + 1),
			Name:              op.Label,
			IsDataLabel:       isData,
			IsMemoryReference: op.Bracketed,
		})
		e.emitRecord(typeLabel, 0)
	default:
		return fmt.Errorf("%s: unhandled operand kind %d", op.Pos, op.Kind)
	}
	return nil
}

// emitRecord appends one operand record: a type byte followed by its
// 4-byte little-endian payload.
func (e *Encoder) emitRecord(typ byte, payload int32) {
	u := uint32(payload)
	e.code = append(e.code, typ, byte(u), byte(u>>8), byte(u>>16), byte(u>>24))
}
