package parser

import "github.com/mjfoley/vam16/lexer"

// OperandKind is the syntactic shape an operand took in source. It
// collapses to the wire-level five-form scheme only at code generation
// time (an OpLabel operand is still ambiguous between immediate and
// memory reference until the generator checks Bracketed).
type OperandKind int

const (
	OpImmediate OperandKind = iota
	OpRegister
	OpMemImmediate
	OpMemRegister
	OpLabel
)

// Operand is one parsed operand of an Instruction.
type Operand struct {
	Kind      OperandKind
	Int       int64  // immediate value, or the address for OpMemImmediate
	Reg       int    // register index, for OpRegister / OpMemRegister
	Label     string // symbol name, for OpLabel
	Bracketed bool   // true if written as "[label]" rather than bare "label"
	Pos       lexer.Position
}

// Instruction is one parsed line of code. Mnemonic == "" marks a pure
// label definition (the source's "INVALID opcode" sentinel): it
// contributes a symbol but no bytecode. Label and Mnemonic may both be
// set when a label shares its line with an instruction.
type Instruction struct {
	Label    string
	Mnemonic string
	Operands []Operand
	Pos      lexer.Position
}

// IsLabelOnly reports whether this entry is a pure label definition.
func (i Instruction) IsLabelOnly() bool {
	return i.Mnemonic == ""
}

// Section is the parser's current placement target.
type Section int

const (
	SectionCode Section = iota
	SectionData
)

// Program is everything a completed parse produced for one translation
// unit: the instruction stream, the flattened data segment, and the
// label -> word-offset map for data symbols.
type Program struct {
	Instructions []Instruction
	DataWords    []int32
	// DataLabels maps a data label to the word offset (not byte offset)
	// of its first word. The code generator multiplies this by 4 to get
	// a byte offset, so this map must already be in words.
	DataLabels map[string]int
	// DataLabelOrder preserves definition order for deterministic symbol
	// table emission (Go map iteration order is not stable).
	DataLabelOrder []string
}
