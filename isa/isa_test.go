package isa_test

import (
	"testing"

	"github.com/mjfoley/vam16/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_OperandCountsMatchSpec(t *testing.T) {
	three := []string{"ADD", "SUB", "MUL", "DIV"}
	two := []string{"MOV", "AND", "OR", "XOR", "SHL", "SHR", "CMP", "LOAD", "STORE"}
	one := []string{"JMP", "JE", "JNE", "JG", "JL", "JLE", "JGE", "PUSH", "POP", "CALL"}

	for _, m := range three {
		assert.Equal(t, 3, isa.Table[m].Operands, m)
	}
	for _, m := range two {
		assert.Equal(t, 2, isa.Table[m].Operands, m)
	}
	for _, m := range one {
		assert.Equal(t, 1, isa.Table[m].Operands, m)
	}
	assert.Equal(t, 0, isa.Table["RET"].Operands)
}

func TestTable_OpcodeNumberingMatchesSpec(t *testing.T) {
	want := map[string]isa.Opcode{
		"MOV": 0, "ADD": 1, "SUB": 2, "MUL": 3, "DIV": 4, "AND": 5, "OR": 6, "XOR": 7,
		"SHL": 8, "SHR": 9, "CMP": 10, "JMP": 11, "JE": 12, "JNE": 13, "JG": 14, "JL": 15,
		"JLE": 16, "JGE": 17, "LOAD": 18, "STORE": 19, "PUSH": 20, "POP": 21, "CALL": 22, "RET": 23,
	}
	for mnemonic, opcode := range want {
		assert.Equal(t, opcode, isa.Table[mnemonic].Opcode, mnemonic)
	}
}

func TestLookup_RoundTripsEveryOpcode(t *testing.T) {
	for mnemonic, info := range isa.Table {
		got, ok := isa.Lookup(byte(info.Opcode))
		require.True(t, ok, mnemonic)
		assert.Equal(t, mnemonic, got.Mnemonic)
	}
}

func TestLookup_UnknownOpcodeIsFalse(t *testing.T) {
	_, ok := isa.Lookup(200)
	assert.False(t, ok)
}

func TestIsMnemonic(t *testing.T) {
	assert.True(t, isa.IsMnemonic("RET"))
	assert.False(t, isa.IsMnemonic("NOPE"))
}
