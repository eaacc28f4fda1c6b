package tools_test

import (
	"testing"

	"github.com/mjfoley/vam16/parser"
	"github.com/mjfoley/vam16/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseProgram(t *testing.T, lines ...string) parser.Program {
	t.Helper()
	p := parser.New()
	for i, line := range lines {
		p.ParseLine(line, i+1)
	}
	require.False(t, p.Errors().HasErrors(), p.Errors().Error())
	return p.Program()
}

func TestXRefGenerator_TracksCallsAsFunctions(t *testing.T) {
	prog := parseProgram(t, "MAIN: CALL HELPER", "RET", "HELPER: MOV R0, 1", "RET")
	symbols := tools.NewXRefGenerator().Generate(prog)

	helper, ok := symbols["HELPER"]
	require.True(t, ok)
	assert.True(t, helper.IsFunction)
	require.Len(t, helper.References, 1)
	assert.Equal(t, tools.RefCall, helper.References[0].Type)
}

func TestXRefGenerator_TracksDataLabels(t *testing.T) {
	prog := parseProgram(t, ".DATA", "X: .WORD 1", ".CODE", "MAIN: LOAD R0, [X]", "RET")
	symbols := tools.NewXRefGenerator().Generate(prog)

	x, ok := symbols["X"]
	require.True(t, ok)
	assert.True(t, x.IsDataLabel)
	require.Len(t, x.References, 1)
	assert.Equal(t, tools.RefMemory, x.References[0].Type)
}

func TestXRefGenerator_JumpIsNotAFunction(t *testing.T) {
	prog := parseProgram(t, "MAIN: JMP DONE", "DONE: RET")
	symbols := tools.NewXRefGenerator().Generate(prog)

	done, ok := symbols["DONE"]
	require.True(t, ok)
	assert.False(t, done.IsFunction)
	require.Len(t, done.References, 1)
	assert.Equal(t, tools.RefJump, done.References[0].Type)
}

func TestReport_ListsDefinedAndReferenced(t *testing.T) {
	prog := parseProgram(t, "MAIN: CALL HELPER", "RET", "HELPER: RET")
	symbols := tools.NewXRefGenerator().Generate(prog)
	out := tools.Report(symbols)

	assert.Contains(t, out, "MAIN")
	assert.Contains(t, out, "HELPER")
	assert.Contains(t, out, "[function]")
}
