package debugger_test

import (
	"testing"

	"github.com/mjfoley/vam16/debugger"
	"github.com/mjfoley/vam16/encoder"
	"github.com/mjfoley/vam16/linker"
	"github.com/mjfoley/vam16/objfile"
	"github.com/mjfoley/vam16/parser"
	"github.com/mjfoley/vam16/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVM(t *testing.T, lines ...string) *vm.VM {
	t.Helper()
	p := parser.New()
	for i, line := range lines {
		p.ParseLine(line, i+1)
	}
	require.False(t, p.Errors().HasErrors(), p.Errors().Error())
	obj, err := encoder.New().Generate(p.Program())
	require.NoError(t, err)
	image, err := linker.Link([]*objfile.Object{obj})
	require.NoError(t, err)
	machine, err := vm.New(image, vm.DefaultConfig())
	require.NoError(t, err)
	return machine
}

func TestBreakpointManager_AddAndHit(t *testing.T) {
	bm := debugger.NewBreakpointManager()
	bp := bm.Add(10, false)
	assert.True(t, bm.Has(10))
	assert.True(t, bm.IsEnabledAt(10))

	hit := bm.ProcessHit(10)
	require.NotNil(t, hit)
	assert.Equal(t, bp.ID, hit.ID)
	assert.Equal(t, 1, hit.HitCount)
	assert.True(t, bm.Has(10)) // not temporary, stays
}

func TestBreakpointManager_TemporaryIsRemovedAfterHit(t *testing.T) {
	bm := debugger.NewBreakpointManager()
	bm.Add(20, true)
	bm.ProcessHit(20)
	assert.False(t, bm.Has(20))
}

func TestBreakpointManager_DeleteAt(t *testing.T) {
	bm := debugger.NewBreakpointManager()
	bm.Add(5, false)
	require.NoError(t, bm.DeleteAt(5))
	assert.False(t, bm.Has(5))
	assert.Error(t, bm.DeleteAt(5))
}

func TestDebugger_ContinueRunsToHalt(t *testing.T) {
	machine := buildVM(t, "MAIN: MOV R0, 1", "RET")
	dbg := debugger.New(machine)

	res := dbg.Continue()
	assert.True(t, res.Halted)
	assert.NoError(t, res.Err)
}

func TestDebugger_ContinueStopsAtBreakpoint(t *testing.T) {
	machine := buildVM(t, "MAIN: MOV R0, 1", "MOV R1, 2", "RET")
	dbg := debugger.New(machine)

	// Each MOV dest,imm is 11 bytes: 1 opcode + two 5-byte operand
	// records. The trampoline occupies the first 6 bytes, so MAIN's
	// second instruction starts at 6+11=17.
	secondInstruction := machine.CPU.GetIP() + 6 + 11
	dbg.Breakpoints.Add(secondInstruction, false)

	res := dbg.Continue()
	require.NotNil(t, res.Breakpoint)
	assert.Equal(t, secondInstruction, machine.CPU.GetIP())
}

func TestDebugger_StepOneAdvancesCycles(t *testing.T) {
	machine := buildVM(t, "MAIN: MOV R0, 1", "RET")
	dbg := debugger.New(machine)

	before := machine.CPU.Cycles
	dbg.StepOne()
	assert.Greater(t, machine.CPU.Cycles, before)
}
