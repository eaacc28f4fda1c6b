package debugger

import (
	"github.com/mjfoley/vam16/vm"
)

// Debugger wraps a vm.VM with breakpoint-aware stepping.
type Debugger struct {
	VM          *vm.VM
	Breakpoints *BreakpointManager
}

// New wraps machine for interactive debugging.
func New(machine *vm.VM) *Debugger {
	return &Debugger{
		VM:          machine,
		Breakpoints: NewBreakpointManager(),
	}
}

// StepResult reports what happened after a run of stepping.
type StepResult struct {
	Halted     bool
	Breakpoint *Breakpoint
	Err        error
}

// StepOne executes exactly one instruction.
func (d *Debugger) StepOne() StepResult {
	halted, err := d.VM.Step()
	if err != nil {
		return StepResult{Err: err}
	}
	return StepResult{Halted: halted}
}

// Continue steps until the VM halts, faults, or arrives at an enabled
// breakpoint. The instruction at the starting IP always executes first,
// so calling Continue again right after stopping on a breakpoint does
// not immediately retrigger it.
func (d *Debugger) Continue() StepResult {
	for {
		halted, err := d.VM.Step()
		if err != nil {
			return StepResult{Err: err}
		}
		if halted {
			return StepResult{Halted: true}
		}

		ip := d.VM.CPU.GetIP()
		if d.Breakpoints.IsEnabledAt(ip) {
			if bp := d.Breakpoints.ProcessHit(ip); bp != nil {
				return StepResult{Breakpoint: bp}
			}
		}
	}
}
