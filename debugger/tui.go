package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is a tview-based interactive front end for a Debugger: a registers
// pane, a log pane, and a command input line.
type TUI struct {
	dbg  *Debugger
	app  *tview.Application
	regs *tview.TextView
	log  *tview.TextView
	cmd  *tview.InputField
}

// NewTUI builds the screen layout around dbg but does not start it.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{dbg: dbg, app: tview.NewApplication()}

	t.regs = tview.NewTextView().SetDynamicColors(true)
	t.regs.SetBorder(true).SetTitle(" registers ")

	t.log = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.log.SetBorder(true).SetTitle(" log ")

	t.cmd = tview.NewInputField().SetLabel("> ")
	t.cmd.SetBorder(true).SetTitle(" command (step/continue/break N/quit) ")
	t.cmd.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		t.runCommand(strings.TrimSpace(t.cmd.GetText()))
		t.cmd.SetText("")
	})

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().
			AddItem(t.regs, 0, 1, false).
			AddItem(t.log, 0, 2, false), 0, 1, false).
		AddItem(t.cmd, 3, 0, true)

	t.app.SetRoot(flex, true)
	t.refreshRegisters()
	return t
}

// Run starts the event loop. It blocks until the user quits.
func (t *TUI) Run() error {
	return t.app.Run()
}

func (t *TUI) runCommand(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "step", "s":
		t.report(t.dbg.StepOne())
	case "continue", "c":
		t.report(t.dbg.Continue())
	case "break", "b":
		if len(fields) != 2 {
			t.appendLog("usage: break <address>")
			return
		}
		var addr int32
		if _, err := fmt.Sscanf(fields[1], "%d", &addr); err != nil {
			t.appendLog(fmt.Sprintf("bad address %q", fields[1]))
			return
		}
		bp := t.dbg.Breakpoints.Add(addr, false)
		t.appendLog(fmt.Sprintf("breakpoint %d set at %d", bp.ID, bp.Address))
	case "quit", "q":
		t.app.Stop()
	default:
		t.appendLog(fmt.Sprintf("unknown command %q", fields[0]))
	}

	t.refreshRegisters()
}

func (t *TUI) report(res StepResult) {
	switch {
	case res.Err != nil:
		t.appendLog(fmt.Sprintf("fault: %v", res.Err))
	case res.Halted:
		t.appendLog("halted")
	case res.Breakpoint != nil:
		t.appendLog(fmt.Sprintf("hit breakpoint %d at %d", res.Breakpoint.ID, res.Breakpoint.Address))
	default:
		t.appendLog("stepped")
	}
}

func (t *TUI) appendLog(line string) {
	fmt.Fprintln(t.log, line)
}

func (t *TUI) refreshRegisters() {
	var b strings.Builder
	cpu := t.dbg.VM.CPU
	for i := 0; i < 16; i += 4 {
		fmt.Fprintf(&b, "R%-2d %10d  R%-2d %10d  R%-2d %10d  R%-2d %10d\n",
			i, cpu.GetRegister(i), i+1, cpu.GetRegister(i+1), i+2, cpu.GetRegister(i+2), i+3, cpu.GetRegister(i+3))
	}
	fmt.Fprintf(&b, "\nZF=%v GF=%v LF=%v  cycles=%d\n", cpu.Flags.ZF, cpu.Flags.GF, cpu.Flags.LF, cpu.Cycles)
	t.regs.SetText(b.String())
}
