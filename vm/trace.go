package vm

import (
	"fmt"
	"strings"

	"github.com/mjfoley/vam16/isa"
)

// TraceEntry is one recorded fetch-decode-execute step, captured before
// the instruction's side effects are applied.
type TraceEntry struct {
	Cycle    uint64
	IP       int32
	Mnemonic string
	Operands []int32
}

// Trace accumulates an execution history for debugging. Recording is
// opt-in: a VM with a nil Trace pays no tracing cost.
type Trace struct {
	Entries []TraceEntry
	Limit   int // 0 means unbounded
}

// NewTrace returns a Trace that keeps at most limit entries (0 for
// unbounded), discarding the oldest once full.
func NewTrace(limit int) *Trace {
	return &Trace{Limit: limit}
}

func (t *Trace) Record(cycle uint64, ip int32, info isa.Info, operands []operand) {
	entry := TraceEntry{Cycle: cycle, IP: ip, Mnemonic: info.Mnemonic}
	for _, op := range operands {
		entry.Operands = append(entry.Operands, op.payload)
	}
	t.Entries = append(t.Entries, entry)
	if t.Limit > 0 && len(t.Entries) > t.Limit {
		t.Entries = t.Entries[len(t.Entries)-t.Limit:]
	}
}

// String renders the trace as one line per entry, most recent last.
func (t *Trace) String() string {
	var b strings.Builder
	for _, e := range t.Entries {
		fmt.Fprintf(&b, "%s %v\n", e.Mnemonic, e.Operands)
	}
	return b.String()
}
