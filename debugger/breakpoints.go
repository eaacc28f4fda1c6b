// Package debugger is an interactive stepper over a vm.VM: breakpoints
// plus a tcell/tview text UI showing registers, flags, a log pane, and a
// command line.
package debugger

import (
	"fmt"
	"sync"
)

// Breakpoint is a halt point at a specific image address.
type Breakpoint struct {
	ID        int
	Address   int32
	Enabled   bool
	Temporary bool // auto-delete after first hit
	HitCount  int
}

// BreakpointManager owns the set of breakpoints for one debug session.
type BreakpointManager struct {
	mu          sync.RWMutex
	breakpoints map[int32]*Breakpoint
	nextID      int
}

// NewBreakpointManager returns an empty manager.
func NewBreakpointManager() *BreakpointManager {
	return &BreakpointManager{
		breakpoints: make(map[int32]*Breakpoint),
		nextID:      1,
	}
}

// Add creates or re-enables a breakpoint at address.
func (bm *BreakpointManager) Add(address int32, temporary bool) *Breakpoint {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bp, exists := bm.breakpoints[address]; exists {
		bp.Enabled = true
		bp.Temporary = temporary
		return bp
	}

	bp := &Breakpoint{ID: bm.nextID, Address: address, Enabled: true, Temporary: temporary}
	bm.breakpoints[address] = bp
	bm.nextID++
	return bp
}

// DeleteAt removes the breakpoint at address, if any.
func (bm *BreakpointManager) DeleteAt(address int32) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if _, exists := bm.breakpoints[address]; !exists {
		return fmt.Errorf("no breakpoint at address %d", address)
	}
	delete(bm.breakpoints, address)
	return nil
}

// All returns every breakpoint, in no particular order.
func (bm *BreakpointManager) All() []*Breakpoint {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	result := make([]*Breakpoint, 0, len(bm.breakpoints))
	for _, bp := range bm.breakpoints {
		result = append(result, bp)
	}
	return result
}

// Has reports whether a breakpoint exists at address.
func (bm *BreakpointManager) Has(address int32) bool {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	_, exists := bm.breakpoints[address]
	return exists
}

// IsEnabledAt reports whether an enabled breakpoint exists at address.
func (bm *BreakpointManager) IsEnabledAt(address int32) bool {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	bp, exists := bm.breakpoints[address]
	return exists && bp.Enabled
}

// ProcessHit records a hit at address and returns a copy of the
// breakpoint for safe use after the lock is released. Temporary
// breakpoints are removed after the copy is taken.
func (bm *BreakpointManager) ProcessHit(address int32) *Breakpoint {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bp, exists := bm.breakpoints[address]
	if !exists {
		return nil
	}
	bp.HitCount++
	result := *bp
	if bp.Temporary {
		delete(bm.breakpoints, address)
	}
	return &result
}
