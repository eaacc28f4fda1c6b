package vm

// Register indices. R15 is the instruction pointer and R14 is the stack
// pointer; both are ordinary entries in R but carry these reserved roles
// by convention of the instruction set, not by any special-casing here.
const (
	NumRegisters = 16
	IP           = 15
	SP           = 14
)

// Flags holds the three condition flags set by CMP and consulted by the
// conditional jump opcodes.
type Flags struct {
	ZF bool // result == 0
	GF bool // result > 0
	LF bool // result < 0
}

// CPU is the register file and flag state. It carries no memory or
// stack of its own; those are owned by the VM that embeds it.
type CPU struct {
	R      [NumRegisters]int32
	Flags  Flags
	Cycles uint64
}

// NewCPU returns a CPU with every register and flag zeroed.
func NewCPU() *CPU {
	return &CPU{}
}

// Reset zeroes every register, clears the flags, and resets the cycle count.
func (c *CPU) Reset() {
	for i := range c.R {
		c.R[i] = 0
	}
	c.Flags = Flags{}
	c.Cycles = 0
}

// GetRegister returns the value of register reg.
func (c *CPU) GetRegister(reg int) int32 {
	return c.R[reg]
}

// SetRegister sets the value of register reg.
func (c *CPU) SetRegister(reg int, value int32) {
	c.R[reg] = value
}

// GetIP returns the instruction pointer (R15).
func (c *CPU) GetIP() int32 { return c.R[IP] }

// SetIP sets the instruction pointer (R15).
func (c *CPU) SetIP(value int32) { c.R[IP] = value }

// GetSP returns the stack pointer (R14).
func (c *CPU) GetSP() int32 { return c.R[SP] }

// SetSP sets the stack pointer (R14).
func (c *CPU) SetSP(value int32) { c.R[SP] = value }

// IncrementCycles advances the cycle counter by one fetch-decode-execute
// step.
func (c *CPU) IncrementCycles() {
	c.Cycles++
}

// SetCompare evaluates a - b and sets ZF/GF/LF accordingly. The
// subtraction itself wraps on signed 32-bit overflow like every other
// arithmetic opcode; only the flags derived from its sign matter.
func (c *CPU) SetCompare(a, b int32) {
	result := a - b
	c.Flags = Flags{
		ZF: result == 0,
		GF: result > 0,
		LF: result < 0,
	}
}
