// Package vm is the fetch-decode-execute interpreter for the linked
// image: sixteen signed 32-bit registers, three comparison flags, a
// unified code+data memory, and a separate descending call/value stack.
package vm

import (
	"github.com/mjfoley/vam16/isa"
)

// sentinelReturn is the synthetic return address pushed before execution
// starts. RET observing it halts the VM cleanly rather than jumping.
const sentinelReturn = -1

// Operand type bytes, matching the encoder's wire format exactly.
const (
	typeImmediate byte = 0
	typeRegister  byte = 1
	typeMemImm    byte = 2
	typeMemReg    byte = 3
)

// VM owns the registers, flags, memory, and stack for one run of a
// linked image. A VM must not be shared across concurrent runs.
type VM struct {
	CPU    *CPU
	Memory *Memory
	Stack  *Stack
	Trace  *Trace

	Halted bool
}

// Config bounds the two address spaces a VM instance allocates.
type Config struct {
	MemorySize int
	StackSize  int
}

// DefaultConfig returns the stock sizing: a 1 MiB unified memory and a
// 64 KiB stack.
func DefaultConfig() Config {
	return Config{MemorySize: 1 << 20, StackSize: 1 << 16}
}

// New creates a VM with a freshly allocated memory and stack, loads
// image at address 0, and establishes the initial register state: IP at
// 0, SP at the top of an empty descending stack, and a sentinel return
// address already pushed so a top-level RET halts cleanly.
func New(image []byte, cfg Config) (*VM, error) {
	v := &VM{
		CPU:    NewCPU(),
		Memory: NewMemory(cfg.MemorySize),
		Stack:  NewStack(cfg.StackSize),
	}
	if err := v.Memory.LoadImage(image); err != nil {
		return nil, err
	}
	v.CPU.SetIP(0)
	v.CPU.SetSP(int32(cfg.StackSize))
	if err := v.pushStack(sentinelReturn); err != nil {
		return nil, err
	}
	return v, nil
}

// operand is a decoded operand record: its type byte and raw payload.
type operand struct {
	typ     byte
	payload int32
}

func (v *VM) fetchByte() (byte, error) {
	ip := v.CPU.GetIP()
	b, err := v.Memory.ReadByte(int(ip))
	if err != nil {
		return 0, v.fault("%s", err.Error())
	}
	v.CPU.SetIP(ip + 1)
	return b, nil
}

func (v *VM) fetchOperand() (operand, error) {
	typ, err := v.fetchByte()
	if err != nil {
		return operand{}, err
	}
	ip := v.CPU.GetIP()
	payload, err := v.Memory.ReadWord(int(ip))
	if err != nil {
		return operand{}, v.fault("%s", err.Error())
	}
	v.CPU.SetIP(ip + 4)
	return operand{typ: typ, payload: payload}, nil
}

// value reads the source value an operand denotes.
func (v *VM) value(op operand) (int32, error) {
	switch op.typ {
	case typeImmediate:
		return op.payload, nil
	case typeRegister:
		if err := v.checkRegister(op.payload); err != nil {
			return 0, err
		}
		return v.CPU.GetRegister(int(op.payload)), nil
	case typeMemImm:
		w, err := v.Memory.ReadWord(int(op.payload))
		if err != nil {
			return 0, v.fault("%s", err.Error())
		}
		return w, nil
	case typeMemReg:
		if err := v.checkRegister(op.payload); err != nil {
			return 0, err
		}
		addr := v.CPU.GetRegister(int(op.payload))
		w, err := v.Memory.ReadWord(int(addr))
		if err != nil {
			return 0, v.fault("%s", err.Error())
		}
		return w, nil
	default:
		return 0, v.fault("invalid operand type %d", op.typ)
	}
}

// store writes value to the destination an operand denotes. Only
// register and memory operand types are valid destinations.
func (v *VM) store(op operand, value int32) error {
	switch op.typ {
	case typeRegister:
		if err := v.checkRegister(op.payload); err != nil {
			return err
		}
		v.CPU.SetRegister(int(op.payload), value)
		return nil
	case typeMemImm:
		if err := v.Memory.WriteWord(int(op.payload), value); err != nil {
			return v.fault("%s", err.Error())
		}
		return nil
	case typeMemReg:
		if err := v.checkRegister(op.payload); err != nil {
			return err
		}
		addr := v.CPU.GetRegister(int(op.payload))
		if err := v.Memory.WriteWord(int(addr), value); err != nil {
			return v.fault("%s", err.Error())
		}
		return nil
	default:
		return v.fault("invalid destination operand type %d", op.typ)
	}
}

func (v *VM) checkRegister(idx int32) error {
	if idx < 0 || idx >= NumRegisters {
		return v.fault("register index %d out of range", idx)
	}
	return nil
}

func (v *VM) pushStack(value int32) error {
	sp := v.CPU.GetSP() - 4
	if err := v.Stack.WriteWord(int(sp), value); err != nil {
		return v.fault("%s", err.Error())
	}
	v.CPU.SetSP(sp)
	return nil
}

func (v *VM) popStack() (int32, error) {
	sp := v.CPU.GetSP()
	value, err := v.Stack.ReadWord(int(sp))
	if err != nil {
		return 0, v.fault("%s", err.Error())
	}
	v.CPU.SetSP(sp + 4)
	return value, nil
}

// Step executes exactly one instruction. It returns (true, nil) once
// execution halts cleanly via a sentinel RET.
func (v *VM) Step() (halted bool, err error) {
	if v.Halted {
		return true, nil
	}

	startIP := v.CPU.GetIP()
	opByte, err := v.fetchByte()
	if err != nil {
		return false, err
	}
	info, ok := isa.Lookup(opByte)
	if !ok {
		return false, v.fault("invalid opcode %d", opByte)
	}

	operands := make([]operand, info.Operands)
	for i := range operands {
		op, err := v.fetchOperand()
		if err != nil {
			return false, err
		}
		operands[i] = op
	}

	v.CPU.IncrementCycles()
	if v.Trace != nil {
		v.Trace.Record(v.CPU.Cycles, startIP, info, operands)
	}

	if info.Opcode == isa.RET {
		ret, err := v.popStack()
		if err != nil {
			return false, err
		}
		if ret == sentinelReturn {
			v.Halted = true
			return true, nil
		}
		v.CPU.SetIP(ret)
		return false, nil
	}

	if err := v.execute(info, operands); err != nil {
		return false, err
	}
	return false, nil
}

// Run steps the VM until it halts, a fault occurs, or maxCycles
// instructions have executed (0 means unbounded).
func (v *VM) Run(maxCycles uint64) error {
	for {
		if maxCycles > 0 && v.CPU.Cycles >= maxCycles {
			return v.fault("exceeded maximum cycle count %d", maxCycles)
		}
		halted, err := v.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}
