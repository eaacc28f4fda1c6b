package vm

import "github.com/mjfoley/vam16/isa"

// execute dispatches an already-fetched instruction by its category.
// RET is handled directly in Step since it alone can halt the VM.
func (v *VM) execute(info isa.Info, operands []operand) error {
	switch info.Category {
	case isa.CatMove:
		return v.executeMove(operands)
	case isa.CatArithmetic3:
		return v.executeArithmetic3(info.Opcode, operands)
	case isa.CatArithmetic2:
		return v.executeArithmetic2(info.Opcode, operands)
	case isa.CatCompare:
		return v.executeCompare(operands)
	case isa.CatJump:
		return v.executeJump(info.Opcode, operands)
	case isa.CatBranchCond:
		return v.executeBranchCond(info.Opcode, operands)
	case isa.CatStack1:
		return v.executeStack1(info.Opcode, operands)
	case isa.CatCall:
		return v.executeCall(operands)
	default:
		return v.fault("unhandled instruction category for opcode %d", info.Opcode)
	}
}

// executeMove implements MOV, LOAD, and STORE, which are identical once
// operands are decoded: the semantic distinction between them is carried
// entirely by which operand types the source program chose, not by the
// opcode itself.
func (v *VM) executeMove(operands []operand) error {
	src, err := v.value(operands[1])
	if err != nil {
		return err
	}
	return v.store(operands[0], src)
}

func (v *VM) executeCompare(operands []operand) error {
	a, err := v.value(operands[0])
	if err != nil {
		return err
	}
	b, err := v.value(operands[1])
	if err != nil {
		return err
	}
	v.CPU.SetCompare(a, b)
	return nil
}

func (v *VM) executeStack1(op isa.Opcode, operands []operand) error {
	switch op {
	case isa.PUSH:
		val, err := v.value(operands[0])
		if err != nil {
			return err
		}
		return v.pushStack(val)
	case isa.POP:
		val, err := v.popStack()
		if err != nil {
			return err
		}
		return v.store(operands[0], val)
	default:
		return v.fault("unhandled stack opcode %d", op)
	}
}
