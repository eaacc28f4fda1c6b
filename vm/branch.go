package vm

import "github.com/mjfoley/vam16/isa"

func (v *VM) executeJump(op isa.Opcode, operands []operand) error {
	addr, err := v.value(operands[0])
	if err != nil {
		return err
	}
	v.CPU.SetIP(addr)
	return nil
}

func (v *VM) executeBranchCond(op isa.Opcode, operands []operand) error {
	taken := false
	f := v.CPU.Flags
	switch op {
	case isa.JE:
		taken = f.ZF
	case isa.JNE:
		taken = !f.ZF
	case isa.JG:
		taken = f.GF
	case isa.JL:
		taken = f.LF
	case isa.JLE:
		taken = f.ZF || f.LF
	case isa.JGE:
		taken = f.ZF || f.GF
	default:
		return v.fault("unhandled branch opcode %d", op)
	}
	if !taken {
		return nil
	}
	addr, err := v.value(operands[0])
	if err != nil {
		return err
	}
	v.CPU.SetIP(addr)
	return nil
}

func (v *VM) executeCall(operands []operand) error {
	addr, err := v.value(operands[0])
	if err != nil {
		return err
	}
	if err := v.pushStack(v.CPU.GetIP()); err != nil {
		return err
	}
	v.CPU.SetIP(addr)
	return nil
}
