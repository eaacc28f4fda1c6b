package vm

import "github.com/mjfoley/vam16/isa"

func (v *VM) executeArithmetic3(op isa.Opcode, operands []operand) error {
	src1, err := v.value(operands[1])
	if err != nil {
		return err
	}
	src2, err := v.value(operands[2])
	if err != nil {
		return err
	}

	var result int32
	switch op {
	case isa.ADD:
		result = src1 + src2
	case isa.SUB:
		result = src1 - src2
	case isa.MUL:
		result = src1 * src2
	case isa.DIV:
		if src2 == 0 {
			return v.fault("division by zero")
		}
		result = src1 / src2
	default:
		return v.fault("unhandled arithmetic opcode %d", op)
	}
	return v.store(operands[0], result)
}

// executeArithmetic2 covers AND/OR/XOR/SHL/SHR, which read-modify-write
// their destination: dest <- f(value_of(dest), src).
func (v *VM) executeArithmetic2(op isa.Opcode, operands []operand) error {
	dest, err := v.value(operands[0])
	if err != nil {
		return err
	}
	src, err := v.value(operands[1])
	if err != nil {
		return err
	}

	var result int32
	switch op {
	case isa.AND:
		result = dest & src
	case isa.OR:
		result = dest | src
	case isa.XOR:
		result = dest ^ src
	case isa.SHL:
		result = dest << uint32(src)
	case isa.SHR:
		result = int32(uint32(dest) >> uint32(src)) // logical, zero-fill
	default:
		return v.fault("unhandled arithmetic opcode %d", op)
	}
	return v.store(operands[0], result)
}
