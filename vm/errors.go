package vm

import "fmt"

// RuntimeError is a fatal fault raised during execution: IP out of
// range, a memory or stack access out of range, division by zero, an
// invalid opcode, or an invalid destination operand type. Execution
// cannot continue once one is raised.
type RuntimeError struct {
	IP      int32
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at ip=%d: %s", e.IP, e.Message)
}

func (vm *VM) fault(format string, args ...any) error {
	return &RuntimeError{IP: vm.CPU.GetIP(), Message: fmt.Sprintf(format, args...)}
}
