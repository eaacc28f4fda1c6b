package vm

import "fmt"

// Memory is the unified code+data address space. It is distinct from the
// stack buffer, which is addressed separately by SP and never through
// Memory.
type Memory struct {
	data []byte
}

// NewMemory allocates a zeroed buffer of size bytes.
func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

// LoadImage copies image into the start of the buffer. image must not be
// larger than the buffer.
func (m *Memory) LoadImage(image []byte) error {
	if len(image) > len(m.data) {
		return fmt.Errorf("image of %d bytes does not fit in %d bytes of memory", len(image), len(m.data))
	}
	copy(m.data, image)
	return nil
}

func (m *Memory) checkRange(address, length int) error {
	if address < 0 || length < 0 || address+length > len(m.data) {
		return fmt.Errorf("memory access out of range: address %d, length %d, size %d", address, length, len(m.data))
	}
	return nil
}

// ReadByte returns the byte at address.
func (m *Memory) ReadByte(address int) (byte, error) {
	if err := m.checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// ReadWord reads a little-endian signed 32-bit word at address.
func (m *Memory) ReadWord(address int) (int32, error) {
	if err := m.checkRange(address, 4); err != nil {
		return 0, err
	}
	b := m.data[address : address+4]
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return int32(v), nil
}

// WriteWord writes value as a little-endian signed 32-bit word at address.
func (m *Memory) WriteWord(address int, value int32) error {
	if err := m.checkRange(address, 4); err != nil {
		return err
	}
	u := uint32(value)
	m.data[address] = byte(u)
	m.data[address+1] = byte(u >> 8)
	m.data[address+2] = byte(u >> 16)
	m.data[address+3] = byte(u >> 24)
	return nil
}

// Size returns the buffer's capacity in bytes.
func (m *Memory) Size() int { return len(m.data) }

// Stack is the separate descending stack buffer addressed directly by
// SP, never by way of Memory.
type Stack struct {
	data []byte
}

// NewStack allocates a zeroed stack buffer of size bytes.
func NewStack(size int) *Stack {
	return &Stack{data: make([]byte, size)}
}

func (s *Stack) checkRange(address, length int) error {
	if address < 0 || length < 0 || address+length > len(s.data) {
		return fmt.Errorf("stack access out of range: address %d, length %d, size %d", address, length, len(s.data))
	}
	return nil
}

// ReadWord reads a little-endian signed 32-bit word at address.
func (s *Stack) ReadWord(address int) (int32, error) {
	if err := s.checkRange(address, 4); err != nil {
		return 0, err
	}
	b := s.data[address : address+4]
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return int32(v), nil
}

// WriteWord writes value as a little-endian signed 32-bit word at address.
func (s *Stack) WriteWord(address int, value int32) error {
	if err := s.checkRange(address, 4); err != nil {
		return err
	}
	u := uint32(value)
	s.data[address] = byte(u)
	s.data[address+1] = byte(u >> 8)
	s.data[address+2] = byte(u >> 16)
	s.data[address+3] = byte(u >> 24)
	return nil
}

// Size returns the buffer's capacity in bytes.
func (s *Stack) Size() int { return len(s.data) }
