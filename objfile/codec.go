package objfile

import (
	"bytes"
	"fmt"
)

// Write serializes o in the wire format. Lengths are fixed 64-bit
// little-endian fields rather than host-width size_t, so the format is
// stable across host word sizes (the source format used native size_t
// lengths, which this redesign replaces without changing the in-memory
// shape).
//
// Layout:
//
//	int32   code_size
//	u64 code_segment_len,  bytes[code_segment_len]
//	u64 data_segment_len,  bytes[data_segment_len]
//	u64 symbol_count,      symbols[symbol_count]
//	u64 fixup_count,       fixups[fixup_count]
//
//	symbol := string name, int32 address, bool is_external, bool is_data
//	fixup  := int32 bytecode_offset, string name, bool is_data_label, bool is_memory_reference
//	string := u64 byte_count, raw bytes (no terminator)
func (o *Object) Write() []byte {
	var buf bytes.Buffer

	putInt32(&buf, o.CodeSize)
	putBytes(&buf, o.CodeSegment)
	putBytes(&buf, o.DataSegment)

	putUint64(&buf, uint64(len(o.Symbols)))
	for _, s := range o.Symbols {
		putString(&buf, s.Name)
		putInt32(&buf, s.Address)
		putBool(&buf, s.IsExternal)
		putBool(&buf, s.IsData)
	}

	putUint64(&buf, uint64(len(o.Fixups)))
	for _, f := range o.Fixups {
		putInt32(&buf, f.BytecodeOffset)
		putString(&buf, f.Name)
		putBool(&buf, f.IsDataLabel)
		putBool(&buf, f.IsMemoryReference)
	}

	return buf.Bytes()
}

// Read deserializes an Object from the wire format produced by Write.
func Read(data []byte) (*Object, error) {
	r := &reader{data: data}

	codeSize, err := r.int32()
	if err != nil {
		return nil, fmt.Errorf("code_size: %w", err)
	}
	codeSegment, err := r.bytes()
	if err != nil {
		return nil, fmt.Errorf("code_segment: %w", err)
	}
	dataSegment, err := r.bytes()
	if err != nil {
		return nil, fmt.Errorf("data_segment: %w", err)
	}

	symCount, err := r.uint64()
	if err != nil {
		return nil, fmt.Errorf("symbol_count: %w", err)
	}
	symbols := make([]Symbol, 0, symCount)
	for i := uint64(0); i < symCount; i++ {
		name, err := r.string()
		if err != nil {
			return nil, fmt.Errorf("symbol[%d].name: %w", i, err)
		}
		addr, err := r.int32()
		if err != nil {
			return nil, fmt.Errorf("symbol[%d].address: %w", i, err)
		}
		isExternal, err := r.bool()
		if err != nil {
			return nil, fmt.Errorf("symbol[%d].is_external: %w", i, err)
		}
		isData, err := r.bool()
		if err != nil {
			return nil, fmt.Errorf("symbol[%d].is_data: %w", i, err)
		}
		symbols = append(symbols, Symbol{Name: name, Address: addr, IsExternal: isExternal, IsData: isData})
	}

	fixupCount, err := r.uint64()
	if err != nil {
		return nil, fmt.Errorf("fixup_count: %w", err)
	}
	fixups := make([]Fixup, 0, fixupCount)
	for i := uint64(0); i < fixupCount; i++ {
		offset, err := r.int32()
		if err != nil {
			return nil, fmt.Errorf("fixup[%d].bytecode_offset: %w", i, err)
		}
		name, err := r.string()
		if err != nil {
			return nil, fmt.Errorf("fixup[%d].name: %w", i, err)
		}
		isDataLabel, err := r.bool()
		if err != nil {
			return nil, fmt.Errorf("fixup[%d].is_data_label: %w", i, err)
		}
		isMemRef, err := r.bool()
		if err != nil {
			return nil, fmt.Errorf("fixup[%d].is_memory_reference: %w", i, err)
		}
		fixups = append(fixups, Fixup{
			BytecodeOffset:    offset,
			Name:              name,
			IsDataLabel:       isDataLabel,
			IsMemoryReference: isMemRef,
		})
	}

	return &Object{
		CodeSize:    codeSize,
		CodeSegment: codeSegment,
		DataSegment: dataSegment,
		Symbols:     symbols,
		Fixups:      fixups,
	}, nil
}

func putUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	buf.Write(b[:])
}

func putInt32(buf *bytes.Buffer, v int32) {
	u := uint32(v)
	buf.WriteByte(byte(u))
	buf.WriteByte(byte(u >> 8))
	buf.WriteByte(byte(u >> 16))
	buf.WriteByte(byte(u >> 24))
}

func putBytes(buf *bytes.Buffer, b []byte) {
	putUint64(buf, uint64(len(b)))
	buf.Write(b)
}

func putString(buf *bytes.Buffer, s string) {
	putBytes(buf, []byte(s))
}

func putBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

// reader walks a byte slice sequentially, decoding the fixed-width little
// endian fields written by Write.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) need(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("unexpected end of object data (need %d bytes at offset %d, have %d)", n, r.pos, len(r.data))
	}
	return nil
}

func (r *reader) int32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	b := r.data[r.pos : r.pos+4]
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	r.pos += 4
	return int32(v), nil
}

func (r *reader) uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	b := r.data[r.pos : r.pos+8]
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	r.pos += 8
	return v, nil
}

func (r *reader) bytes() ([]byte, error) {
	n, err := r.uint64()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

func (r *reader) string() (string, error) {
	b, err := r.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) bool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	v := r.data[r.pos] != 0
	r.pos++
	return v, nil
}
