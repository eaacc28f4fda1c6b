// Package objfile defines the relocatable object artifact produced by the
// code generator and consumed by the linker, along with its binary
// serialization.
package objfile

// Symbol names a location within an object's code-then-data layout. For a
// code symbol, Address is the byte offset within the object's code
// segment. For a data symbol, Address is code_size + word_offset*4: the
// byte offset of the symbol's first word within the combined
// code-then-data layout of this object.
type Symbol struct {
	Name       string
	Address    int32
	IsExternal bool
	IsData     bool
}

// Fixup is a deferred relocation: a placeholder written into the code
// segment at generation time, to be patched once a global address for
// Name is known.
type Fixup struct {
	BytecodeOffset    int32
	Name              string
	IsDataLabel       bool
	IsMemoryReference bool
}

// Object is one translation unit's compiled output: a code segment, a
// data segment, the symbols this object defines, and the fixups still
// needed before the code segment is position-independent of every other
// object in the link.
type Object struct {
	CodeSegment []byte
	DataSegment []byte
	Symbols     []Symbol
	Fixups      []Fixup
	CodeSize    int32
}

// New returns an empty Object ready to be filled in by the code generator.
func New() *Object {
	return &Object{}
}
