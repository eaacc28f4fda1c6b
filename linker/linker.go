// Package linker concatenates object artifacts into a single flat
// executable image, resolving every cross-object symbol reference and
// prepending the entry trampoline.
package linker

import (
	"fmt"

	"github.com/mjfoley/vam16/isa"
	"github.com/mjfoley/vam16/objfile"
)

// trampolineSize is the byte length of the fabricated JMP MAIN prefix:
// one opcode byte, one operand type byte, four placeholder payload bytes.
const trampolineSize = 6

// entrySymbol is the symbol every linked image must define exactly once.
const entrySymbol = "MAIN"

// Link combines objects, in order, into one flat memory image. Object i's
// code begins at trampolineSize + sum(code_size[0:i]); all data segments
// follow every code segment, in the same relative order.
func Link(objects []*objfile.Object) ([]byte, error) {
	codeOffsets := make([]int, len(objects))
	dataOffsets := make([]int, len(objects))

	offset := trampolineSize
	for i, obj := range objects {
		codeOffsets[i] = offset
		offset += len(obj.CodeSegment)
	}
	for i, obj := range objects {
		dataOffsets[i] = offset
		offset += len(obj.DataSegment)
	}
	imageSize := offset

	image := make([]byte, imageSize)
	for i, obj := range objects {
		copy(image[codeOffsets[i]:], obj.CodeSegment)
		copy(image[dataOffsets[i]:], obj.DataSegment)
	}

	globals := make(map[string]int32)
	for i, obj := range objects {
		for _, sym := range obj.Symbols {
			if sym.IsExternal {
				continue
			}
			var final int32
			if sym.IsData {
				final = int32(dataOffsets[i]) + sym.Address - obj.CodeSize
			} else {
				final = int32(codeOffsets[i]) + sym.Address
			}
			if _, dup := globals[sym.Name]; dup {
				return nil, fmt.Errorf("duplicate symbol definition: %s", sym.Name)
			}
			globals[sym.Name] = final
		}
	}

	if _, ok := globals[entrySymbol]; !ok {
		return nil, fmt.Errorf("missing entry point: no symbol %q defined", entrySymbol)
	}

	emitTrampoline(image, globals[entrySymbol])

	for i, obj := range objects {
		for _, fx := range obj.Fixups {
			target, ok := globals[fx.Name]
			if !ok {
				return nil, fmt.Errorf("undefined symbol: %s", fx.Name)
			}
			patch(image, codeOffsets[i]+int(fx.BytecodeOffset), target, fx.IsMemoryReference)
		}
	}

	return image, nil
}

// emitTrampoline writes the 6-byte JMP MAIN prefix directly, since its
// target is known immediately (it is the only fixup the linker itself
// originates rather than inherits from an object).
func emitTrampoline(image []byte, mainAddr int32) {
	image[0] = byte(isa.JMP)
	patch(image, 2, mainAddr, false)
}

// patch overwrites the operand type byte immediately preceding the
// payload at payloadOffset-1 and writes addr as the little-endian payload.
// This rewrites a Type-4 label operand into a Type-0 immediate or a
// Type-2 memory-at-immediate operand in place.
func patch(image []byte, payloadOffset int, addr int32, isMemoryReference bool) {
	typeByte := byte(0)
	if isMemoryReference {
		typeByte = 2
	}
	image[payloadOffset-1] = typeByte
	u := uint32(addr)
	image[payloadOffset] = byte(u)
	image[payloadOffset+1] = byte(u >> 8)
	image[payloadOffset+2] = byte(u >> 16)
	image[payloadOffset+3] = byte(u >> 24)
}
