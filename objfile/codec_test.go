package objfile_test

import (
	"testing"

	"github.com/mjfoley/vam16/objfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	obj := &objfile.Object{
		CodeSize:    10,
		CodeSegment: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		DataSegment: []byte{100, 200, 0, 0},
		Symbols: []objfile.Symbol{
			{Name: "MAIN", Address: 0, IsExternal: false, IsData: false},
			{Name: "X", Address: 14, IsExternal: false, IsData: true},
		},
		Fixups: []objfile.Fixup{
			{BytecodeOffset: 2, Name: "MAIN", IsDataLabel: false, IsMemoryReference: false},
		},
	}

	encoded := obj.Write()
	decoded, err := objfile.Read(encoded)
	require.NoError(t, err)

	assert.Equal(t, obj.CodeSize, decoded.CodeSize)
	assert.Equal(t, obj.CodeSegment, decoded.CodeSegment)
	assert.Equal(t, obj.DataSegment, decoded.DataSegment)
	assert.Equal(t, obj.Symbols, decoded.Symbols)
	assert.Equal(t, obj.Fixups, decoded.Fixups)
}

func TestRead_TruncatedDataIsError(t *testing.T) {
	_, err := objfile.Read([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestWriteRead_EmptyObject(t *testing.T) {
	obj := objfile.New()
	encoded := obj.Write()
	decoded, err := objfile.Read(encoded)
	require.NoError(t, err)
	assert.Equal(t, int32(0), decoded.CodeSize)
	assert.Empty(t, decoded.Symbols)
	assert.Empty(t, decoded.Fixups)
}
