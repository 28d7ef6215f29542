package idb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interruptlabs/symconv/internal/testutil"
)

func TestReadID1ParsesSegmentBounds(t *testing.T) {
	le := binary.LittleEndian
	wordSize := 4

	data := make([]byte, 12+2*2*wordSize)
	copy(data[0:4], id1Magic[:])
	le.PutUint32(data[4:8], 2) // segment count
	le.PutUint32(data[8:12], 1)

	le.PutUint32(data[12:16], 0x1000) // segment 0 start
	le.PutUint32(data[16:20], 0x2000) // segment 0 end
	le.PutUint32(data[20:24], 0x3000) // segment 1 start
	le.PutUint32(data[24:28], 0x4000) // segment 1 end

	r := testutil.NewMockReaderAt(data)
	id1, err := readID1(r, 0, wordSize)
	require.NoError(t, err)
	require.Equal(t, uint32(2), id1.SegmentCount)
	require.Equal(t, []SegmentBounds{
		{Start: 0x1000, End: 0x2000},
		{Start: 0x3000, End: 0x4000},
	}, id1.Segments)
}

func TestReadID1BadMagic(t *testing.T) {
	data := make([]byte, 12)
	copy(data[0:4], "XXXX")
	r := testutil.NewMockReaderAt(data)

	_, err := readID1(r, 0, 4)
	require.Error(t, err)
}
