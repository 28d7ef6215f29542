package idb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interruptlabs/symconv/internal/ioutil"
	"github.com/interruptlabs/symconv/internal/testutil"
)

func buildHeader(t *testing.T, magic [4]byte) []byte {
	t.Helper()
	data := make([]byte, headerSize)
	copy(data[0:4], magic[:])
	le := binary.LittleEndian
	le.PutUint64(data[6:14], 0x100)  // id0 offset
	le.PutUint64(data[14:22], 0x200) // id1 offset
	le.PutUint32(data[26:30], expectedSignature)
	le.PutUint16(data[30:32], expectedVersion)
	le.PutUint64(data[32:40], 0x300) // nam offset
	le.PutUint64(data[40:48], 0)     // seg offset
	le.PutUint64(data[48:56], 0)     // til offset
	return data
}

func TestParseHeaderValid(t *testing.T) {
	data := buildHeader(t, [4]byte{'I', 'D', 'A', '2'})
	r := testutil.NewMockReaderAt(data)

	h, err := ParseHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint64(0x100), h.ID0Offset)
	require.Equal(t, uint64(0x200), h.ID1Offset)
	require.Equal(t, uint64(0x300), h.NAMOffset)
	require.Equal(t, 8, h.WordSize())
}

func TestParseHeaderWordSizeFor32Bit(t *testing.T) {
	data := buildHeader(t, [4]byte{'I', 'D', 'A', '1'})
	r := testutil.NewMockReaderAt(data)

	h, err := ParseHeader(r)
	require.NoError(t, err)
	require.Equal(t, 4, h.WordSize())
}

func TestParseHeaderBadMagic(t *testing.T) {
	data := buildHeader(t, [4]byte{'X', 'X', 'X', 'X'})
	r := testutil.NewMockReaderAt(data)

	_, err := ParseHeader(r)
	require.ErrorIs(t, err, ioutil.ErrMalformedContainer)
}

func TestParseHeaderBadSignature(t *testing.T) {
	data := buildHeader(t, [4]byte{'I', 'D', 'A', '2'})
	binary.LittleEndian.PutUint32(data[26:30], 0)
	r := testutil.NewMockReaderAt(data)

	_, err := ParseHeader(r)
	require.Error(t, err)
}

func TestParseHeaderBadVersion(t *testing.T) {
	data := buildHeader(t, [4]byte{'I', 'D', 'A', '2'})
	binary.LittleEndian.PutUint16(data[30:32], 1)
	r := testutil.NewMockReaderAt(data)

	_, err := ParseHeader(r)
	require.Error(t, err)
}
