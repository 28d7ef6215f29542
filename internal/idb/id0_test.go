package idb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interruptlabs/symconv/internal/testutil"
)

// buildID0Fixture builds a 2-page ID0 section (header page + one leaf
// page holding a single `.<nodeID>N` entry) at byte offset 0, so
// readID0/Name can be exercised end to end without a full B-tree
// materialization fixture.
func buildID0Fixture(t *testing.T, nodeID uint32, value []byte) []byte {
	t.Helper()

	const pageSize = 64
	data := make([]byte, 2*pageSize)
	le := binary.LittleEndian

	// ID0 header (page 0).
	le.PutUint32(data[0:4], 0)         // next free offset
	le.PutUint16(data[4:6], pageSize)  // page size
	le.PutUint32(data[6:10], 1)        // root page index
	le.PutUint32(data[10:14], 1)       // record count
	le.PutUint32(data[14:18], 2)       // page count
	copy(data[19:28], id0Magic[:])

	// Leaf page (page 1), at offset pageSize.
	page := data[pageSize : 2*pageSize]
	// first_child_page = 0 (leaf); entry count = 1.
	le.PutUint16(page[4:6], 1)
	// descriptor 0: indent=0, record_offset=12.
	le.PutUint16(page[6:8], 0)
	le.PutUint16(page[10:12], 12)

	key := make([]byte, 0, 6)
	key = append(key, '.')
	var nodeIDBuf [4]byte
	binary.BigEndian.PutUint32(nodeIDBuf[:], nodeID)
	key = append(key, nodeIDBuf[:]...)
	key = append(key, 'N')

	off := 12
	le.PutUint16(page[off:off+2], uint16(len(key)))
	off += 2
	copy(page[off:], key)
	off += len(key)
	le.PutUint16(page[off:off+2], uint16(len(value)))
	off += 2
	copy(page[off:], value)

	return data
}

func TestReadID0AndName(t *testing.T) {
	data := buildID0Fixture(t, 0x10, []byte("my_node_name"))
	r := testutil.NewMockReaderAt(data)

	id0, err := readID0(r, 0, 4)
	require.NoError(t, err)
	require.Equal(t, uint32(1), id0.RootPageIndex)

	name, ok := id0.Name(0x10)
	require.True(t, ok)
	require.Equal(t, []byte("my_node_name"), name)

	_, ok = id0.Name(0x20)
	require.False(t, ok)
}

func TestReadID0BadMagic(t *testing.T) {
	data := buildID0Fixture(t, 0x10, []byte("x"))
	copy(data[19:28], "corrupted")
	r := testutil.NewMockReaderAt(data)

	_, err := readID0(r, 0, 4)
	require.Error(t, err)
}
