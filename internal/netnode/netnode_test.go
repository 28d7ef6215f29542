package netnode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interruptlabs/symconv/internal/btree"
	"github.com/interruptlabs/symconv/internal/idb"
	"github.com/interruptlabs/symconv/internal/ioutil"
)

// TestMakeKeyExampleVector checks the literal composition example from
// spec.md §8 scenario 3: node_id = 0xFF000010, tag = 'S', index = 5.
func TestMakeKeyExampleVector(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	n := FromID(id0, 0xFF000010)

	idx := int64(5)
	key := n.MakeKey('S', &idx)
	require.Equal(t, []byte{0x2E, 0xFF, 0x00, 0x00, 0x10, 0x53, 0x00, 0x00, 0x00, 0x05}, key)
}

func TestMakeBreakKeyRoundTripUnsigned(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	n := FromID(id0, 0x1234)

	idx := int64(99)
	key := n.MakeKey('X', &idx)

	tag, gotIdx, err := n.BreakKey(key, false)
	require.NoError(t, err)
	require.Equal(t, byte('X'), tag)
	require.NotNil(t, gotIdx)
	require.Equal(t, int64(99), *gotIdx)
}

func TestMakeBreakKeyRoundTripSignedNegative(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	n := FromID(id0, 0x1234)

	idx := int64(-7)
	key := n.MakeKey('X', &idx)

	tag, gotIdx, err := n.BreakKey(key, true)
	require.NoError(t, err)
	require.Equal(t, byte('X'), tag)
	require.Equal(t, int64(-7), *gotIdx)
}

func TestMakeBreakKeyRoundTripNoIndex(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	n := FromID(id0, 0x1234)

	key := n.MakeKey('N', nil)
	tag, idx, err := n.BreakKey(key, false)
	require.NoError(t, err)
	require.Equal(t, byte('N'), tag)
	require.Nil(t, idx)
}

func TestEntriesLinearization(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	n := FromID(id0, 0x10)

	idx0 := int64(0)
	idx1 := int64(1)
	idx2 := int64(2)
	keyOther := n.MakeKey('T', nil)

	entries := []btree.Entry{
		{Key: n.MakeKey('S', &idx0), Value: []byte("a")},
		{Key: n.MakeKey('S', &idx1), Value: []byte("b")},
		{Key: n.MakeKey('S', &idx2), Value: []byte("c")},
		{Key: keyOther, Value: []byte("z")},
	}
	id0.RootPage = &btree.LeafPage{Entries: entries}

	it := n.Entries('S')
	var got [][]byte
	for it.Next() {
		got = append(got, it.Entry().Value)
	}
	require.NoError(t, it.Err())
	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, got)
}

func TestNameLookup(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	n := FromID(id0, 0x10)

	key := n.MakeKey('N', nil)
	id0.RootPage = &btree.LeafPage{Entries: []btree.Entry{
		{Key: key, Value: []byte("hello")},
	}}

	name, err := n.Name()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), name)
}

func TestNameMissingFailsWithNoName(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	n := FromID(id0, 0x10)
	id0.RootPage = &btree.LeafPage{}

	_, err := n.Name()
	require.ErrorIs(t, err, ioutil.ErrNoName)
}

func TestFromNameResolvesNodeID(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	id0.RootPage = &btree.LeafPage{Entries: []btree.Entry{
		{Key: append([]byte{'N'}, []byte("$ segs")...), Value: littleEndian32(0xAB)},
	}}

	n, err := FromName(id0, []byte("$ segs"))
	require.NoError(t, err)
	require.Equal(t, uint64(0xAB), n.NodeID())
}

func littleEndian32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
