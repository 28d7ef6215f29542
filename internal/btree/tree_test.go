package btree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildSampleTree builds a two-level tree by hand (no raw page decoding
// involved) so the range-search primitive's bound semantics can be
// checked directly: leaf A holds {0x10, 0x20}, leaf B holds {0x30,
// 0x40}, and the root index page carries one interior key, 0x25,
// between them. Ascending order across the whole tree is therefore
// 0x10, 0x20, 0x25, 0x30, 0x40.
func buildSampleTree() Node {
	leafA := &LeafPage{Entries: []Entry{
		{Key: []byte{0x10}, Value: []byte{0xAA}},
		{Key: []byte{0x20}, Value: []byte{0xBB}},
	}}
	leafB := &LeafPage{Entries: []Entry{
		{Key: []byte{0x30}, Value: []byte{0xCC}},
		{Key: []byte{0x40}, Value: []byte{0xDD}},
	}}
	root := &IndexPage{
		Entries:   []Entry{{Key: []byte{0x25}, Value: []byte{0xEE}}},
		Before:    []Node{leafA},
		AfterLast: leafB,
	}
	return root
}

func TestSearchUnboundedLowest(t *testing.T) {
	root := buildSampleTree()
	got, err := Search(root, nil, nil, false, false, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0x10}, got.Key)
	require.Equal(t, []byte{0xAA}, got.Value)
}

func TestSearchInclusiveExactMatch(t *testing.T) {
	root := buildSampleTree()
	got, err := Search(root, []byte{0x20}, nil, true, false, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0x20}, got.Key)
}

func TestSearchExclusiveSkipsExactMatch(t *testing.T) {
	root := buildSampleTree()
	got, err := Search(root, []byte{0x20}, nil, false, false, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0x25}, got.Key)
}

func TestSearchBoundedRangeHighestInclusive(t *testing.T) {
	root := buildSampleTree()
	got, err := Search(root, []byte{0x22}, []byte{0x35}, true, true, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0x30}, got.Key)
}

func TestSearchBoundedRangeHighestExclusive(t *testing.T) {
	root := buildSampleTree()
	got, err := Search(root, []byte{0x22}, []byte{0x30}, true, false, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0x25}, got.Key)
}

func TestSearchReturnsNothingWhenNoMatch(t *testing.T) {
	root := buildSampleTree()
	got, err := Search(root, []byte{0x41}, nil, false, false, true)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSearchEmptyRangeWhenMinExceedsMax(t *testing.T) {
	root := buildSampleTree()
	got, err := Search(root, []byte{0x30}, []byte{0x20}, true, true, true)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDecodeLeafPageIndentCompression(t *testing.T) {
	// Page: first_page_index=0 (leaf), count=2.
	// Entry 0: indent=0, record at offset 18: key_len=2 "ab", value_len=1 "X".
	// Entry 1: indent=1, record at offset 27: key_len=1 "c" (suffix), value_len=1 "Y".
	// Logical key of entry 1 = prevKey[:1] + "c" = "ac".
	data := make([]byte, 64)
	// header
	data[4] = 2 // count low byte
	// descriptor 0: indent(u16 LE)=0, pad(2), record_offset(u16 LE)=18
	putU16LE(data[6:8], 0)
	putU16LE(data[10:12], 18)
	// descriptor 1: indent=1, record_offset=27
	putU16LE(data[12:14], 1)
	putU16LE(data[16:18], 27)
	// record 0 at 18: key_len=2, "ab", value_len=1, "X"
	putU16LE(data[18:20], 2)
	copy(data[20:22], "ab")
	putU16LE(data[22:24], 1)
	copy(data[24:25], "X")
	// record 1 at 27: key_len=1, "c", value_len=1, "Y"
	putU16LE(data[27:29], 1)
	copy(data[29:30], "c")
	putU16LE(data[30:32], 1)
	copy(data[32:33], "Y")

	page, err := DecodePage(data)
	require.NoError(t, err)
	require.True(t, page.IsLeaf())
	require.Len(t, page.Entries, 2)
	require.Equal(t, []byte("ab"), page.Entries[0].Key)
	require.Equal(t, []byte("ac"), page.Entries[1].Key)
}

func putU16LE(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
