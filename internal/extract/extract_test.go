package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interruptlabs/symconv/internal/btree"
	"github.com/interruptlabs/symconv/internal/bytecodec"
	"github.com/interruptlabs/symconv/internal/idb"
	"github.com/interruptlabs/symconv/internal/netnode"
)

// buildSegsFixture builds an ID0 whose root page serves exactly what
// the segment extractor needs: a named `$ segstrings` netnode with one
// sup(0) string table, and a named `$ segs` netnode with one segment
// entry.
func buildSegsFixture(t *testing.T) *idb.ID0 {
	t.Helper()
	id0 := &idb.ID0{WordSize: 4}

	stringsNode := netnode.FromID(id0, 0x1)
	segsNode := netnode.FromID(id0, 0x2)

	stringTable := append([]byte{byte(len(".text"))}, []byte(".text")...)

	// WWWWWUUUUUUUU: start, end(delta), name_index, class, org_base,
	// flags, alignment, combination, permissions, bitness, type,
	// selector, colour(+1).
	value := append(bytecodec.PackT(0x1000), bytecodec.PackT(0x100)...) // start, end-delta
	value = append(value, bytecodec.PackT(0)...)                       // name_index
	value = append(value, bytecodec.PackT(0)...)                       // class
	value = append(value, bytecodec.PackT(0)...)                       // org_base
	value = append(value, bytecodec.PackU(0)...)                       // flags
	value = append(value, bytecodec.PackU(0)...)                       // alignment
	value = append(value, bytecodec.PackU(0)...)                       // combination
	value = append(value, bytecodec.PackU(5)...)                       // permissions (R|X)
	value = append(value, bytecodec.PackU(1)...)                       // bitness code -> 32
	value = append(value, bytecodec.PackU(0)...)                       // type
	value = append(value, bytecodec.PackU(0)...)                       // selector
	value = append(value, bytecodec.PackU(1)...)                       // colour stored as 1 -> decoded 0

	idx := int64(0x1000)
	zero := int64(0)
	entries := []btree.Entry{
		{Key: append([]byte{'N'}, []byte("$ segstrings")...), Value: littleEndian32(1)},
		{Key: append([]byte{'N'}, []byte("$ segs")...), Value: littleEndian32(2)},
		{Key: stringsNode.MakeKey('S', &zero), Value: stringTable},
		{Key: segsNode.MakeKey('S', &idx), Value: value},
	}
	id0.RootPage = &btree.LeafPage{Entries: entries}

	return id0
}

func littleEndian32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func TestSegmentsDecodesAndNormalizes(t *testing.T) {
	id0 := buildSegsFixture(t)

	segments, err := Segments(id0)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	require.Equal(t, uint64(0x1000), seg.Start)
	require.Equal(t, uint64(0x1100), seg.End)
	require.Equal(t, []byte(".text"), seg.Name)
	require.Equal(t, 32, seg.Bitness)
	require.Equal(t, uint32(0), seg.Colour)
	require.Equal(t, uint64(PermR|PermX), seg.Permissions)
}

func TestFunctionGroupingHeadAndTail(t *testing.T) {
	id0 := &idb.ID0{WordSize: 4}
	funcsNode := netnode.FromID(id0, 0x3)

	headIdx := int64(0x1000)
	tailIdx := int64(0x1100)

	// Head: WWT = start(0x1000), end-delta(0x50), flags(0, no tail bit).
	headValue := append(bytecodec.PackT(0x1000), bytecodec.PackT(0x50)...)
	headValue = append(headValue, bytecodec.PackT(0)...)
	headValue = append(headValue, bytecodec.PackT(0)...) // frame
	headValue = append(headValue, bytecodec.PackT(0)...) // locals_size
	headValue = append(headValue, bytecodec.PackT(0)...) // registers_size (T)
	headValue = append(headValue, bytecodec.PackT(0)...) // arguments_size

	// Tail: WWT = start(0x1100), end-delta(0x20), flags(tailFlag),
	// then w (signed parent delta = start-parent = 0x100), U referer count.
	tailValue := append(bytecodec.PackT(0x1100), bytecodec.PackT(0x20)...)
	tailValue = append(tailValue, bytecodec.PackT(tailFlag)...)
	tailValue = append(tailValue, bytecodec.PackT(0x100)...) // w: signed parent delta
	tailValue = append(tailValue, bytecodec.PackU(0)...)     // referer count

	entries := []btree.Entry{
		{Key: funcsNode.MakeKey('S', &headIdx), Value: headValue},
		{Key: funcsNode.MakeKey('S', &tailIdx), Value: tailValue},
		{Key: append([]byte{'N'}, []byte("$ funcs")...), Value: littleEndian32(3)},
	}
	id0.RootPage = &btree.LeafPage{Entries: entries}

	functions, err := Functions(id0)
	require.NoError(t, err)
	require.Len(t, functions, 1)

	fn := functions[0]
	require.Equal(t, uint64(0x1000), fn.Head.Start)
	require.Len(t, fn.Tails, 1)
	require.Equal(t, fn.Head.Start, fn.Tails[0].Parent)
	require.Nil(t, fn.Name) // no netnode registered for 0x1000
}
