package idb

import (
	"encoding/binary"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

var id1Magic = [4]byte{'V', 'A', '*', 0}

// SegmentBounds is one (start, end) byte-map range recorded in the ID1
// header's segment table.
type SegmentBounds struct {
	Start uint64
	End   uint64
}

// ID1 is the parsed ID1 header: the segment byte-map's bounds table.
// Per spec.md's Non-goals, the raw per-byte attribute data that follows
// the header is not decoded; only the header fields needed to locate it
// are kept.
type ID1 struct {
	WordSize     int
	SegmentCount uint32
	PageCount    uint32
	Segments     []SegmentBounds
}

// readID1 parses the ID1 header: magic, segment count, page count, then
// segment_count word-sized (start, end) pairs.
func readID1(r ioutil.ReaderAt, sectionOffset int64, wordSize int) (*ID1, error) {
	fixedSize := 12
	data, err := ioutil.ReadBytes(r, sectionOffset, fixedSize)
	if err != nil {
		return nil, ioutil.Wrap("read id1 header", ioutil.ErrIoFailure, err)
	}

	var magic [4]byte
	copy(magic[:], data[0:4])
	if magic != id1Magic {
		return nil, malformedContainer("parse id1 header", errBadSectionMagic("ID1", magic[:]))
	}

	le := binary.LittleEndian
	id1 := &ID1{
		WordSize:     wordSize,
		SegmentCount: le.Uint32(data[4:8]),
		PageCount:    le.Uint32(data[8:12]),
	}

	tableOffset := sectionOffset + int64(fixedSize)
	tableSize := int(id1.SegmentCount) * 2 * wordSize
	tableData, err := ioutil.ReadBytes(r, tableOffset, tableSize)
	if err != nil {
		return nil, ioutil.Wrap("read id1 segment table", ioutil.ErrIoFailure, err)
	}

	id1.Segments = make([]SegmentBounds, id1.SegmentCount)
	for i := range id1.Segments {
		off := i * 2 * wordSize
		start, errS := readWordLE(tableData[off:], wordSize)
		end, errE := readWordLE(tableData[off+wordSize:], wordSize)
		if errS != nil || errE != nil {
			return nil, malformedContainer("parse id1 segment table", errTruncatedField("segment bounds"))
		}
		id1.Segments[i] = SegmentBounds{Start: start, End: end}
	}

	return id1, nil
}

func readWordLE(data []byte, wordSize int) (uint64, error) {
	if len(data) < wordSize {
		return 0, errTruncatedField("word")
	}
	if wordSize == 8 {
		return binary.LittleEndian.Uint64(data), nil
	}
	return uint64(binary.LittleEndian.Uint32(data)), nil
}
