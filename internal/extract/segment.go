// Package extract translates raw netnode entries into the domain
// records symconv operates on: segments and functions, each grounded
// on the packed-value layouts the original tool's extractors decode.
package extract

import (
	"github.com/interruptlabs/symconv/internal/btree"
	"github.com/interruptlabs/symconv/internal/idb"
	"github.com/interruptlabs/symconv/internal/ioutil"
	"github.com/interruptlabs/symconv/internal/netnode"
)

// Segment is one decoded `$ segs` entry: a named, permissioned address
// range plus the extra IDA-specific bookkeeping fields carried
// alongside it (class, alignment/combination codes, selector, colour).
type Segment struct {
	Start            uint64
	End              uint64 // normalized: start + stored delta
	NameIndex        uint64
	Name             []byte
	Class            uint64
	OrgBase          uint64
	Flags            uint64
	AlignmentCodes   uint64
	CombinationCodes uint64
	Permissions      uint64
	Bitness          int // 16, 32, or 64
	Type             uint64
	Selector         uint64
	Colour           uint32
}

// Permission bits within Segment.Permissions.
const (
	PermX = 1 << 0
	PermW = 1 << 1
	PermR = 1 << 2
)

// Segments decodes every segment registered under the named netnode
// `$ segs`, resolving each segment's name through the length-prefixed
// string table stored under `$ segstrings`.
func Segments(id0 *idb.ID0) ([]Segment, error) {
	strings, err := segmentStrings(id0)
	if err != nil {
		return nil, err
	}

	segsNode, err := netnode.FromName(id0, []byte("$ segs"))
	if err != nil {
		return nil, err
	}

	var segments []Segment
	it := segsNode.Entries('S')
	for it.Next() {
		seg, err := decodeSegment(segsNode, it.Entry(), strings)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return segments, nil
}

func segmentStrings(id0 *idb.ID0) ([][]byte, error) {
	node, err := netnode.FromName(id0, []byte("$ segstrings"))
	if err != nil {
		return nil, err
	}

	raw, err := node.Sup(0)
	if err != nil {
		return nil, err
	}

	var out [][]byte
	offset := 0
	for offset < len(raw) {
		length := int(raw[offset])
		offset++
		if offset+length > len(raw) {
			return nil, ioutil.Wrap("decode segment strings", ioutil.ErrMalformedPack, errTruncatedStringTable())
		}
		out = append(out, raw[offset:offset+length])
		offset += length
	}
	return out, nil
}

func decodeSegment(node *netnode.NetNode, entry *btree.Entry, strings [][]byte) (Segment, error) {
	values, _, err := node.Unpack("WWWWWUUUUUUUU", entry.Value)
	if err != nil {
		return Segment{}, err
	}
	if len(values) != 13 {
		return Segment{}, ioutil.Wrap("decode segment", ioutil.ErrMalformedPack, errWrongFieldCount(13, len(values)))
	}

	keyIndex, err := node.KeyIndex(entry.Key, false)
	if err != nil {
		return Segment{}, err
	}

	var seg Segment
	seg.Start = values[0].UInt
	if seg.Start != uint64(keyIndex) {
		return Segment{}, ioutil.Wrap("decode segment", ioutil.ErrMalformedPack, errSegmentIndexMismatch(seg.Start, keyIndex))
	}

	seg.End = seg.Start + values[1].UInt
	seg.NameIndex = values[2].UInt
	seg.Class = values[3].UInt
	seg.OrgBase = values[4].UInt
	seg.Flags = values[5].UInt
	seg.AlignmentCodes = values[6].UInt
	seg.CombinationCodes = values[7].UInt
	seg.Permissions = values[8].UInt

	bitnessCode := values[9].UInt
	if bitnessCode > 2 {
		return Segment{}, ioutil.Wrap("decode segment", ioutil.ErrMalformedPack, errBadBitness(bitnessCode))
	}
	seg.Bitness = 1 << (bitnessCode + 4)

	seg.Type = values[10].UInt
	seg.Selector = values[11].UInt
	seg.Colour = uint32(values[12].UInt - 1)

	if int(seg.NameIndex) < len(strings) {
		seg.Name = strings[seg.NameIndex]
	}

	return seg, nil
}
