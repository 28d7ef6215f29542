// Package btree decodes the IDB container's proprietary B-tree v2 page
// format, materializes pages into a navigable tree, and implements the
// bounded range-search primitive the netnode layer is built on.
package btree

import (
	"encoding/binary"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

func malformedPage(context string, cause error) error {
	return ioutil.Wrap(context, ioutil.ErrMalformedPage, cause)
}

// RawEntry is a single decoded entry record from a page: its logical
// (already indent-expanded, for leaf pages) key, its value, and, for
// index pages, the page index of its right ("after") child.
type RawEntry struct {
	Key       []byte
	Value     []byte
	ChildPage uint32 // right child for index entries; unused for leaves
}

// RawPage is one decoded page: a leaf page when FirstChildPage is zero,
// otherwise an index page whose entries' left ("before") child is the
// previous entry's ChildPage, or FirstChildPage for the first entry.
type RawPage struct {
	FirstChildPage uint32
	Entries        []RawEntry
}

// IsLeaf reports whether the page holds leaf entries.
func (p *RawPage) IsLeaf() bool {
	return p.FirstChildPage == 0
}

// DecodePage decodes one raw page_size-byte page.
func DecodePage(data []byte) (*RawPage, error) {
	if len(data) < 6 {
		return nil, malformedPage("decode page", errTruncated("page header"))
	}

	firstChild := binary.LittleEndian.Uint32(data[0:4])
	count := binary.LittleEndian.Uint16(data[4:6])

	page := &RawPage{FirstChildPage: firstChild}

	if firstChild == 0 {
		entries, err := decodeLeafEntries(data, count)
		if err != nil {
			return nil, err
		}
		page.Entries = entries
		return page, nil
	}

	entries, err := decodeIndexEntries(data, count)
	if err != nil {
		return nil, err
	}
	page.Entries = entries
	return page, nil
}

func decodeLeafEntries(data []byte, count uint16) ([]RawEntry, error) {
	entries := make([]RawEntry, 0, count)
	var prevKey []byte

	for i := uint16(0); i < count; i++ {
		descOff := 6 + int(i)*6
		if descOff+6 > len(data) {
			return nil, malformedPage("decode leaf descriptor", errOutOfRange("descriptor"))
		}
		indent := binary.LittleEndian.Uint16(data[descOff : descOff+2])
		recordOffset := binary.LittleEndian.Uint16(data[descOff+4 : descOff+6])

		if int(indent) > len(prevKey) {
			return nil, malformedPage("decode leaf entry", errOutOfRange("indent exceeds previous key length"))
		}

		keySuffix, value, err := readRecord(data, recordOffset)
		if err != nil {
			return nil, err
		}

		key := make([]byte, 0, int(indent)+len(keySuffix))
		key = append(key, prevKey[:indent]...)
		key = append(key, keySuffix...)

		entries = append(entries, RawEntry{Key: key, Value: value})
		prevKey = key
	}

	return entries, nil
}

func decodeIndexEntries(data []byte, count uint16) ([]RawEntry, error) {
	entries := make([]RawEntry, 0, count)

	for i := uint16(0); i < count; i++ {
		descOff := 6 + int(i)*6
		if descOff+6 > len(data) {
			return nil, malformedPage("decode index descriptor", errOutOfRange("descriptor"))
		}
		childPage := binary.LittleEndian.Uint32(data[descOff : descOff+4])
		recordOffset := binary.LittleEndian.Uint16(data[descOff+4 : descOff+6])

		key, value, err := readRecord(data, recordOffset)
		if err != nil {
			return nil, err
		}

		entries = append(entries, RawEntry{Key: key, Value: value, ChildPage: childPage})
	}

	return entries, nil
}

func readRecord(data []byte, recordOffset uint16) (key, value []byte, err error) {
	off := int(recordOffset)
	if off+2 > len(data) {
		return nil, nil, malformedPage("read record", errOutOfRange("record offset"))
	}
	keyLen := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += 2
	if off+keyLen > len(data) {
		return nil, nil, malformedPage("read record", errOutOfRange("key truncated"))
	}
	key = data[off : off+keyLen]
	off += keyLen

	if off+2 > len(data) {
		return nil, nil, malformedPage("read record", errOutOfRange("value length truncated"))
	}
	valueLen := int(binary.LittleEndian.Uint16(data[off : off+2]))
	off += 2
	if off+valueLen > len(data) {
		return nil, nil, malformedPage("read record", errOutOfRange("value truncated"))
	}
	value = data[off : off+valueLen]

	return key, value, nil
}
