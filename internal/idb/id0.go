package idb

import (
	"bytes"
	"encoding/binary"

	"github.com/interruptlabs/symconv/internal/btree"
	"github.com/interruptlabs/symconv/internal/ioutil"
)

const id0HeaderSize = 28

var id0Magic = [9]byte{'B', '-', 't', 'r', 'e', 'e', ' ', 'v', '2'}

// ID0 is the parsed ID0 section: a B-tree v2 database whose materialized
// root page the netnode layer searches.
type ID0 struct {
	WordSize       int
	NextFreeOffset uint32
	PageSize       uint16
	RootPageIndex  uint32
	RecordCount    uint32
	PageCount      uint32
	RootPage       btree.Node
}

// readID0 parses the 28-byte ID0 header, reads and materializes the
// B-tree, and returns the section.
func readID0(r ioutil.ReaderAt, sectionOffset int64, wordSize int) (*ID0, error) {
	data, err := ioutil.ReadBytes(r, sectionOffset, id0HeaderSize)
	if err != nil {
		return nil, ioutil.Wrap("read id0 header", ioutil.ErrIoFailure, err)
	}

	le := binary.LittleEndian
	var magic [9]byte
	copy(magic[:], data[19:28])
	if magic != id0Magic {
		return nil, malformedContainer("parse id0 header", errBadSectionMagic("ID0", magic[:]))
	}

	id0 := &ID0{
		WordSize:       wordSize,
		NextFreeOffset: le.Uint32(data[0:4]),
		PageSize:       le.Uint16(data[4:6]),
		RootPageIndex:  le.Uint32(data[6:10]),
		RecordCount:    le.Uint32(data[10:14]),
		PageCount:      le.Uint32(data[14:18]),
	}

	pages, err := btree.ReadPages(r, sectionOffset, id0.PageSize, id0.RootPageIndex, id0.PageCount)
	if err != nil {
		return nil, err
	}

	root, err := btree.Materialize(pages, id0.RootPageIndex)
	if err != nil {
		return nil, err
	}
	id0.RootPage = root

	return id0, nil
}

// Name looks up the name registered for node_id via the conventional
// `.<node_id>N` entry, returning (nil, false) when absent.
func (s *ID0) Name(nodeID uint64) ([]byte, bool) {
	key := makeNameKey(nodeID, s.WordSize)
	entry, err := btree.Search(s.RootPage, key, key, true, true, true)
	if err != nil || entry == nil {
		return nil, false
	}
	return entry.Value, true
}

func makeNameKey(nodeID uint64, wordSize int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('.')
	writeWord(&buf, nodeID, wordSize)
	buf.WriteByte('N')
	return buf.Bytes()
}

func writeWord(buf *bytes.Buffer, v uint64, wordSize int) {
	if wordSize == 8 {
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], v)
		buf.Write(tmp[:])
		return
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	buf.Write(tmp[:])
}
