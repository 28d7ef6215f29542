// Package idb parses the IDB container: its 88-byte file header, the
// per-section envelope, and the ID0/ID1/NAM section headers and
// payloads needed by the netnode layer and the extractors above it.
package idb

import (
	"encoding/binary"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

const headerSize = 88

// SectionMask selects which sections Open constructs, mirroring the
// sections= bitmask the original tool's callers pass explicitly rather
// than always decoding every section.
type SectionMask uint8

const (
	SectionID0 SectionMask = 1 << iota
	SectionID1
	SectionNAM
	SectionSEG
	SectionTIL
	SectionID2

	SectionAll = SectionID0 | SectionID1 | SectionNAM | SectionSEG | SectionTIL | SectionID2
)

const expectedSignature = 0xAABBCCDD
const expectedVersion = 6

// Header is the IDB container's fixed 88-byte file header.
type Header struct {
	Magic         [4]byte
	ID0Offset     uint64
	ID1Offset     uint64
	Signature     uint32
	Version       uint16
	NAMOffset     uint64
	SEGOffset     uint64
	TILOffset     uint64
	ChecksumID0   uint32
	ChecksumID1   uint32
	ChecksumNAM   uint32
	ChecksumSEG   uint32
	ChecksumTIL   uint32
	ID2Offset     uint64
	ChecksumID2   uint32
}

// WordSize is 8 for magic IDA2 and 4 otherwise.
func (h *Header) WordSize() int {
	if h.Magic == ([4]byte{'I', 'D', 'A', '2'}) {
		return 8
	}
	return 4
}

func malformedContainer(context string, cause error) error {
	return ioutil.Wrap(context, ioutil.ErrMalformedContainer, cause)
}

// ParseHeader decodes and validates the 88-byte IDB file header.
func ParseHeader(r ioutil.ReaderAt) (*Header, error) {
	data, err := ioutil.ReadBytes(r, 0, headerSize)
	if err != nil {
		return nil, ioutil.Wrap("read idb header", ioutil.ErrIoFailure, err)
	}

	var h Header
	copy(h.Magic[:], data[0:4])
	switch h.Magic {
	case [4]byte{'I', 'D', 'A', '0'}, [4]byte{'I', 'D', 'A', '1'}, [4]byte{'I', 'D', 'A', '2'}:
	default:
		return nil, malformedContainer("parse idb header", errBadMagic(h.Magic))
	}

	le := binary.LittleEndian
	h.ID0Offset = le.Uint64(data[6:14])
	h.ID1Offset = le.Uint64(data[14:22])
	h.Signature = le.Uint32(data[26:30])
	h.Version = le.Uint16(data[30:32])
	h.NAMOffset = le.Uint64(data[32:40])
	h.SEGOffset = le.Uint64(data[40:48])
	h.TILOffset = le.Uint64(data[48:56])
	h.ChecksumID0 = le.Uint32(data[56:60])
	h.ChecksumID1 = le.Uint32(data[60:64])
	h.ChecksumNAM = le.Uint32(data[64:68])
	h.ChecksumSEG = le.Uint32(data[68:72])
	h.ChecksumTIL = le.Uint32(data[72:76])
	h.ID2Offset = le.Uint64(data[76:84])
	h.ChecksumID2 = le.Uint32(data[84:88])

	if h.Signature != expectedSignature {
		return nil, malformedContainer("parse idb header", errBadSignature(h.Signature))
	}
	if h.Version != expectedVersion {
		return nil, malformedContainer("parse idb header", errBadVersion(h.Version))
	}

	return &h, nil
}
