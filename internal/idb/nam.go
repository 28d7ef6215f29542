package idb

import (
	"encoding/binary"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

const namPageSize = 0x2000

var namMagic = [4]byte{'V', 'A', '*', 0}

// NAM is the parsed NAM section: the flat list of addresses with a
// registered name, in on-disk order.
type NAM struct {
	WordSize  int
	NonEmpty  uint32
	PageCount uint32
	NameCount uint32
	Addresses []uint64
}

// readNAM parses the NAM section header (24+wordSize bytes, per the
// original tool's unpack layout: magic, 4 pad, non_empty, 4 pad,
// page_count, wordSize pad, name_count) followed by name_count
// word-sized addresses starting at the 0x2000-byte page boundary.
func readNAM(r ioutil.ReaderAt, sectionOffset int64, wordSize int) (*NAM, error) {
	headerSize := 24 + wordSize
	data, err := ioutil.ReadBytes(r, sectionOffset, headerSize)
	if err != nil {
		return nil, ioutil.Wrap("read nam header", ioutil.ErrIoFailure, err)
	}

	var magic [4]byte
	copy(magic[:], data[0:4])
	if magic != namMagic {
		return nil, malformedContainer("parse nam header", errBadSectionMagic("NAM", magic[:]))
	}

	le := binary.LittleEndian
	nam := &NAM{
		WordSize:  wordSize,
		NonEmpty:  le.Uint32(data[8:12]),
		PageCount: le.Uint32(data[16:20]),
		NameCount: le.Uint32(data[20+wordSize : 24+wordSize]),
	}
	if wordSize == 8 {
		nam.NameCount /= 2
	}

	namesOffset := sectionOffset + namPageSize
	addrData, err := ioutil.ReadBytes(r, namesOffset, int(nam.NameCount)*wordSize)
	if err != nil {
		return nil, ioutil.Wrap("read nam addresses", ioutil.ErrIoFailure, err)
	}

	nam.Addresses = make([]uint64, nam.NameCount)
	for i := range nam.Addresses {
		off := i * wordSize
		if wordSize == 8 {
			nam.Addresses[i] = le.Uint64(addrData[off : off+8])
		} else {
			nam.Addresses[i] = uint64(le.Uint32(addrData[off : off+4]))
		}
	}

	return nam, nil
}
