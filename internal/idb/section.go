package idb

import (
	"encoding/binary"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

const sectionHeaderSize = 9 // 1-byte compression method + 8-byte length

// sectionEnvelope reads and validates the per-section envelope at
// offset, returning the offset of the section's payload and its
// declared length.
func sectionEnvelope(r ioutil.ReaderAt, offset uint64) (payloadOffset int64, length uint64, err error) {
	data, err := ioutil.ReadBytes(r, int64(offset), sectionHeaderSize)
	if err != nil {
		return 0, 0, ioutil.Wrap("read section envelope", ioutil.ErrIoFailure, err)
	}

	compression := data[0]
	if compression != 0 {
		return 0, 0, ioutil.Wrap("read section envelope", ioutil.ErrUnsupportedCompression,
			errUnsupportedCompression(compression))
	}

	length = binary.LittleEndian.Uint64(data[1:9])
	return int64(offset) + sectionHeaderSize, length, nil
}
