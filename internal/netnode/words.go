package netnode

import "encoding/binary"

func appendWordBE(buf []byte, v uint64, wordSize int) []byte {
	if wordSize == 8 {
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], v)
		return append(buf, tmp[:]...)
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func readWordBE(data []byte, wordSize int) uint64 {
	if wordSize == 8 {
		return binary.BigEndian.Uint64(data)
	}
	return uint64(binary.BigEndian.Uint32(data))
}

// signExtendWord reinterprets the low wordSize*8 bits of raw as
// two's-complement signed, returning it widened back into a uint64 so
// callers can narrow with int64(...).
func signExtendWord(raw uint64, wordSize int) uint64 {
	if wordSize == 8 {
		return uint64(int64(raw))
	}
	return uint64(int64(int32(uint32(raw))))
}

func decodeLittleEndianWord(data []byte, wordSize int) (uint64, error) {
	if len(data) < wordSize {
		return 0, errTruncatedWord(len(data), wordSize)
	}
	if wordSize == 8 {
		return binary.LittleEndian.Uint64(data), nil
	}
	return uint64(binary.LittleEndian.Uint32(data)), nil
}

func decodeLittleEndianSignedWord(data []byte, wordSize int) (int64, error) {
	raw, err := decodeLittleEndianWord(data, wordSize)
	if err != nil {
		return 0, err
	}
	if wordSize == 8 {
		return int64(raw), nil
	}
	return int64(int32(uint32(raw))), nil
}
