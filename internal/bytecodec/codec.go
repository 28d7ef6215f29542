// Package bytecodec implements the fixed- and variable-width integer
// codecs used throughout the IDB container format, including the
// proprietary T/U/V/W/* packed encodings and a small format DSL that
// combines them with ordinary fixed-width fields.
package bytecodec

import (
	"encoding/binary"
	"fmt"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

func malformed(context string, cause error) error {
	return ioutil.Wrap(context, ioutil.ErrMalformedPack, cause)
}

// UnpackT decodes a T-code: 1-3 bytes, big-endian.
//
//	0xxxxxxx                           -> 1 byte,  value in [0,0x7F]
//	10xxxxxx xxxxxxxx                  -> 2 bytes, low 15 bits
//	11xxxxxx xxxxxxxx xxxxxxxx         -> 3 bytes, next 2 bytes verbatim
func UnpackT(data []byte) (uint16, int, error) {
	if len(data) < 1 {
		return 0, 0, malformed("unpack T", fmt.Errorf("empty input"))
	}
	b0 := data[0]
	switch {
	case b0&0x80 == 0:
		return uint16(b0), 1, nil
	case b0&0xC0 == 0x80:
		if len(data) < 2 {
			return 0, 0, malformed("unpack T", fmt.Errorf("truncated 2-byte form"))
		}
		v := uint16(b0)<<8 | uint16(data[1])
		return v & 0x7FFF, 2, nil
	default: // 11xxxxxx
		if len(data) < 3 {
			return 0, 0, malformed("unpack T", fmt.Errorf("truncated 3-byte form"))
		}
		v := uint16(data[1])<<8 | uint16(data[2])
		return v, 3, nil
	}
}

// UnpackSignedT decodes a T-code and reinterprets the 16-bit result as
// two's-complement signed. Used for the lowercase 'w' format token.
func UnpackSignedT(data []byte) (int16, int, error) {
	v, n, err := UnpackT(data)
	return int16(v), n, err
}

// PackT encodes n using the shortest valid T form.
func PackT(n uint16) []byte {
	if n <= 0x7F {
		return []byte{byte(n)}
	}
	if n <= 0x3FFF {
		return []byte{byte(0x80 | (n >> 8)), byte(n)}
	}
	return []byte{0xC0, byte(n >> 8), byte(n)}
}

// UnpackU decodes a U-code: 1-5 bytes, big-endian.
//
//	0xxxxxxx                                   -> 1 byte
//	10xxxxxx xxxxxxxx                          -> 2 bytes, low 15 bits
//	110xxxxx xxxxxxxx xxxxxxxx xxxxxxxx        -> 4 bytes, low 30 bits
//	111xxxxx followed by 4 big-endian bytes    -> 5 bytes, 32-bit value
func UnpackU(data []byte) (uint32, int, error) {
	if len(data) < 1 {
		return 0, 0, malformed("unpack U", fmt.Errorf("empty input"))
	}
	b0 := data[0]
	switch {
	case b0&0x80 == 0:
		return uint32(b0), 1, nil
	case b0&0xC0 == 0x80:
		if len(data) < 2 {
			return 0, 0, malformed("unpack U", fmt.Errorf("truncated 2-byte form"))
		}
		v := uint32(b0)<<8 | uint32(data[1])
		return v & 0x7FFF, 2, nil
	case b0&0xE0 == 0xC0:
		if len(data) < 4 {
			return 0, 0, malformed("unpack U", fmt.Errorf("truncated 4-byte form"))
		}
		v := uint32(b0)<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
		return v & 0x3FFFFFFF, 4, nil
	default: // 111xxxxx
		if len(data) < 5 {
			return 0, 0, malformed("unpack U", fmt.Errorf("truncated 5-byte form"))
		}
		v := binary.BigEndian.Uint32(data[1:5])
		return v, 5, nil
	}
}

// UnpackSignedU decodes a U-code and reinterprets the 32-bit result as
// two's-complement signed.
func UnpackSignedU(data []byte) (int32, int, error) {
	v, n, err := UnpackU(data)
	return int32(v), n, err
}

// PackU encodes n using the shortest valid U form.
func PackU(n uint32) []byte {
	switch {
	case n <= 0x7F:
		return []byte{byte(n)}
	case n <= 0x3FFF:
		return []byte{byte(0x80 | (n >> 8)), byte(n)}
	case n <= 0x1FFFFFFF:
		return []byte{byte(0xC0 | (n >> 24)), byte(n >> 16), byte(n >> 8), byte(n)}
	default:
		out := []byte{0xE0, 0, 0, 0, 0}
		binary.BigEndian.PutUint32(out[1:], n)
		return out
	}
}

// UnpackV decodes a V-code: two consecutive U-codes, the first holding
// the upper 32 bits and the second the lower 32 bits.
func UnpackV(data []byte) (uint64, int, error) {
	hi, n1, err := UnpackU(data)
	if err != nil {
		return 0, 0, malformed("unpack V (high)", err)
	}
	lo, n2, err := UnpackU(data[n1:])
	if err != nil {
		return 0, 0, malformed("unpack V (low)", err)
	}
	return uint64(hi)<<32 | uint64(lo), n1 + n2, nil
}

// PackV encodes n as two consecutive U-codes, high half first.
func PackV(n uint64) []byte {
	hi := PackU(uint32(n >> 32))
	lo := PackU(uint32(n))
	return append(hi, lo...)
}

// UnpackStar decodes a '*' code: U if wordSize is 4, V if wordSize is 8.
func UnpackStar(data []byte, wordSize int) (uint64, int, error) {
	if wordSize == 8 {
		return UnpackV(data)
	}
	v, n, err := UnpackU(data)
	return uint64(v), n, err
}

// PackStar encodes n as a '*' code for the given word size.
func PackStar(n uint64, wordSize int) []byte {
	if wordSize == 8 {
		return PackV(n)
	}
	return PackU(uint32(n))
}
