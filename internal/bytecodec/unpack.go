package bytecodec

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Value is a single decoded field from Unpack. Every field is stored in
// UInt; signed fields (lowercase tokens) are stored sign-extended, with
// Signed set, and are read back through Int64.
type Value struct {
	UInt   uint64
	Signed bool
}

// Int64 returns the value reinterpreted as signed, for fields decoded
// from a lowercase (signed) format token.
func (v Value) Int64() int64 {
	return int64(v.UInt)
}

// Unpack interprets format against data using the packed-integer format
// DSL described in the container's packed-value convention: fixed-width
// codes (b=u8, H=u16, I=u32, Q=u64, x=pad-skip) combined with the
// proprietary variable codes T/U/V/W/w/u/*. A leading '<' or '>' selects
// little- or big-endian for the fixed-width codes only; the proprietary
// codes are always big-endian. A numeric prefix repeats the following
// code that many times. wordSize resolves '*' tokens (4 or 8).
//
// Returns the decoded values in order and the total number of bytes
// consumed.
func Unpack(format string, data []byte, wordSize int) ([]Value, int, error) {
	order := binary.ByteOrder(binary.BigEndian)
	var values []Value
	var pos int

	i := 0
	for i < len(format) {
		c := format[i]

		if c == '<' {
			order = binary.LittleEndian
			i++
			continue
		}
		if c == '>' {
			order = binary.BigEndian
			i++
			continue
		}

		repeat := 1
		if c >= '0' && c <= '9' {
			start := i
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
			if i >= len(format) {
				return nil, 0, malformed("unpack format", fmt.Errorf("dangling numeric prefix %q", format[start:i]))
			}
			n, err := strconv.Atoi(format[start:i])
			if err != nil {
				return nil, 0, malformed("unpack format", err)
			}
			repeat = n
			c = format[i]
		}
		i++

		for r := 0; r < repeat; r++ {
			rest := data[pos:]
			switch c {
			case 'x':
				if len(rest) < 1 {
					return nil, 0, malformed("unpack format", fmt.Errorf("truncated pad byte"))
				}
				pos++
			case 'b':
				if len(rest) < 1 {
					return nil, 0, malformed("unpack format", fmt.Errorf("truncated byte field"))
				}
				values = append(values, Value{UInt: uint64(rest[0])})
				pos++
			case 'H':
				if len(rest) < 2 {
					return nil, 0, malformed("unpack format", fmt.Errorf("truncated u16 field"))
				}
				values = append(values, Value{UInt: uint64(order.Uint16(rest))})
				pos += 2
			case 'I':
				if len(rest) < 4 {
					return nil, 0, malformed("unpack format", fmt.Errorf("truncated u32 field"))
				}
				values = append(values, Value{UInt: uint64(order.Uint32(rest))})
				pos += 4
			case 'Q':
				if len(rest) < 8 {
					return nil, 0, malformed("unpack format", fmt.Errorf("truncated u64 field"))
				}
				values = append(values, Value{UInt: order.Uint64(rest)})
				pos += 8
			case 'T', 'W':
				v, n, err := UnpackT(rest)
				if err != nil {
					return nil, 0, err
				}
				values = append(values, Value{UInt: uint64(v)})
				pos += n
			case 'w':
				v, n, err := UnpackSignedT(rest)
				if err != nil {
					return nil, 0, err
				}
				values = append(values, Value{UInt: uint64(int64(v)), Signed: true})
				pos += n
			case 'U':
				v, n, err := UnpackU(rest)
				if err != nil {
					return nil, 0, err
				}
				values = append(values, Value{UInt: uint64(v)})
				pos += n
			case 'u':
				v, n, err := UnpackSignedU(rest)
				if err != nil {
					return nil, 0, err
				}
				values = append(values, Value{UInt: uint64(int64(v)), Signed: true})
				pos += n
			case 'V':
				v, n, err := UnpackV(rest)
				if err != nil {
					return nil, 0, err
				}
				values = append(values, Value{UInt: v})
				pos += n
			case '*':
				v, n, err := UnpackStar(rest, wordSize)
				if err != nil {
					return nil, 0, err
				}
				values = append(values, Value{UInt: v})
				pos += n
			default:
				return nil, 0, malformed("unpack format", fmt.Errorf("unknown format token %q", c))
			}
		}
	}

	return values, pos, nil
}
