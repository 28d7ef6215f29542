package extract

import (
	"github.com/interruptlabs/symconv/internal/idb"
	"github.com/interruptlabs/symconv/internal/ioutil"
	"github.com/interruptlabs/symconv/internal/netnode"
)

// tailFlag marks a chunk header as a tail subordinate to a head chunk
// elsewhere in the same function.
const tailFlag = 0x8000

// ChunkHeader is one decoded `$ funcs` entry.
type ChunkHeader struct {
	Start uint64
	End   uint64 // normalized: start + stored delta
	Flags uint64

	// Populated only when Flags&tailFlag != 0.
	Parent       uint64
	RefererCount uint64

	// Populated only when Flags&tailFlag == 0.
	Frame         uint64
	LocalsSize    uint64
	RegistersSize uint64
	ArgumentsSize uint64
}

// IsTail reports whether this chunk is a tail, subordinate to a head
// chunk elsewhere in the group.
func (c *ChunkHeader) IsTail() bool {
	return c.Flags&tailFlag != 0
}

// GroupKey is the key chunks in the same function are grouped by:
// Parent for tails, Start for heads.
func (c *ChunkHeader) GroupKey() uint64 {
	if c.IsTail() {
		return c.Parent
	}
	return c.Start
}

func decodeChunkHeader(node *netnode.NetNode, key, value []byte) (ChunkHeader, error) {
	values, offset, err := node.Unpack("WWT", value)
	if err != nil {
		return ChunkHeader{}, err
	}
	if len(values) != 3 {
		return ChunkHeader{}, ioutil.Wrap("decode function chunk", ioutil.ErrMalformedPack, errWrongFieldCount(3, len(values)))
	}

	keyIndex, err := node.KeyIndex(key, false)
	if err != nil {
		return ChunkHeader{}, err
	}

	var c ChunkHeader
	c.Start = values[0].UInt
	if c.Start != uint64(keyIndex) {
		return ChunkHeader{}, ioutil.Wrap("decode function chunk", ioutil.ErrMalformedPack, errFunctionIndexMismatch(c.Start, keyIndex))
	}
	c.End = c.Start + values[1].UInt
	c.Flags = values[2].UInt

	if c.Flags&tailFlag != 0 {
		rest, _, err := node.Unpack("wU", value[offset:])
		if err != nil {
			return ChunkHeader{}, err
		}
		if len(rest) != 2 {
			return ChunkHeader{}, ioutil.Wrap("decode function chunk", ioutil.ErrMalformedPack, errWrongFieldCount(2, len(rest)))
		}
		parentDelta := rest[0].Int64()
		c.Parent = c.Start - uint64(parentDelta)
		c.RefererCount = rest[1].UInt
		return c, nil
	}

	rest, _, err := node.Unpack("WWTW", value[offset:])
	if err != nil {
		return ChunkHeader{}, err
	}
	if len(rest) != 4 {
		return ChunkHeader{}, ioutil.Wrap("decode function chunk", ioutil.ErrMalformedPack, errWrongFieldCount(4, len(rest)))
	}
	c.Frame = rest[0].UInt
	c.LocalsSize = rest[1].UInt
	c.RegistersSize = rest[2].UInt
	c.ArgumentsSize = rest[3].UInt

	return c, nil
}

// Function is one grouped function: exactly one head chunk plus zero
// or more tail chunks sharing the head's start address, with an
// optional name resolved from the netnode whose id equals the head's
// start.
type Function struct {
	Head  ChunkHeader
	Tails []ChunkHeader
	Name  []byte // nil when the head's netnode has no name
}

// Functions decodes every chunk registered under the named netnode
// `$ funcs`, groups them by parent/start, and resolves each group's
// optional name.
func Functions(id0 *idb.ID0) ([]Function, error) {
	node, err := netnode.FromName(id0, []byte("$ funcs"))
	if err != nil {
		return nil, err
	}

	groups := make(map[uint64][]ChunkHeader)
	var order []uint64

	it := node.Entries('S')
	for it.Next() {
		entry := it.Entry()
		chunk, err := decodeChunkHeader(node, entry.Key, entry.Value)
		if err != nil {
			return nil, err
		}
		key := chunk.GroupKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], chunk)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	functions := make([]Function, 0, len(order))
	for _, key := range order {
		fn, err := buildFunction(id0, groups[key])
		if err != nil {
			return nil, err
		}
		functions = append(functions, fn)
	}

	return functions, nil
}

func buildFunction(id0 *idb.ID0, chunks []ChunkHeader) (Function, error) {
	var fn Function
	haveHead := false

	for _, c := range chunks {
		if c.IsTail() {
			fn.Tails = append(fn.Tails, c)
			continue
		}
		if haveHead {
			return Function{}, ioutil.Wrap("group function chunks", ioutil.ErrDuplicateHead, errDuplicateHead(c.GroupKey()))
		}
		fn.Head = c
		haveHead = true
	}

	if !haveHead {
		return Function{}, ioutil.Wrap("group function chunks", ioutil.ErrDuplicateHead, errNoHead(chunks[0].GroupKey()))
	}

	headNode := netnode.FromID(id0, fn.Head.Start)
	name, err := headNode.Name()
	if err == nil {
		fn.Name = name
	}

	return fn, nil
}
