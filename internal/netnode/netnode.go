// Package netnode implements the typed accessor layer over an IDB
// ID0 B-tree: addressing a netnode by id or by name, composing and
// decomposing its tagged keys, and the tag-indexed entry/iteration
// operations the segment and function extractors are built on.
package netnode

import (
	"github.com/interruptlabs/symconv/internal/bytecodec"
	"github.com/interruptlabs/symconv/internal/btree"
	"github.com/interruptlabs/symconv/internal/idb"
	"github.com/interruptlabs/symconv/internal/ioutil"
)

// NetNode is a typed accessor over one node_id within an ID0 database.
type NetNode struct {
	id0    *idb.ID0
	nodeID uint64
}

// FromID builds a NetNode directly from a numeric node id.
func FromID(id0 *idb.ID0, nodeID uint64) *NetNode {
	return &NetNode{id0: id0, nodeID: nodeID}
}

// FromName resolves a named netnode by searching the root page for key
// `N<name>` and decoding its value as a little-endian unsigned word.
func FromName(id0 *idb.ID0, name []byte) (*NetNode, error) {
	key := append([]byte{'N'}, name...)
	entry, err := btree.Search(id0.RootPage, key, key, true, true, true)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ioutil.Wrap("resolve named netnode", ioutil.ErrUnknownNode, errUnknownNode(name))
	}

	nodeID, err := decodeLittleEndianWord(entry.Value, id0.WordSize)
	if err != nil {
		return nil, ioutil.Wrap("resolve named netnode", ioutil.ErrUnknownNode, err)
	}

	return &NetNode{id0: id0, nodeID: nodeID}, nil
}

// NodeID returns the netnode's numeric id.
func (n *NetNode) NodeID() uint64 {
	return n.nodeID
}

// MakeKey composes `. node_id tag [index]`, big-endian, using the
// signed word form when index is negative.
func (n *NetNode) MakeKey(tag byte, index *int64) []byte {
	buf := make([]byte, 0, 2+2*n.id0.WordSize)
	buf = append(buf, '.')
	buf = appendWordBE(buf, n.nodeID, n.id0.WordSize)
	buf = append(buf, tag)
	if index != nil {
		buf = appendWordBE(buf, uint64(*index), n.id0.WordSize)
	}
	return buf
}

// BreakKey inverts MakeKey: it verifies the '.' prefix and node_id
// match and returns the tag and, when present, the index (interpreted
// as signed when signed is true).
func (n *NetNode) BreakKey(key []byte, signed bool) (tag byte, index *int64, err error) {
	ws := n.id0.WordSize
	switch len(key) {
	case 2 + ws:
		// no index
	case 2 + 2*ws:
		// has index
	default:
		return 0, nil, ioutil.Wrap("break key", ioutil.ErrMalformedPack, errBadKeyLength(len(key)))
	}

	if key[0] != '.' {
		return 0, nil, ioutil.Wrap("break key", ioutil.ErrMalformedPack, errBadKeyDot(key[0]))
	}

	nodeID := readWordBE(key[1:1+ws], ws)
	if nodeID != n.nodeID {
		return 0, nil, ioutil.Wrap("break key", ioutil.ErrMalformedPack, errKeyNodeMismatch(nodeID, n.nodeID))
	}

	tag = key[1+ws]

	if len(key) == 2+ws {
		return tag, nil, nil
	}

	raw := readWordBE(key[2+ws:2+2*ws], ws)
	if signed {
		raw = signExtendWord(raw, ws)
	}
	idx := int64(raw)
	return tag, &idx, nil
}

// KeyTag returns just the tag component of a key.
func (n *NetNode) KeyTag(key []byte) (byte, error) {
	tag, _, err := n.BreakKey(key, false)
	return tag, err
}

// KeyIndex returns just the index component of a key, failing if the
// key carries no index.
func (n *NetNode) KeyIndex(key []byte, signed bool) (int64, error) {
	_, index, err := n.BreakKey(key, signed)
	if err != nil {
		return 0, err
	}
	if index == nil {
		return 0, ioutil.Wrap("key index", ioutil.ErrMalformedPack, errNoIndexInKey())
	}
	return *index, nil
}

// Name returns the value of the entry at tag 'N'.
func (n *NetNode) Name() ([]byte, error) {
	key := n.MakeKey('N', nil)
	entry, err := btree.Search(n.id0.RootPage, key, key, true, true, true)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ioutil.Wrap("netnode name", ioutil.ErrNoName, errNoName(n.nodeID))
	}
	return entry.Value, nil
}

// Entry looks up the exact entry for (tag, index).
func (n *NetNode) Entry(tag byte, index int64) (*btree.Entry, error) {
	key := n.MakeKey(tag, &index)
	entry, err := btree.Search(n.id0.RootPage, key, key, true, true, true)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ioutil.Wrap("netnode entry", ioutil.ErrNoEntry, errNoEntry(tag, index))
	}
	return entry, nil
}

// EntryIterator is the Go-scanner-pattern form of the reference
// implementation's lazy entries() generator: repeatedly searching just
// above the last returned key, stopping when the key no longer shares
// the tag's prefix.
type EntryIterator struct {
	node    *NetNode
	prefix  []byte
	lastKey []byte
	started bool
	current *btree.Entry
	err     error
	done    bool
}

// Entries returns a lazy forward iterator over every entry under tag,
// in ascending key order.
func (n *NetNode) Entries(tag byte) *EntryIterator {
	return &EntryIterator{node: n, prefix: n.MakeKey(tag, nil)}
}

// Next advances the iterator. It returns false at end of iteration or
// on error; check Err() to distinguish the two.
func (it *EntryIterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}

	min := it.prefix
	if it.started {
		min = it.lastKey
	}

	entry, err := btree.Search(it.node.id0.RootPage, min, nil, false, true, true)
	if err != nil {
		it.err = err
		return false
	}
	if entry == nil || !hasPrefix(entry.Key, it.prefix) {
		it.done = true
		return false
	}

	it.started = true
	it.lastKey = entry.Key
	it.current = entry
	return true
}

// Entry returns the current entry. Valid only after Next() returns true.
func (it *EntryIterator) Entry() *btree.Entry {
	return it.current
}

// Err returns any error encountered during iteration.
func (it *EntryIterator) Err() error {
	return it.err
}

// Alt decodes the little-endian signed word stored under tag 'A'.
func (n *NetNode) Alt(index int64) (int64, error) {
	entry, err := n.Entry('A', index)
	if err != nil {
		return 0, err
	}
	return decodeLittleEndianSignedWord(entry.Value, n.id0.WordSize)
}

// Hash returns the raw value stored under tag 'H'.
func (n *NetNode) Hash(index int64) ([]byte, error) {
	entry, err := n.Entry('H', index)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Sup returns the raw value stored under tag 'S'.
func (n *NetNode) Sup(index int64) ([]byte, error) {
	entry, err := n.Entry('S', index)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Value returns the raw value stored under tag 'V'.
func (n *NetNode) Value(index int64) ([]byte, error) {
	entry, err := n.Entry('V', index)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Unpack decodes data per the bytecodec format DSL, using this
// netnode's word size for '*' tokens.
func (n *NetNode) Unpack(format string, data []byte) ([]bytecodec.Value, int, error) {
	return bytecodec.Unpack(format, data, n.id0.WordSize)
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
