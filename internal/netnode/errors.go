package netnode

import "fmt"

func errUnknownNode(name []byte) error {
	return fmt.Errorf("no netnode registered under name %q", name)
}

func errBadKeyLength(length int) error {
	return fmt.Errorf("invalid key length %d", length)
}

func errBadKeyDot(b byte) error {
	return fmt.Errorf("key does not start with '.': got 0x%02X", b)
}

func errKeyNodeMismatch(got, want uint64) error {
	return fmt.Errorf("key belongs to node 0x%X, not this node (0x%X)", got, want)
}

func errNoIndexInKey() error {
	return fmt.Errorf("key has no index component")
}

func errNoName(nodeID uint64) error {
	return fmt.Errorf("netnode 0x%X has no name entry", nodeID)
}

func errNoEntry(tag byte, index int64) error {
	return fmt.Errorf("no entry for tag %q at index %d", tag, index)
}

func errTruncatedWord(got, want int) error {
	return fmt.Errorf("truncated word: got %d bytes, need %d", got, want)
}
