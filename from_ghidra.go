package symconv

import (
	"io"
	"sort"

	"github.com/interruptlabs/symconv/internal/ghidraxml"
)

// FromGhidraXML builds a Bundle from a Ghidra XML project export. Unlike
// FromIDB it carries no word-size/endianness hint: Word64 and BigEndian
// are left nil so the caller's defaults (or the historical big-endian
// 64-bit default) apply.
func FromGhidraXML(r io.Reader) (*Bundle, error) {
	doc, err := ghidraxml.Parse(r)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{}

	for _, addr := range sortedKeys(doc.Functions) {
		bundle.Symbols = append(bundle.Symbols, Symbol{Name: []byte(doc.Functions[addr]), Address: addr, Kind: SymbolFunction})
	}
	for _, addr := range sortedKeys(doc.Globals) {
		bundle.Symbols = append(bundle.Symbols, Symbol{Name: []byte(doc.Globals[addr]), Address: addr, Kind: SymbolGlobal})
	}

	for _, sec := range doc.Sections {
		var flags SectionFlags
		if sec.Permissions&ghidraxml.PermR != 0 {
			flags |= SectionR
		}
		if sec.Permissions&ghidraxml.PermW != 0 {
			flags |= SectionW
		}
		if sec.Permissions&ghidraxml.PermX != 0 {
			flags |= SectionX
		}
		bundle.Sections = append(bundle.Sections, Section{Name: []byte(sec.Name), Start: sec.Start, End: sec.End, Flags: flags})
	}

	return bundle, nil
}

// sortedKeys returns m's keys in ascending order, so map iteration over
// symbol addresses produces deterministic Bundle output.
func sortedKeys(m map[uint64]string) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
