package elfwriter

// Descriptor is the shared header every section variant carries: name,
// type, flags, virtual address, link, info, alignment, and entry size.
// The caller sets Link/EntrySize only when it has meaning (a symbol
// table's Link is fixed up automatically to the string table index).
type Descriptor struct {
	Name      []byte
	Type      SHType
	Flags     SHFlags
	Address   uint64
	Link      uint32
	Info      uint32
	Alignment uint64
	EntrySize uint64
}

// Section is implemented by every section variant the emitter accepts.
// Reject unknown variants at emit time rather than silently dropping
// them.
type Section interface {
	descriptor() *Descriptor
	payload(emitter) ([]byte, error)
}

// BytesSection carries a section's payload verbatim (e.g. .text, .data,
// .rodata).
type BytesSection struct {
	Descriptor
	Data []byte
}

func (s *BytesSection) descriptor() *Descriptor { return &s.Descriptor }
func (s *BytesSection) payload(emitter) ([]byte, error) {
	return s.Data, nil
}

// StringTableSection is an interned, null-separated string table built
// by the emitter itself (.shstrtab, .strtab); its contents come from the
// unexported interning table the emitter fills during emission, which
// the caller cannot set.
type StringTableSection struct {
	Descriptor
	table *stringTable
}

func (s *StringTableSection) descriptor() *Descriptor { return &s.Descriptor }
func (s *StringTableSection) payload(emitter) ([]byte, error) {
	return s.table.bytes(), nil
}

// SymbolTableEntry is one entry the caller wants in a SymbolTableSection,
// besides the mandatory leading zero entry the emitter adds itself.
type SymbolTableEntry struct {
	Name       []byte
	Binding    STBind
	Type       STType
	Visibility STVisibility
	SectionIdx uint16 // 1-based index into the final section list
	Value      uint64
	Size       uint64
}

// SymbolTableSection is a symbol table; entries are serialized in the
// order given, after the mandatory zero entry.
type SymbolTableSection struct {
	Descriptor
	Entries []SymbolTableEntry
}

func (s *SymbolTableSection) descriptor() *Descriptor { return &s.Descriptor }

func (s *SymbolTableSection) payload(e emitter) ([]byte, error) {
	var buf []byte
	buf = append(buf, make([]byte, e.symbolEntrySize())...) // mandatory zero entry

	for _, entry := range s.Entries {
		nameOffset := e.internString(entry.Name)
		buf = append(buf, e.encodeSymbol(nameOffset, entry)...)
	}

	return buf, nil
}

// stringTable is the interning table shared by StringTableSection and
// the symbol-name interning SymbolTableSection.payload performs through
// emitter.internString.
type stringTable struct {
	data    []byte
	offsets map[string]uint32
}

func newStringTable() *stringTable {
	return &stringTable{data: []byte{0}, offsets: make(map[string]uint32)}
}

func (t *stringTable) intern(name []byte) uint32 {
	if len(name) == 0 {
		return 0
	}
	key := string(name)
	if off, ok := t.offsets[key]; ok {
		return off
	}
	off := uint32(len(t.data))
	t.data = append(t.data, name...)
	t.data = append(t.data, 0)
	t.offsets[key] = off
	return off
}

func (t *stringTable) bytes() []byte {
	return t.data
}
