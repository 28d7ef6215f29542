// Package symconv converts a disassembler project database (IDB) or a
// Ghidra XML export into a portable Bundle of sections and symbols,
// ready to be handed to the ELF, JSON, or text writers.
package symconv

// SectionFlags is the RWX permission bitmask carried on a Section.
type SectionFlags uint8

const (
	SectionR SectionFlags = 1 << iota
	SectionW
	SectionX
)

// Section is a named address range with its permissions.
type Section struct {
	Name  []byte
	Start uint64
	End   uint64
	Flags SectionFlags
}

// SymbolKind distinguishes a function symbol from a data (global) symbol.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolGlobal
)

// Symbol is a named address with a kind.
type Symbol struct {
	Name    []byte
	Address uint64
	Kind    SymbolKind
}

// Bundle is the intermediate model every input format (IDB, Ghidra XML)
// produces and every output format (ELF, JSON, text) consumes. Word64
// and BigEndian are hints carried from the input when it provides one;
// nil means the input had no opinion and the caller must supply a
// default.
type Bundle struct {
	Word64    *bool
	BigEndian *bool
	Sections  []Section
	Symbols   []Symbol

	// SkippedSymbols counts symbols that fell outside every section
	// during ELF emission: dropped by design, counted for observability.
	SkippedSymbols int
}

// firstNonNil returns the first non-nil *bool among args, or def if
// every entry is nil.
func firstNonNil(def bool, args ...*bool) bool {
	for _, a := range args {
		if a != nil {
			return *a
		}
	}
	return def
}

// ResolveWord64 applies the CLI-override/bundle-hint/default-true
// fallback chain used throughout the pipeline (mirroring the original
// tool's `fnn(arguments._64_bit, bundle._64_bit, True)`).
func (b *Bundle) ResolveWord64(override *bool) bool {
	return firstNonNil(true, override, b.Word64)
}

// ResolveBigEndian applies the same fallback chain for endianness.
func (b *Bundle) ResolveBigEndian(override *bool) bool {
	return firstNonNil(true, override, b.BigEndian)
}

// FunctionSymbols returns every function symbol as a name→address map,
// the shape the JSON and text writers consume.
func (b *Bundle) FunctionSymbols() map[string]uint64 {
	return symbolsByKind(b.Symbols, SymbolFunction)
}

// GlobalSymbols returns every global symbol as a name→address map.
func (b *Bundle) GlobalSymbols() map[string]uint64 {
	return symbolsByKind(b.Symbols, SymbolGlobal)
}

func symbolsByKind(symbols []Symbol, kind SymbolKind) map[string]uint64 {
	out := make(map[string]uint64)
	for _, s := range symbols {
		if s.Kind == kind {
			out[string(s.Name)] = s.Address
		}
	}
	return out
}
