package elfwriter

import (
	"bytes"
	"encoding/binary"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

// Options controls the ELF metadata fields every emitted object carries.
type Options struct {
	Word64     bool
	BigEndian  bool
	ABI        OSABI
	ABIVersion uint8
	Type       Type
	Machine    Machine
	EntryPoint uint64
	Flags      uint32
}

// emitter is the narrow surface a Section.payload implementation needs:
// the symbol-name string table and the symbol record encoder, both of
// which depend on word size and byte order.
type emitter interface {
	internString(name []byte) uint32
	symbolEntrySize() int
	encodeSymbol(nameOffset uint32, entry SymbolTableEntry) []byte
}

type builder struct {
	wordSize int
	bo       binary.ByteOrder
	strtab   *stringTable
}

func (b *builder) internString(name []byte) uint32 { return b.strtab.intern(name) }
func (b *builder) symbolEntrySize() int             { return 8 + 2*b.wordSize }

func (b *builder) encodeSymbol(nameOffset uint32, entry SymbolTableEntry) []byte {
	info := byte(entry.Binding)<<4 | byte(entry.Type)&0xF
	other := byte(entry.Visibility) & 3

	buf := make([]byte, b.symbolEntrySize())
	if b.wordSize == 8 {
		b.bo.PutUint32(buf[0:4], nameOffset)
		buf[4] = info
		buf[5] = other
		b.bo.PutUint16(buf[6:8], entry.SectionIdx)
		b.bo.PutUint64(buf[8:16], entry.Value)
		b.bo.PutUint64(buf[16:24], entry.Size)
		return buf
	}

	b.bo.PutUint32(buf[0:4], nameOffset)
	b.bo.PutUint32(buf[4:8], uint32(entry.Value))
	b.bo.PutUint32(buf[8:12], uint32(entry.Size))
	buf[12] = info
	buf[13] = other
	b.bo.PutUint16(buf[14:16], entry.SectionIdx)
	return buf
}

// findNamedStringTable reports whether sections already contains one
// named name. supplied is true whenever a matching section exists,
// regardless of its concrete type; section is non-nil only when that
// match is a *StringTableSection, so its backing table can be reused
// for interning instead of emitting a duplicate.
func findNamedStringTable(sections []Section, name string) (section *StringTableSection, supplied bool) {
	for _, s := range sections {
		if string(s.descriptor().Name) != name {
			continue
		}
		st, ok := s.(*StringTableSection)
		if !ok {
			return nil, true
		}
		return st, true
	}
	return nil, false
}

// namedSectionIndex returns the 1-based index (0 is the undefined
// section) of the section named name within sections.
func namedSectionIndex(sections []Section, name string) uint32 {
	for i, s := range sections {
		if string(s.descriptor().Name) == name {
			return uint32(i + 1)
		}
	}
	return 0
}

func byteOrderFor(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Emit assembles a complete ELF object from the caller's sections
// (typically a BytesSection per Bundle section plus one
// SymbolTableSection), auto-appending a section-header string table and
// a symbol-name string table, per the algorithm: intern names, serialize
// payloads, compute layout, fix up the header, apply the global offset
// adjustment, then concatenate header + program headers + payloads +
// section headers.
func Emit(opts Options, userSections []Section) ([]byte, error) {
	for _, s := range userSections {
		if s == nil {
			return nil, errUnknownSectionVariant()
		}
	}

	wordSize := 4
	if opts.Word64 {
		wordSize = 8
	}
	bo := byteOrderFor(opts.BigEndian)

	b := &builder{wordSize: wordSize, bo: bo, strtab: newStringTable()}

	shstrtabTable := newStringTable()
	sections := make([]Section, 0, len(userSections)+2)
	sections = append(sections, userSections...)

	if existing, supplied := findNamedStringTable(userSections, shstrtabName); supplied {
		if existing != nil {
			shstrtabTable = existing.table
		}
	} else {
		sections = append(sections, &StringTableSection{
			Descriptor: Descriptor{Name: []byte(shstrtabName), Type: SHTStrtab, Alignment: 1},
			table:      shstrtabTable,
		})
	}

	if existing, supplied := findNamedStringTable(userSections, strtabName); supplied {
		if existing != nil {
			b.strtab = existing.table
		}
	} else {
		sections = append(sections, &StringTableSection{
			Descriptor: Descriptor{Name: []byte(strtabName), Type: SHTStrtab, Alignment: 1},
			table:      b.strtab,
		})
	}

	strtabIndex := namedSectionIndex(sections, strtabName) // 1-based: null is 0.
	for _, s := range sections {
		if sym, ok := s.(*SymbolTableSection); ok {
			sym.Link = strtabIndex
			sym.EntrySize = uint64(b.symbolEntrySize())
		}
	}

	nameOffsets := make([]uint32, len(sections)+1) // index 0: the undefined section, name "".
	for i, s := range sections {
		nameOffsets[i+1] = shstrtabTable.intern(s.descriptor().Name)
	}

	payloads := make([][]byte, len(sections))
	for i, s := range sections {
		payload, err := s.payload(b)
		if err != nil {
			return nil, err
		}
		payloads[i] = payload
	}

	headerSize := 40 + 3*wordSize
	phEntrySize := 8 + 6*wordSize
	shEntrySize := 16 + 6*wordSize

	var phnum int
	for _, s := range sections {
		if s.descriptor().Flags&SHFAlloc != 0 {
			phnum++
		}
	}

	payloadsStart := headerSize + phnum*phEntrySize

	offsets := make([]int, len(sections))
	cursor := payloadsStart
	for i, p := range payloads {
		offsets[i] = cursor
		cursor += len(p)
	}
	shoff := cursor

	shstrndx := uint16(namedSectionIndex(sections, shstrtabName))

	var buf bytes.Buffer
	buf.Grow(shoff + len(sections)*shEntrySize)

	buf.Write(encodeELFHeader(opts, bo, wordSize, headerSize, phnum, phEntrySize, shoff, shEntrySize, len(sections)+1, shstrndx))

	for i, s := range sections {
		if s.descriptor().Flags&SHFAlloc == 0 {
			continue
		}
		d := s.descriptor()
		buf.Write(encodeProgramHeader(bo, wordSize, PTLoad, programFlags(d.Flags), uint64(offsets[i]), d.Address, uint64(len(payloads[i])), uint64(len(payloads[i])), max64(d.Alignment, 1)))
	}

	for _, p := range payloads {
		buf.Write(p)
	}

	buf.Write(encodeSectionHeader(bo, wordSize, 0, SHTNull, 0, 0, 0, 0, 0, 0, 0, 0))
	for i, s := range sections {
		d := s.descriptor()
		buf.Write(encodeSectionHeader(bo, wordSize, nameOffsets[i+1], d.Type, uint64(d.Flags), d.Address, uint64(offsets[i]), uint64(len(payloads[i])), d.Link, d.Info, max64(d.Alignment, 1), d.EntrySize))
	}

	return buf.Bytes(), nil
}

func programFlags(flags SHFlags) uint32 {
	f := PFR
	if flags&SHFWrite != 0 {
		f |= PFW
	}
	if flags&SHFExecinstr != 0 {
		f |= PFX
	}
	return f
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func errUnknownSectionVariant() error {
	return ioutil.Wrap("emit elf", ioutil.ErrMalformedPack, errUnknownVariant())
}
