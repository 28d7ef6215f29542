package elfwriter

import (
	"bytes"
	"debug/elf"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEmitScenario6 reproduces spec.md §8 scenario 6 literally: one
// .text section [0x1000, 0x2000) R|X and one function symbol foo at
// 0x1234 emits a 64-bit little-endian ELF whose .symtab holds exactly
// the mandatory zero entry and foo, with the documented st_info/
// st_shndx/st_value and e_shstrndx.
func TestEmitScenario6(t *testing.T) {
	text := &BytesSection{
		Descriptor: Descriptor{
			Name:      []byte(".text"),
			Type:      SHTProgbits,
			Flags:     SHFAlloc | SHFExecinstr,
			Address:   0x1000,
			Alignment: 1,
		},
		Data: []byte{0x90, 0x90, 0x90, 0x90}, // arbitrary payload, unrelated to the [0x1000,0x2000) address range
	}

	symtab := &SymbolTableSection{
		Descriptor: Descriptor{
			Name:  []byte(".symtab"),
			Type:  SHTSymtab,
			Flags: SHFAlloc,
		},
		Entries: []SymbolTableEntry{
			{
				Name:       []byte("foo"),
				Binding:    STBLocal,
				Type:       STTFunc,
				Visibility: STVDefault,
				SectionIdx: 2,
				Value:      0x1234,
			},
		},
	}

	data, err := Emit(Options{Word64: true, BigEndian: false}, []Section{text, symtab})
	require.NoError(t, err)

	f, err := elf.NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, elf.ELFCLASS64, f.Class)
	require.Equal(t, elf.ELFDATA2LSB, f.Data)

	symbols, err := f.Symbols()
	require.NoError(t, err)
	require.Len(t, symbols, 1) // debug/elf excludes the mandatory zero entry

	sym := symbols[0]
	require.Equal(t, "foo", sym.Name)
	require.Equal(t, uint64(0x1234), sym.Value)
	require.Equal(t, elf.STB_LOCAL, elf.ST_BIND(sym.Info))
	require.Equal(t, elf.STT_FUNC, elf.ST_TYPE(sym.Info))
	require.Equal(t, elf.SectionIndex(2), sym.Section)

	require.NotNil(t, f.Section(".text"))
	require.Equal(t, uint64(0x1000), f.Section(".text").Addr)
	require.Equal(t, elf.SHF_ALLOC|elf.SHF_EXECINSTR, f.Section(".text").Flags&(elf.SHF_ALLOC|elf.SHF_EXECINSTR))

	require.NotNil(t, f.Section(".shstrtab"))
}

// TestEmit32BitRoundTrip exercises the 32-bit, big-endian encoding
// path, checking the structural round trip named in spec.md §8.
func TestEmit32BitRoundTrip(t *testing.T) {
	data32 := &BytesSection{
		Descriptor: Descriptor{
			Name:      []byte(".data"),
			Type:      SHTProgbits,
			Flags:     SHFAlloc | SHFWrite,
			Address:   0x2000,
			Alignment: 4,
		},
		Data: []byte{1, 2, 3, 4},
	}

	out, err := Emit(Options{Word64: false, BigEndian: true}, []Section{data32})
	require.NoError(t, err)

	f, err := elf.NewFile(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, elf.ELFCLASS32, f.Class)
	require.Equal(t, elf.ELFDATA2MSB, f.Data)

	sec := f.Section(".data")
	require.NotNil(t, sec)
	require.Equal(t, uint64(0x2000), sec.Addr)
	payload, err := sec.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, payload)
}

func TestEmitRejectsNilSection(t *testing.T) {
	_, err := Emit(Options{Word64: true}, []Section{nil})
	require.Error(t, err)
}
