package symconv

import (
	"github.com/interruptlabs/symconv/internal/elfwriter"
)

// sectionTypes maps well-known section names to their conventional ELF
// section type, per the generic ABI's special-sections table.
var sectionTypes = map[string]elfwriter.SHType{
	".bss":           elfwriter.SHTNobits,
	".comment":       elfwriter.SHTProgbits,
	".data":          elfwriter.SHTProgbits,
	".data1":         elfwriter.SHTProgbits,
	".debug":         elfwriter.SHTProgbits,
	".dynamic":       elfwriter.SHTDynamic,
	".dynstr":        elfwriter.SHTStrtab,
	".dynsym":        elfwriter.SHTDynsym,
	".fini":          elfwriter.SHTProgbits,
	".fini_array":    elfwriter.SHTFiniArray,
	".hash":          elfwriter.SHTHash,
	".init":          elfwriter.SHTProgbits,
	".init_array":    elfwriter.SHTInitArray,
	".interp":        elfwriter.SHTProgbits,
	".line":          elfwriter.SHTProgbits,
	".note":          elfwriter.SHTNote,
	".preinit_array": elfwriter.SHTPreinitArray,
	".rodata":        elfwriter.SHTProgbits,
	".rodata1":       elfwriter.SHTProgbits,
	".shstrtab":      elfwriter.SHTStrtab,
	".strtab":        elfwriter.SHTStrtab,
	".symtab":        elfwriter.SHTSymtab,
	".tbss":          elfwriter.SHTNobits,
	".tdata":         elfwriter.SHTProgbits,
	".text":          elfwriter.SHTProgbits,
}

// sectionDefaultFlags maps well-known section names to their
// conventional sh_flags, before ORing in WRITE/EXECINSTR derived from
// the Bundle section's own permissions.
var sectionDefaultFlags = map[string]elfwriter.SHFlags{
	".bss":           elfwriter.SHFAlloc,
	".comment":       0,
	".data":          elfwriter.SHFAlloc,
	".data1":         elfwriter.SHFAlloc,
	".debug":         0,
	".dynamic":       elfwriter.SHFAlloc,
	".dynstr":        elfwriter.SHFAlloc,
	".dynsym":        elfwriter.SHFAlloc,
	".fini":          elfwriter.SHFAlloc,
	".fini_array":    elfwriter.SHFAlloc,
	".hash":          elfwriter.SHFAlloc,
	".init":          elfwriter.SHFAlloc,
	".init_array":    elfwriter.SHFAlloc,
	".interp":        elfwriter.SHFAlloc,
	".line":          0,
	".note":          0,
	".preinit_array": elfwriter.SHFAlloc,
	".rodata":        elfwriter.SHFAlloc,
	".rodata1":       elfwriter.SHFAlloc,
	".shstrtab":      0,
	".strtab":        elfwriter.SHFAlloc,
	".symtab":        elfwriter.SHFAlloc,
	".tbss":          elfwriter.SHFAlloc | elfwriter.SHFTLS,
	".tdata":         elfwriter.SHFAlloc | elfwriter.SHFTLS,
	".text":          elfwriter.SHFAlloc,
}

var symbolTypes = map[SymbolKind]elfwriter.STType{
	SymbolFunction: elfwriter.STTFunc,
	SymbolGlobal:   elfwriter.STTObject,
}

// ToELF assembles an ELF object from bundle: one BytesSection per Bundle
// section (with conventional type/flags for well-known names, widened
// by the section's own W/X bits) plus a .symtab entry for every symbol
// whose address falls within a section. Symbols outside every section
// are skipped and counted in bundle.SkippedSymbols.
func ToELF(bundle *Bundle, opts elfwriter.Options) ([]byte, error) {
	var sections []elfwriter.Section

	for _, sec := range bundle.Sections {
		name := string(sec.Name)
		flags := sectionDefaultFlags[name]
		if _, known := sectionDefaultFlags[name]; !known {
			flags = elfwriter.SHFAlloc
		}
		if sec.Flags&SectionW != 0 {
			flags |= elfwriter.SHFWrite
		}
		if sec.Flags&SectionX != 0 {
			flags |= elfwriter.SHFExecinstr
		}

		shType, known := sectionTypes[name]
		if !known {
			shType = elfwriter.SHTProgbits
		}

		sections = append(sections, &elfwriter.BytesSection{
			Descriptor: elfwriter.Descriptor{
				Name:      sec.Name,
				Type:      shType,
				Flags:     flags,
				Address:   sec.Start,
				Alignment: 1,
			},
		})
	}

	symtab := &elfwriter.SymbolTableSection{
		Descriptor: elfwriter.Descriptor{
			Name:      []byte(".symtab"),
			Type:      elfwriter.SHTSymtab,
			Flags:     elfwriter.SHFAlloc,
			Alignment: 1,
		},
	}

	for _, sym := range bundle.Symbols {
		idx, ok := sectionIndexFor(bundle, sym.Address)
		if !ok {
			bundle.SkippedSymbols++
			continue
		}

		symtab.Entries = append(symtab.Entries, elfwriter.SymbolTableEntry{
			Name:       sym.Name,
			Binding:    elfwriter.STBLocal,
			Type:       symbolTypes[sym.Kind],
			Visibility: elfwriter.STVDefault,
			SectionIdx: idx,
			Value:      sym.Address,
		})
	}

	sections = append(sections, symtab)

	return elfwriter.Emit(opts, sections)
}

// sectionIndexFor finds the first Bundle section containing address and
// returns its 1-based ELF section index (the ordinal position of the
// section among bundle.Sections, plus one more for the mandatory
// leading undefined section).
func sectionIndexFor(bundle *Bundle, address uint64) (uint16, bool) {
	for i, sec := range bundle.Sections {
		if sec.Start <= address && address < sec.End {
			return uint16(i + 1), true
		}
	}
	return 0, false
}
