// Package elfwriter assembles a generic-ABI ELF object file (32- or
// 64-bit, either endianness) from a small set of tagged section
// variants, grounded on the two-pass layout (intern names, serialize
// payloads, compute offsets, fix up the header) used by the standalone
// ELF object writer this module's author studied alongside the
// teacher's byte-level parsing style.
package elfwriter

// OSABI is the e_ident[EI_OSABI] value.
type OSABI uint8

const (
	OSABINone       OSABI = 0
	OSABILinux      OSABI = 3
	OSABISolaris    OSABI = 6
	OSABIFreeBSD    OSABI = 9
	OSABIOpenBSD    OSABI = 12
	OSABIStandalone OSABI = 255
)

// Type is the e_type field.
type Type uint16

const (
	TypeNone Type = 0
	TypeRel  Type = 1
	TypeExec Type = 2
	TypeDyn  Type = 3
	TypeCore Type = 4
)

// Machine is the e_machine field.
type Machine uint16

const (
	MachineNone    Machine = 0
	Machine386     Machine = 3
	MachineARM     Machine = 40
	MachineX8664   Machine = 62
	MachineAArch64 Machine = 183
)

// SHType is a section's sh_type.
type SHType uint32

const (
	SHTNull         SHType = 0
	SHTProgbits     SHType = 1
	SHTSymtab       SHType = 2
	SHTStrtab       SHType = 3
	SHTRela         SHType = 4
	SHTHash         SHType = 5
	SHTDynamic      SHType = 6
	SHTNote         SHType = 7
	SHTNobits       SHType = 8
	SHTRel          SHType = 9
	SHTDynsym       SHType = 11
	SHTInitArray    SHType = 14
	SHTFiniArray    SHType = 15
	SHTPreinitArray SHType = 16
)

// SHFlags is a section's sh_flags bitmask.
type SHFlags uint64

const (
	SHFWrite     SHFlags = 1 << 0
	SHFAlloc     SHFlags = 1 << 1
	SHFExecinstr SHFlags = 1 << 2
	SHFTLS       SHFlags = 1 << 10
)

// STBind is a symbol's binding (high nibble of st_info).
type STBind uint8

const (
	STBLocal  STBind = 0
	STBGlobal STBind = 1
	STBWeak   STBind = 2
)

// STType is a symbol's type (low nibble of st_info).
type STType uint8

const (
	STTNotype  STType = 0
	STTObject  STType = 1
	STTFunc    STType = 2
	STTSection STType = 3
	STTFile    STType = 4
)

// STVisibility is a symbol's st_other & 3.
type STVisibility uint8

const (
	STVDefault   STVisibility = 0
	STVInternal  STVisibility = 1
	STVHidden    STVisibility = 2
	STVProtected STVisibility = 3
)

// PTLoad is the only program-header type this emitter produces.
const PTLoad uint32 = 1

// PFlags are program-header permission bits.
const (
	PFX uint32 = 1 << 0
	PFW uint32 = 1 << 1
	PFR uint32 = 1 << 2
)

const (
	shstrtabName = ".shstrtab"
	strtabName   = ".strtab"
)
