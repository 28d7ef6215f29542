package symconv

import (
	"fmt"
	"sort"

	"github.com/interruptlabs/symconv/internal/extract"
	"github.com/interruptlabs/symconv/internal/idb"
	"github.com/interruptlabs/symconv/internal/ioutil"
	"github.com/interruptlabs/symconv/internal/netnode"
)

// FromIDBOptions controls which symbol kinds FromIDB includes, mirroring
// the CLI's --no-functions/--auto-functions/--no-globals toggles.
type FromIDBOptions struct {
	NoFunctions    bool
	AutoFunctions  bool
	NoGlobals      bool
	VerifyChecksum bool
}

// FromIDB opens an IDB file and builds a Bundle from its segments,
// functions, and named addresses, grounded on the original tool's
// from_idb: segments become sections (permission bits mapped to RWX,
// unknown/zero permissions widened to RWX), named functions become
// function symbols, and every remaining named address in the NAM
// section not claimed by a function becomes a global symbol.
func FromIDB(r ioutil.ReaderAt, opts FromIDBOptions) (*Bundle, error) {
	c, err := idb.Open(r, idb.Options{
		Sections:       idb.SectionID0 | idb.SectionNAM,
		VerifyChecksum: opts.VerifyChecksum,
	})
	if err != nil {
		return nil, err
	}
	if c.ID0 == nil {
		return nil, ioutil.Wrap("build bundle from idb", ioutil.ErrMissingSection, fmt.Errorf(".idb does not contain an ID0 section"))
	}
	if c.NAM == nil {
		return nil, ioutil.Wrap("build bundle from idb", ioutil.ErrMissingSection, fmt.Errorf(".idb does not contain a NAM section"))
	}

	word64 := c.ID0.WordSize == 8
	bundle := &Bundle{Word64: &word64}

	segments, err := extract.Segments(c.ID0)
	if err != nil {
		return nil, err
	}
	for _, seg := range segments {
		flags := sectionFlagsFromPermissions(seg.Permissions)
		bundle.Sections = append(bundle.Sections, Section{
			Name:  seg.Name,
			Start: seg.Start,
			End:   seg.End,
			Flags: flags,
		})
	}

	names := make(map[uint64]struct{}, len(c.NAM.Addresses))
	for _, addr := range c.NAM.Addresses {
		names[addr] = struct{}{}
	}

	functions, err := extract.Functions(c.ID0)
	if err != nil {
		return nil, err
	}

	functionNames := make(map[uint64][]byte)
	var functionOrder []uint64
	for _, fn := range functions {
		start := fn.Head.Start
		if fn.Name != nil {
			if !opts.NoFunctions {
				functionNames[start] = fn.Name
				functionOrder = append(functionOrder, start)
			}
			delete(names, start)
		} else if opts.AutoFunctions {
			functionNames[start] = []byte(fmt.Sprintf("sub_%x", start))
			functionOrder = append(functionOrder, start)
		}
	}

	globalAddrs := make([]uint64, 0, len(names))
	for addr := range names {
		globalAddrs = append(globalAddrs, addr)
	}
	sort.Slice(globalAddrs, func(i, j int) bool { return globalAddrs[i] < globalAddrs[j] })

	for _, addr := range functionOrder {
		bundle.Symbols = append(bundle.Symbols, Symbol{Name: functionNames[addr], Address: addr, Kind: SymbolFunction})
	}

	if !opts.NoGlobals {
		for _, addr := range globalAddrs {
			name, err := netnode.FromID(c.ID0, addr).Name()
			if err != nil {
				// A global whose name lookup fails is skipped rather
				// than aborting the whole conversion.
				continue
			}
			bundle.Symbols = append(bundle.Symbols, Symbol{Name: name, Address: addr, Kind: SymbolGlobal})
		}
	}

	return bundle, nil
}

// sectionFlagsFromPermissions maps a segment's raw permission bits
// (PermX=1<<0, PermW=1<<1, PermR=1<<2) onto SectionFlags, widening an
// all-zero result to RWX since a segment with no recognized
// permissions is more useful mapped permissive than inert.
func sectionFlagsFromPermissions(perm uint64) SectionFlags {
	var flags SectionFlags
	if perm&extract.PermX != 0 {
		flags |= SectionX
	}
	if perm&extract.PermW != 0 {
		flags |= SectionW
	}
	if perm&extract.PermR != 0 {
		flags |= SectionR
	}
	if flags == 0 {
		flags = SectionR | SectionW | SectionX
	}
	return flags
}
