package idb

import "github.com/interruptlabs/symconv/internal/ioutil"

// Options controls which sections Open constructs and whether it
// attempts checksum verification.
type Options struct {
	Sections       SectionMask
	VerifyChecksum bool
}

// Container is a fully opened IDB file: its header plus whichever
// typed sections were selected and present.
type Container struct {
	Header *Header
	ID0    *ID0
	ID1    *ID1
	NAM    *NAM
}

// Open reads the 88-byte header and constructs every selected section
// whose header offset is non-zero, per spec.md §4.4. SEG/TIL/ID2 are
// acknowledged by SectionMask but not decoded beyond presence, per
// spec.md §1's Non-goals ("ID1/TIL/SEG/ID2 deep parsing beyond
// headers").
func Open(r ioutil.ReaderAt, opts Options) (*Container, error) {
	header, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}

	c := &Container{Header: header}
	wordSize := header.WordSize()

	if opts.Sections&SectionID0 != 0 && header.ID0Offset != 0 {
		payloadOffset, _, err := sectionEnvelope(r, header.ID0Offset)
		if err != nil {
			return nil, err
		}
		if err := verifyChecksum(opts, "ID0"); err != nil {
			return nil, err
		}
		id0, err := readID0(r, payloadOffset, wordSize)
		if err != nil {
			return nil, err
		}
		c.ID0 = id0
	}

	if opts.Sections&SectionID1 != 0 && header.ID1Offset != 0 {
		payloadOffset, _, err := sectionEnvelope(r, header.ID1Offset)
		if err != nil {
			return nil, err
		}
		if err := verifyChecksum(opts, "ID1"); err != nil {
			return nil, err
		}
		id1, err := readID1(r, payloadOffset, wordSize)
		if err != nil {
			return nil, err
		}
		c.ID1 = id1
	}

	if opts.Sections&SectionNAM != 0 && header.NAMOffset != 0 {
		payloadOffset, _, err := sectionEnvelope(r, header.NAMOffset)
		if err != nil {
			return nil, err
		}
		if err := verifyChecksum(opts, "NAM"); err != nil {
			return nil, err
		}
		nam, err := readNAM(r, payloadOffset, wordSize)
		if err != nil {
			return nil, err
		}
		c.NAM = nam
	}

	// SEG/TIL/ID2 envelopes are validated (rejecting unsupported
	// compression) but their payloads are not decoded; no downstream
	// component in this spec consumes them beyond header presence.
	if opts.Sections&SectionSEG != 0 && header.SEGOffset != 0 {
		if _, _, err := sectionEnvelope(r, header.SEGOffset); err != nil {
			return nil, err
		}
	}
	if opts.Sections&SectionTIL != 0 && header.TILOffset != 0 {
		if _, _, err := sectionEnvelope(r, header.TILOffset); err != nil {
			return nil, err
		}
	}
	if opts.Sections&SectionID2 != 0 && header.ID2Offset != 0 {
		if _, _, err := sectionEnvelope(r, header.ID2Offset); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// verifyChecksum is the stubbed checksum-verification hook: the
// container's integrity-code algorithm is not standardized anywhere in
// the source material (spec.md §9, original_source never implements
// it), so when requested this reports the gap explicitly rather than
// silently skipping it.
func verifyChecksum(opts Options, section string) error {
	if !opts.VerifyChecksum {
		return nil
	}
	return ioutil.Wrap("verify checksum", ioutil.ErrIoFailure,
		errChecksumUnimplemented(section))
}
