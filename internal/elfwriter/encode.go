package elfwriter

import "encoding/binary"

func putWord(buf []byte, bo binary.ByteOrder, wordSize int, v uint64) {
	if wordSize == 8 {
		bo.PutUint64(buf, v)
		return
	}
	bo.PutUint32(buf, uint32(v))
}

// encodeELFHeader builds the 16-byte e_ident plus the word-size-dependent
// remainder of the file header, per spec.md §6.
func encodeELFHeader(opts Options, bo binary.ByteOrder, wordSize, headerSize, phnum, phEntrySize, shoff, shEntrySize, shnum int, shstrndx uint16) []byte {
	buf := make([]byte, headerSize)

	buf[0], buf[1], buf[2], buf[3] = 0x7F, 'E', 'L', 'F'
	if wordSize == 8 {
		buf[4] = 2 // ELFCLASS64
	} else {
		buf[4] = 1 // ELFCLASS32
	}
	if bo == binary.BigEndian {
		buf[5] = 2 // ELFDATA2MSB
	} else {
		buf[5] = 1 // ELFDATA2LSB
	}
	buf[6] = 1 // EV_CURRENT
	buf[7] = byte(opts.ABI)
	buf[8] = opts.ABIVersion
	// buf[9:16] padding, left zero.

	off := 16
	bo.PutUint16(buf[off:off+2], uint16(opts.Type))
	off += 2
	bo.PutUint16(buf[off:off+2], uint16(opts.Machine))
	off += 2
	bo.PutUint32(buf[off:off+4], 1) // e_version
	off += 4
	putWord(buf[off:off+wordSize], bo, wordSize, opts.EntryPoint)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, uint64(headerSize)) // e_phoff
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, uint64(shoff)) // e_shoff
	off += wordSize
	bo.PutUint32(buf[off:off+4], opts.Flags)
	off += 4
	bo.PutUint16(buf[off:off+2], uint16(headerSize))
	off += 2
	bo.PutUint16(buf[off:off+2], uint16(phEntrySize))
	off += 2
	bo.PutUint16(buf[off:off+2], uint16(phnum))
	off += 2
	bo.PutUint16(buf[off:off+2], uint16(shEntrySize))
	off += 2
	bo.PutUint16(buf[off:off+2], uint16(shnum))
	off += 2
	bo.PutUint16(buf[off:off+2], shstrndx)

	return buf
}

// encodeProgramHeader lays out p_flags before the word-sized fields on a
// 64-bit target and after them on 32-bit, per spec.md §6.
func encodeProgramHeader(bo binary.ByteOrder, wordSize int, pType, pFlags uint32, offset, vaddr, filesz, memsz, align uint64) []byte {
	size := 8 + 6*wordSize
	buf := make([]byte, size)

	bo.PutUint32(buf[0:4], pType)
	off := 4

	if wordSize == 8 {
		bo.PutUint32(buf[off:off+4], pFlags)
		off += 4
	}

	putWord(buf[off:off+wordSize], bo, wordSize, offset)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, vaddr)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, vaddr) // p_paddr mirrors p_vaddr.
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, filesz)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, memsz)
	off += wordSize

	if wordSize == 4 {
		bo.PutUint32(buf[off:off+4], pFlags)
		off += 4
	}

	putWord(buf[off:off+wordSize], bo, wordSize, align)

	return buf
}

// encodeSectionHeader lays out a section header, per spec.md §6.
func encodeSectionHeader(bo binary.ByteOrder, wordSize int, name uint32, shType SHType, flags, addr uint64, offset, size uint64, link, info uint32, addralign, entsize uint64) []byte {
	size_ := 16 + 6*wordSize
	buf := make([]byte, size_)

	bo.PutUint32(buf[0:4], name)
	bo.PutUint32(buf[4:8], uint32(shType))
	off := 8
	putWord(buf[off:off+wordSize], bo, wordSize, flags)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, addr)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, offset)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, size)
	off += wordSize
	bo.PutUint32(buf[off:off+4], link)
	off += 4
	bo.PutUint32(buf[off:off+4], info)
	off += 4
	putWord(buf[off:off+wordSize], bo, wordSize, addralign)
	off += wordSize
	putWord(buf[off:off+wordSize], bo, wordSize, entsize)

	return buf
}
