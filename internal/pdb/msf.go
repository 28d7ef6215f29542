// Package pdb implements the collaborator-facing surface of a PDB's
// underlying Multi-Stream Format (MSF) container: opening a PDB's block
// directory and handing back its numbered streams as opaque byte
// readers, and writing a fresh MSF container from a set of streams.
// spec.md §1 places the PDB/MSF reader-writer out of scope as an
// external collaborator: symbol-stream interpretation (TPI/DBI/etc.)
// is deliberately not implemented, only the block bookkeeping needed
// to read and write whichever opaque streams a caller hands it.
package pdb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/interruptlabs/symconv/internal/ioutil"
)

// DefaultBlockSize is the MSF block size PDB files conventionally use.
const DefaultBlockSize = 1 << 12

var magic = []byte("Microsoft C/C++ MSF 7.00\r\n\x1A\x44\x53\x00\x00\x00")

// Container is an opened or in-progress MSF stream directory: an
// ordered list of streams addressed by index, any of which may be
// absent (the MSF sentinel size 0xFFFFFFFF).
type Container struct {
	BlockSize uint32
	streams   []*bytes.Buffer // nil entry means an absent stream
}

// NewContainer returns an empty container ready to accept streams via
// NewStream, using the conventional 4 KiB block size.
func NewContainer() *Container {
	return &Container{BlockSize: DefaultBlockSize}
}

// Stream returns a reader over the stream at index, or (nil, false) if
// index is out of range or the stream is absent.
func (c *Container) Stream(index int) (io.Reader, bool) {
	if index < 0 || index >= len(c.streams) || c.streams[index] == nil {
		return nil, false
	}
	return bytes.NewReader(c.streams[index].Bytes()), true
}

// StreamCount returns the number of stream slots, including absent ones.
func (c *Container) StreamCount() int {
	return len(c.streams)
}

// NewStream appends a new, empty stream and returns a writer for it.
func (c *Container) NewStream() io.Writer {
	buf := &bytes.Buffer{}
	c.streams = append(c.streams, buf)
	return buf
}

// sizeBlocks returns how many blocks a stream of sizeBytes occupies,
// per the MSF convention that the sentinel 0xFFFFFFFF means "absent"
// rather than "4 GiB of data".
func sizeBlocks(sizeBytes, blockSize uint32) uint32 {
	if sizeBytes == 0xFFFFFFFF {
		return 0
	}
	return (sizeBytes + blockSize - 1) / blockSize
}

// nextBlockIndex advances past reserved block indexes 1 and 2 (the two
// free-block-map blocks interleaved every blockSize blocks), repeating
// repeat+1 times.
func nextBlockIndex(blockIndex, repeat, blockSize uint32) uint32 {
	for i := uint32(0); i <= repeat; i++ {
		blockIndex++
		for blockIndex%blockSize == 1 || blockIndex%blockSize == 2 {
			blockIndex++
		}
	}
	return blockIndex
}

// highMod is modulo that returns y instead of 0 on an exact multiple,
// used to size the final partial block of a stream.
func highMod(x, y uint32) uint32 {
	x = x % y
	if x == 0 {
		return y
	}
	return x
}

// ReadMSF parses an MSF container: the superblock, the block map
// locating the stream directory, and the stream directory itself,
// then reads every stream fully into memory.
func ReadMSF(r ioutil.ReaderAt) (*Container, error) {
	header, err := ioutil.ReadBytes(r, 0, len(magic)+24)
	if err != nil {
		return nil, ioFailure("read msf superblock", err)
	}
	if !bytes.Equal(header[:len(magic)], magic) {
		return nil, malformedContainer("read msf superblock", errBadMagic())
	}

	le := binary.LittleEndian
	fields := header[len(magic):]
	blockSize := le.Uint32(fields[0:4])
	numBlocks := le.Uint32(fields[8:12])
	streamDirSizeBytes := le.Uint32(fields[12:16])
	blockMapIndex := le.Uint32(fields[20:24])

	if blockSize == 0 || numBlocks == 0 {
		return nil, malformedContainer("read msf superblock", errBadBlockSize(blockSize))
	}

	streamDirSizeBlocks := sizeBlocks(streamDirSizeBytes, blockSize)

	blockMapOffset := int64(blockMapIndex) * int64(blockSize)
	streamDirIndexes := make([]uint32, streamDirSizeBlocks)
	for i := range streamDirIndexes {
		v, err := ioutil.ReadUint32(r, blockMapOffset+int64(i)*4, le)
		if err != nil {
			return nil, ioFailure("read msf block map", err)
		}
		streamDirIndexes[i] = v
	}

	streamDir, err := readBlockChain(r, streamDirIndexes, blockSize, streamDirSizeBytes)
	if err != nil {
		return nil, err
	}

	rd := bytes.NewReader(streamDir)
	var numStreams uint32
	if err := binary.Read(rd, le, &numStreams); err != nil {
		return nil, malformedContainer("read msf stream directory", err)
	}

	streamSizes := make([]uint32, numStreams)
	for i := range streamSizes {
		if err := binary.Read(rd, le, &streamSizes[i]); err != nil {
			return nil, malformedContainer("read msf stream directory", err)
		}
	}

	c := &Container{BlockSize: blockSize, streams: make([]*bytes.Buffer, numStreams)}

	for i, size := range streamSizes {
		if size == 0xFFFFFFFF {
			continue
		}
		n := sizeBlocks(size, blockSize)
		indexes := make([]uint32, n)
		for j := range indexes {
			if err := binary.Read(rd, le, &indexes[j]); err != nil {
				return nil, malformedContainer("read msf stream directory", err)
			}
		}
		data, err := readBlockChain(r, indexes, blockSize, size)
		if err != nil {
			return nil, err
		}
		c.streams[i] = bytes.NewBuffer(data)
	}

	return c, nil
}

// readBlockChain reads the blocks named by indexes, truncating the
// final block to the stream's declared size.
func readBlockChain(r ioutil.ReaderAt, indexes []uint32, blockSize, sizeBytes uint32) ([]byte, error) {
	out := make([]byte, 0, sizeBytes)
	for i, idx := range indexes {
		n := blockSize
		if i == len(indexes)-1 {
			n = highMod(sizeBytes, blockSize)
		}
		data, err := ioutil.ReadBytes(r, int64(idx)*int64(blockSize), int(n))
		if err != nil {
			return nil, ioFailure("read msf block", err)
		}
		out = append(out, data...)
	}
	return out, nil
}

// WriteTo serializes the container as a fresh MSF file: superblock,
// free-block-map blocks, block map, stream directory, then every
// stream's blocks,
// interleaving the two free-block-map blocks every BlockSize blocks
// exactly as the reference writer does.
func (c *Container) WriteTo(w io.Writer) error {
	blockSize := c.BlockSize
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	le := binary.LittleEndian

	streamSizes := make([]uint32, len(c.streams))
	streamBlocks := make([]uint32, len(c.streams))
	for i, s := range c.streams {
		if s == nil {
			streamSizes[i] = 0xFFFFFFFF
			continue
		}
		size := uint32(s.Len())
		streamSizes[i] = size
		streamBlocks[i] = sizeBlocks(size, blockSize)
	}

	var totalStreamBlocks uint32
	for _, n := range streamBlocks {
		totalStreamBlocks += n
	}

	streamDirSizeBytes := uint32(1+len(c.streams)) * 4
	streamDirSizeBytes += totalStreamBlocks * 4
	streamDirSizeBlocks := sizeBlocks(streamDirSizeBytes, blockSize)

	var streamDir bytes.Buffer
	binary.Write(&streamDir, le, uint32(len(c.streams)))
	for _, size := range streamSizes {
		binary.Write(&streamDir, le, size)
	}

	// Block 0 is the superblock, the block map follows the two
	// free-block-map blocks, then the stream directory, then the streams.
	blockIndex := nextBlockIndex(0, streamDirSizeBlocks+1, blockSize)
	for _, n := range streamBlocks {
		for j := uint32(0); j < n; j++ {
			binary.Write(&streamDir, le, blockIndex)
			blockIndex = nextBlockIndex(blockIndex, 0, blockSize)
		}
	}
	numBlocks := blockIndex

	var blockMap bytes.Buffer
	blockIndex = nextBlockIndex(0, 1, blockSize)
	for i := uint32(0); i < streamDirSizeBlocks; i++ {
		binary.Write(&blockMap, le, blockIndex)
		blockIndex = nextBlockIndex(blockIndex, 0, blockSize)
	}

	var superBlock bytes.Buffer
	superBlock.Write(magic)
	binary.Write(&superBlock, le, blockSize)
	binary.Write(&superBlock, le, uint32(1))
	binary.Write(&superBlock, le, numBlocks)
	binary.Write(&superBlock, le, streamDirSizeBytes)
	binary.Write(&superBlock, le, uint32(0))
	binary.Write(&superBlock, le, uint32(3))

	streams := make([]*bytes.Buffer, 0, 3+len(c.streams))
	streams = append(streams, &superBlock, &blockMap, &streamDir)
	streams = append(streams, c.streams...)

	blockIdx := uint32(0)
	bitsWritten := uint32(0)

	for _, stream := range streams {
		if stream == nil {
			continue
		}
		data := stream.Bytes()
		for pos := 0; ; {
			end := pos + int(blockSize)
			if end > len(data) {
				end = len(data)
			}
			block := data[pos:end]
			if len(block) == 0 {
				break
			}

			if _, err := w.Write(block); err != nil {
				return ioFailure("write msf block", err)
			}
			if len(block) != int(blockSize) {
				pad := make([]byte, int(blockSize)-len(block)%int(blockSize))
				if _, err := w.Write(pad); err != nil {
					return ioFailure("write msf block padding", err)
				}
			}

			blockIdx++
			if blockIdx%blockSize == 1 || blockIdx%blockSize == 2 {
				bitsSize := (numBlocks - bitsWritten) % (blockSize * 8)
				if _, err := w.Write(freeBlockMapBlock(bitsSize, blockSize)); err != nil {
					return ioFailure("write msf free block map", err)
				}
				bitsWritten += bitsSize
				if _, err := w.Write(freeBlockMapBlock(0, blockSize)); err != nil {
					return ioFailure("write msf free block map", err)
				}
				blockIdx += 2
			}

			pos = end
			if len(block) != int(blockSize) {
				break
			}
		}
	}

	return nil
}

// freeBlockMapBlock renders one free-block-map block marking the first
// size blocks as allocated (bit=1), matching the reference writer
// (this module never reclaims blocks, so every block it writes is
// allocated).
func freeBlockMapBlock(size, blockSize uint32) []byte {
	result := make([]byte, 0, blockSize)
	for i := uint32(0); i < size/8; i++ {
		result = append(result, 0xFF)
	}
	if size%8 != 0 {
		var remainder byte
		for i := uint32(0); i < size%8; i++ {
			remainder <<= 1
			remainder |= 1
		}
		for i := uint32(0); i < 8-(size%8); i++ {
			remainder <<= 1
		}
		result = append(result, remainder)
	}
	for uint32(len(result)) < blockSize {
		result = append(result, 0)
	}
	return result
}
