package contentindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encode serializes idx to its on-disk image:
// BlockCount(u64), ChunkCount(u64), BlockHashes[BlockCount](u64),
// ChunkHashes[ChunkCount](u64), ChunkBlockIndexes[ChunkCount](u64),
// ChunkBlockOffsets[ChunkCount](u32), ChunkLengths[ChunkCount](u32).
func Encode(idx *Index) []byte {
	size := 8*2 +
		8*len(idx.BlockHashes) +
		8*len(idx.ChunkHashes) +
		8*len(idx.ChunkBlockIndexes) +
		4*len(idx.ChunkBlockOffsets) +
		4*len(idx.ChunkLengths)

	buf := bytes.NewBuffer(make([]byte, 0, size))

	putU64(buf, idx.BlockCount)
	putU64(buf, idx.ChunkCount)

	for _, v := range idx.BlockHashes {
		putU64(buf, v)
	}
	for _, v := range idx.ChunkHashes {
		putU64(buf, v)
	}
	for _, v := range idx.ChunkBlockIndexes {
		putU64(buf, v)
	}
	for _, v := range idx.ChunkBlockOffsets {
		putU32(buf, v)
	}
	for _, v := range idx.ChunkLengths {
		putU32(buf, v)
	}

	return buf.Bytes()
}

// Decode parses the on-disk image back into an Index.
func Decode(data []byte) (*Index, error) {
	r := bytes.NewReader(data)

	blockCount, err := getU64(r)
	if err != nil {
		return nil, fmt.Errorf("contentindex: decode BlockCount: %w", err)
	}
	chunkCount, err := getU64(r)
	if err != nil {
		return nil, fmt.Errorf("contentindex: decode ChunkCount: %w", err)
	}

	idx := &Index{BlockCount: blockCount, ChunkCount: chunkCount}

	if idx.BlockHashes, err = getU64Slice(r, blockCount); err != nil {
		return nil, fmt.Errorf("contentindex: decode BlockHashes: %w", err)
	}
	if idx.ChunkHashes, err = getU64Slice(r, chunkCount); err != nil {
		return nil, fmt.Errorf("contentindex: decode ChunkHashes: %w", err)
	}
	if idx.ChunkBlockIndexes, err = getU64Slice(r, chunkCount); err != nil {
		return nil, fmt.Errorf("contentindex: decode ChunkBlockIndexes: %w", err)
	}
	if idx.ChunkBlockOffsets, err = getU32Slice(r, chunkCount); err != nil {
		return nil, fmt.Errorf("contentindex: decode ChunkBlockOffsets: %w", err)
	}
	if idx.ChunkLengths, err = getU32Slice(r, chunkCount); err != nil {
		return nil, fmt.Errorf("contentindex: decode ChunkLengths: %w", err)
	}

	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("contentindex: decoded image failed validation: %w", err)
	}

	return idx, nil
}

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func getU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func getU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func getU32Slice(r *bytes.Reader, n uint64) ([]uint32, error) {
	out := make([]uint32, n)
	for i := range out {
		v, err := getU32(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func getU64Slice(r *bytes.Reader, n uint64) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		v, err := getU64(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func readFull(r *bytes.Reader, p []byte) error {
	n := 0
	for n < len(p) {
		m, err := r.Read(p[n:])
		if err != nil {
			return err
		}
		if m == 0 {
			return fmt.Errorf("unexpected EOF")
		}
		n += m
	}
	return nil
}
