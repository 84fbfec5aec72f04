package versionindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encode serializes idx to its on-disk image: packed fields, no padding,
// little-endian throughout.
func Encode(idx *Index) []byte {
	size := 4*3 +
		8*len(idx.PathHashes) +
		8*len(idx.ContentHashes) +
		4*len(idx.AssetSizes) +
		4*len(idx.AssetChunkCounts) +
		4*len(idx.AssetChunkIndexStarts) +
		4*len(idx.AssetChunkIndexes) +
		8*len(idx.ChunkHashes) +
		4*len(idx.ChunkSizes) +
		4*len(idx.NameOffsets) +
		len(idx.NameData)

	buf := bytes.NewBuffer(make([]byte, 0, size))

	putU32(buf, idx.AssetCount)
	putU32(buf, idx.ChunkCount)
	putU32(buf, idx.AssetChunkIndexCount)

	for _, v := range idx.PathHashes {
		putU64(buf, v)
	}
	for _, v := range idx.ContentHashes {
		putU64(buf, v)
	}
	for _, v := range idx.AssetSizes {
		putU32(buf, v)
	}
	for _, v := range idx.AssetChunkCounts {
		putU32(buf, v)
	}
	for _, v := range idx.AssetChunkIndexStarts {
		putU32(buf, v)
	}
	for _, v := range idx.AssetChunkIndexes {
		putU32(buf, v)
	}
	for _, v := range idx.ChunkHashes {
		putU64(buf, v)
	}
	for _, v := range idx.ChunkSizes {
		putU32(buf, v)
	}
	for _, v := range idx.NameOffsets {
		putU32(buf, v)
	}
	buf.Write(idx.NameData)

	return buf.Bytes()
}

// Decode parses the on-disk image back into an Index by reading each field
// in turn and slicing owned arrays out of the flat byte image.
func Decode(data []byte) (*Index, error) {
	r := bytes.NewReader(data)

	assetCount, err := getU32(r)
	if err != nil {
		return nil, fmt.Errorf("versionindex: decode AssetCount: %w", err)
	}
	chunkCount, err := getU32(r)
	if err != nil {
		return nil, fmt.Errorf("versionindex: decode ChunkCount: %w", err)
	}
	assetChunkIndexCount, err := getU32(r)
	if err != nil {
		return nil, fmt.Errorf("versionindex: decode AssetChunkIndexCount: %w", err)
	}

	idx := &Index{
		AssetCount:           assetCount,
		ChunkCount:           chunkCount,
		AssetChunkIndexCount: assetChunkIndexCount,
	}

	if idx.PathHashes, err = getU64Slice(r, assetCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode PathHashes: %w", err)
	}
	if idx.ContentHashes, err = getU64Slice(r, assetCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode ContentHashes: %w", err)
	}
	if idx.AssetSizes, err = getU32Slice(r, assetCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode AssetSizes: %w", err)
	}
	if idx.AssetChunkCounts, err = getU32Slice(r, assetCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode AssetChunkCounts: %w", err)
	}
	if idx.AssetChunkIndexStarts, err = getU32Slice(r, assetCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode AssetChunkIndexStarts: %w", err)
	}
	if idx.AssetChunkIndexes, err = getU32Slice(r, assetChunkIndexCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode AssetChunkIndexes: %w", err)
	}
	if idx.ChunkHashes, err = getU64Slice(r, chunkCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode ChunkHashes: %w", err)
	}
	if idx.ChunkSizes, err = getU32Slice(r, chunkCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode ChunkSizes: %w", err)
	}
	if idx.NameOffsets, err = getU32Slice(r, assetCount); err != nil {
		return nil, fmt.Errorf("versionindex: decode NameOffsets: %w", err)
	}

	remainder := make([]byte, r.Len())
	if len(remainder) > 0 {
		if _, err := r.Read(remainder); err != nil {
			return nil, fmt.Errorf("versionindex: decode NameData: %w", err)
		}
	}
	idx.NameData = remainder

	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("versionindex: decoded image failed validation: %w", err)
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
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func getU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func getU32Slice(r *bytes.Reader, n uint32) ([]uint32, error) {
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

func getU64Slice(r *bytes.Reader, n uint32) ([]uint64, error) {
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

func readFull(r *bytes.Reader, p []byte) (int, error) {
	n, err := r.Read(p)
	if err != nil {
		return n, err
	}
	for n < len(p) {
		m, err := r.Read(p[n:])
		if err != nil {
			return n, err
		}
		if m == 0 {
			return n, fmt.Errorf("unexpected EOF")
		}
		n += m
	}
	return n, nil
}
