// Package blockreader opens a block by hash and exposes its chunks'
// decompressed byte ranges: locate the trailer by seeking from the end,
// validate the framing, decompress once, and hand back ranges into the
// decompressed payload.
package blockreader

import (
	"context"
	"fmt"
	"io"

	"github.com/prn-tf/contentstore/internal/blockframe"
	"github.com/prn-tf/contentstore/internal/corerr"
	"github.com/prn-tf/contentstore/internal/port"
)

// Block is a fully decompressed, validated block image ready for
// chunk-range lookups.
type Block struct {
	payload     []byte
	chunkHashes []uint64
	offsetOf    map[uint64]int
	lengthOf    map[uint64]uint32
}

// Open reads the block file named for blockHash from dir on storage,
// validates its framing, and
// decompresses its payload.
func Open(ctx context.Context, storage port.Storage, dir string, blockHash uint64, compressor port.Compressor) (*Block, error) {
	path := storage.Join(dir, blockframe.FileName(blockHash))

	rc, err := storage.Open(ctx, path)
	if err != nil {
		return nil, corerr.IO("blockreader.Open", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, corerr.IO("blockreader.Open.Read", err)
	}

	parsed, err := blockframe.Parse(data)
	if err != nil {
		return nil, corerr.Corruption("blockreader.Open.Parse", err)
	}

	payload, err := compressor.Decompress(parsed.Compressed, parsed.UncompressedLen)
	if err != nil || len(payload) != parsed.UncompressedLen {
		return nil, corerr.Corruption("blockreader.Open.Decompress", fmt.Errorf("decompressed length %d != declared %d: %w", len(payload), parsed.UncompressedLen, err))
	}

	b := &Block{
		payload:     payload,
		chunkHashes: parsed.ChunkHashes,
		offsetOf:    make(map[uint64]int, len(parsed.ChunkHashes)),
		lengthOf:    make(map[uint64]uint32, len(parsed.ChunkHashes)),
	}

	var off int
	for i, h := range parsed.ChunkHashes {
		b.offsetOf[h] = off
		b.lengthOf[h] = parsed.ChunkSizes[i]
		off += int(parsed.ChunkSizes[i])
	}
	if off != len(payload) {
		return nil, corerr.Corruption("blockreader.Open", fmt.Errorf("sum of chunk sizes %d != decompressed payload length %d", off, len(payload)))
	}

	return b, nil
}

// Chunk returns the raw bytes for chunkHash, or ErrChunkNotFound if this
// block does not contain it.
func (b *Block) Chunk(chunkHash uint64) ([]byte, error) {
	off, ok := b.offsetOf[chunkHash]
	if !ok {
		return nil, corerr.Corruption("blockreader.Block.Chunk", corerr.ErrChunkNotFound)
	}
	length := b.lengthOf[chunkHash]
	return b.payload[off : off+int(length)], nil
}

// ChunkHashes lists every chunk hash this block contains, in payload order.
func (b *Block) ChunkHashes() []uint64 {
	return b.chunkHashes
}
