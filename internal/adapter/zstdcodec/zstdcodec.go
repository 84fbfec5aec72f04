// Package zstdcodec implements internal/port.Compressor with zstd
// (github.com/klauspost/compress/zstd) for file-content compression.
package zstdcodec

import (
	"github.com/klauspost/compress/zstd"

	"github.com/prn-tf/contentstore/internal/port"
)

// Compressor is a stateless port.Compressor wrapping a shared encoder and
// decoder, both of which are safe for concurrent use.
type Compressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New builds a Compressor. enc/dec are created once and reused across every
// Compress/Decompress call, matching klauspost/compress's documented
// concurrent-use-with-EncodeAll/DecodeAll pattern.
func New() (*Compressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	return &Compressor{enc: enc, dec: dec}, nil
}

func (c *Compressor) Compress(src []byte) ([]byte, error) {
	dst := c.enc.EncodeAll(src, make([]byte, 0, c.MaxCompressedLen(len(src))))
	if len(dst) == 0 && len(src) > 0 {
		return nil, nil
	}
	return dst, nil
}

func (c *Compressor) Decompress(src []byte, expectedLen int) ([]byte, error) {
	dst, err := c.dec.DecodeAll(src, make([]byte, 0, expectedLen))
	if err != nil {
		return nil, nil
	}
	if len(dst) != expectedLen {
		return nil, nil
	}
	return dst, nil
}

func (c *Compressor) MaxCompressedLen(srcLen int) int {
	return srcLen + srcLen/10 + 64
}

var _ port.Compressor = (*Compressor)(nil)
