package dump

import (
	"encoding/binary"
	"fmt"
	"io"
	"runtime"
	"slices"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"
)

// Compression selects the block codec for storage images.
type Compression uint8

const (
	// CompressionNone stores blocks as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses Zstandard (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a name from String back to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, fmt.Errorf("dump: unknown compression %q", name)
}

const (
	// DefaultBlockSize is the uncompressed size of one storage block.
	DefaultBlockSize = 256 * 1024
	// MaxBlockSize bounds the uncompressed size of one storage block.
	MaxBlockSize = 64 << 20
)

// Pooled zstd coders, shared by all blocks.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// CompressedSize == 0 means the block is stored uncompressed.
const blockHeaderSize = 8

var errCorruptBlock = fmt.Errorf("%w: bad storage block", ErrCorrupt)

// compressBlock frames one block, storing it raw when compression saves
// less than 10%.
func compressBlock(data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[blockHeaderSize:], data)
		return out, nil
	}
	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

// writeBlocks compresses data in blockSize chunks concurrently and writes
// the framed blocks in order.
func writeBlocks(w io.Writer, data []byte, c Compression, blockSize int) (int64, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blockSize = min(blockSize, MaxBlockSize)
	n := (len(data) + blockSize - 1) / blockSize
	framed := make([][]byte, n)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n {
		g.Go(func() error {
			end := min((i+1)*blockSize, len(data))
			b, err := compressBlock(data[i*blockSize:end], c)
			if err != nil {
				return err
			}
			framed[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var written int64
	for _, b := range framed {
		m, err := w.Write(b)
		written += int64(m)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// readBlocks reads framed blocks until size uncompressed bytes are decoded.
// The output grows block by block, so a header claiming more bytes than the
// stream holds fails on the first missing block.
func readBlocks(r io.Reader, size int, c Compression) ([]byte, error) {
	out := make([]byte, 0, min(size, DefaultBlockSize))
	var hdr [blockHeaderSize]byte
	for len(out) < size {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: %w", errCorruptBlock, err)
		}
		raw := int(binary.LittleEndian.Uint32(hdr[0:]))
		packed := int(binary.LittleEndian.Uint32(hdr[4:]))
		switch {
		case raw == 0 || raw > MaxBlockSize:
			return nil, fmt.Errorf("%w: block of %d bytes", errCorruptBlock, raw)
		case raw > size-len(out):
			return nil, fmt.Errorf("%w: block of %d bytes overruns image", errCorruptBlock, raw)
		case packed > raw:
			return nil, fmt.Errorf("%w: packed block of %d bytes for %d raw", errCorruptBlock, packed, raw)
		}
		if packed == 0 {
			start := len(out)
			out = slices.Grow(out, raw)[:start+raw]
			if _, err := io.ReadFull(r, out[start:]); err != nil {
				return nil, fmt.Errorf("%w: %w", errCorruptBlock, err)
			}
			continue
		}
		src := make([]byte, packed)
		if _, err := io.ReadFull(r, src); err != nil {
			return nil, fmt.Errorf("%w: %w", errCorruptBlock, err)
		}
		block, err := decompressBlock(src, raw, c)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

func decompressBlock(src []byte, raw int, c Compression) ([]byte, error) {
	result := make([]byte, raw)
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(src, result)
		if err != nil {
			return nil, err
		}
		if n != raw {
			return nil, fmt.Errorf("%w: decompressed size mismatch", errCorruptBlock)
		}
		return result, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(src, result[:0])
		if err != nil {
			return nil, err
		}
		if len(decoded) != raw {
			return nil, fmt.Errorf("%w: decompressed size mismatch", errCorruptBlock)
		}
		return decoded, nil
	}
	return nil, fmt.Errorf("%w: compressed block in a %s image", errCorruptBlock, c)
}
