package dump

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"golang.org/x/sys/cpu"

	"github.com/hupe1980/arrayrt/array"
	"github.com/hupe1980/arrayrt/internal/conv"
	"github.com/hupe1980/arrayrt/internal/mem"
	"github.com/hupe1980/arrayrt/widetag"
)

// File layout (all header integers little-endian):
//
//	magic   [4]byte "ARDM"
//	version uint8
//	widetag uint8   element widetag
//	codec   uint8   Compression
//	flags   uint8   flagAdjustable | flagFillPointer | flagBigEndian
//	rank    uint32
//	dims    [rank]uint64
//	fill    uint64
//	size    uint64  uncompressed payload bytes
//	blocks  ...     framed blocks, see compression.go
//
// Unboxed payloads are the storage words in the writer's byte order. Boxed
// payloads are a JSON array of the row-major elements.
const (
	magic   = "ARDM"
	version = 1

	flagAdjustable  = 1 << 0
	flagFillPointer = 1 << 1
	flagBigEndian   = 1 << 2

	maxRank     = 1 << 16
	maxElements = 1 << 48
)

var (
	// ErrBadMagic is returned by Read when the stream is not an array dump.
	ErrBadMagic = errors.New("dump: bad magic")
	// ErrVersion is returned by Read for an unsupported format version.
	ErrVersion = errors.New("dump: unsupported version")
	// ErrCorrupt is returned by Read when the header or a block is
	// inconsistent.
	ErrCorrupt = errors.New("dump: corrupt dump")
)

type options struct {
	compression Compression
	blockSize   int
}

// Option configures Write.
type Option func(*options)

// WithCompression sets the block codec. The default is CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithBlockSize sets the uncompressed block size.
func WithBlockSize(n int) Option {
	return func(o *options) { o.blockSize = n }
}

// Write serializes a to w and returns the number of bytes written.
// Displaced arrays are written as their own elements; the displacement is
// not preserved.
func Write(w io.Writer, a *array.Array, opts ...Option) (int64, error) {
	o := options{blockSize: DefaultBlockSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.compression > CompressionZSTD {
		return 0, fmt.Errorf("dump: unknown compression %d", o.compression)
	}

	elem := a.ElementType()
	var payload []byte
	if elem == widetag.T {
		contents, err := a.Contents()
		if err != nil {
			return 0, err
		}
		if payload, err = json.Marshal(contents); err != nil {
			return 0, fmt.Errorf("dump: encode boxed contents: %w", err)
		}
	} else {
		im, err := a.StorageImage()
		if err != nil {
			return 0, err
		}
		payload = im.Bytes()
	}

	var flags uint8
	if a.IsAdjustable() {
		flags |= flagAdjustable
	}
	fill, err := a.FillPointer()
	if err == nil {
		flags |= flagFillPointer
	}
	if cpu.IsBigEndian {
		flags |= flagBigEndian
	}

	dims := a.Dimensions()
	hdr := make([]byte, 0, 12+8*len(dims)+16)
	hdr = append(hdr, magic...)
	hdr = append(hdr, version, byte(elem), byte(o.compression), flags)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(len(dims)))
	for _, n := range append(dims, fill, len(payload)) {
		u, err := conv.IntToUint64(n)
		if err != nil {
			return 0, fmt.Errorf("dump: %w", err)
		}
		hdr = binary.LittleEndian.AppendUint64(hdr, u)
	}

	n, err := w.Write(hdr)
	written := int64(n)
	if err != nil {
		return written, err
	}
	m, err := writeBlocks(w, payload, o.compression, o.blockSize)
	return written + m, err
}

// Read deserializes an array written by Write.
func Read(r io.Reader) (*array.Array, error) {
	var fixed [12]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, err
	}
	if string(fixed[:4]) != magic {
		return nil, ErrBadMagic
	}
	if fixed[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, fixed[4])
	}
	elem := widetag.Widetag(fixed[5])
	if !elem.IsElement() {
		return nil, fmt.Errorf("%w: widetag %d", ErrCorrupt, fixed[5])
	}
	codec := Compression(fixed[6])
	if codec > CompressionZSTD {
		return nil, fmt.Errorf("%w: compression %d", ErrCorrupt, fixed[6])
	}
	flags := fixed[7]
	rank := binary.LittleEndian.Uint32(fixed[8:])
	if rank > maxRank {
		return nil, fmt.Errorf("%w: rank %d", ErrCorrupt, rank)
	}

	rest := make([]byte, 8*int(rank)+16)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}
	dims := make([]int, rank)
	for i := range dims {
		d := binary.LittleEndian.Uint64(rest[8*i:])
		if d > maxElements {
			return nil, fmt.Errorf("%w: dimension %d", ErrCorrupt, d)
		}
		dims[i] = int(d)
	}
	fill := binary.LittleEndian.Uint64(rest[8*rank:])
	size := binary.LittleEndian.Uint64(rest[8*rank+8:])
	if size > 1<<40 {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrCorrupt, size)
	}

	var opts []array.Option
	if flags&flagAdjustable != 0 {
		opts = append(opts, array.Adjustable())
	}
	if flags&flagFillPointer != 0 {
		n, err := conv.Uint64ToInt(fill)
		if err != nil {
			return nil, fmt.Errorf("%w: fill pointer: %w", ErrCorrupt, err)
		}
		opts = append(opts, array.FillPointerAt(n))
	}

	total := 1
	for _, d := range dims {
		if d != 0 && total > maxElements/d {
			return nil, fmt.Errorf("%w: dimensions %v exceed %d elements", ErrCorrupt, dims, maxElements)
		}
		total *= d
	}
	words := 0
	if elem != widetag.T {
		words = widetag.AllocationWords(elem, total)
		if size != 8*uint64(words) {
			return nil, fmt.Errorf("%w: %s image of %d elements needs %d bytes, header says %d",
				ErrCorrupt, elem, total, 8*words, size)
		}
	}

	payload, err := readBlocks(r, int(size), codec)
	if err != nil {
		return nil, err
	}

	if elem == widetag.T {
		return readBoxed(dims, payload, opts)
	}
	im := array.Image{Tag: elem, Length: total, Words: mem.AllocWords(words)}
	buf := im.Bytes()
	copy(buf, payload)
	if (flags&flagBigEndian != 0) != cpu.IsBigEndian {
		swapWords(buf)
	}
	return array.FromImage(dims, im, opts...)
}

func readBoxed(dims []int, payload []byte, opts []array.Option) (*array.Array, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var contents []any
	if err := dec.Decode(&contents); err != nil {
		return nil, fmt.Errorf("dump: decode boxed contents: %w", err)
	}
	a, err := array.New(dims, widetag.T, opts...)
	if err != nil {
		return nil, err
	}
	if len(contents) != a.TotalSize() {
		return nil, fmt.Errorf("%w: %d boxed elements for %d slots", ErrCorrupt, len(contents), a.TotalSize())
	}
	for i, v := range contents {
		if err := a.SetRowMajorAref(i, fromJSON(v)); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// fromJSON turns decoded numbers back into int64 or float64.
func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = fromJSON(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = fromJSON(x[k])
		}
		return x
	}
	return v
}

func swapWords(b []byte) {
	for i := 0; i+8 <= len(b); i += 8 {
		binary.LittleEndian.PutUint64(b[i:], binary.BigEndian.Uint64(b[i:]))
	}
}
