package blob

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec is the payload compression algorithm.
type Codec uint8

const (
	// None stores the payload as is.
	None Codec = iota
	// LZ4 uses LZ4 block compression (fast).
	LZ4
	// Zstd uses Zstandard (better ratio).
	Zstd
	// Snappy uses Snappy block compression.
	Snappy
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// Valid reports whether c is a known codec.
func (c Codec) Valid() bool { return c <= Snappy }

// ParseCodec parses a codec name as printed by String.
func ParseCodec(s string) (Codec, error) {
	for c := None; c <= Snappy; c++ {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return None, fmt.Errorf("%w: unknown codec %q", ErrCodec, s)
}

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
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

// compress returns the compressed form of src, or nil if c is None or the
// data does not shrink.
func compress(c Codec, src []byte) ([]byte, error) {
	if c == None || len(src) == 0 {
		return nil, nil
	}

	var out []byte
	switch c {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := lz4.CompressBlock(src, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCodec, err)
		}
		out = buf[:n]
	case Zstd:
		enc := getZstdEncoder()
		out = enc.EncodeAll(src, nil)
		zstdEncoderPool.Put(enc)
	case Snappy:
		out = snappy.Encode(nil, src)
	default:
		return nil, fmt.Errorf("%w: %s", ErrCodec, c)
	}

	if len(out) == 0 || len(out) >= len(src) {
		return nil, nil
	}
	return out, nil
}

// decompress decodes src into dst, which must have exactly the raw length.
func decompress(c Codec, dst, src []byte) error {
	switch c {
	case None:
		if len(src) != len(dst) {
			return fmt.Errorf("%w: stored %d bytes, want %d", ErrRecordSize, len(src), len(dst))
		}
		copy(dst, src)
		return nil

	case LZ4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return fmt.Errorf("%w: lz4: %w", ErrCodec, err)
		}
		if n != len(dst) {
			return fmt.Errorf("%w: lz4 produced %d bytes, want %d", ErrCodec, n, len(dst))
		}
		return nil

	case Zstd:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(src, dst[:0])
		if err != nil {
			return fmt.Errorf("%w: zstd: %w", ErrCodec, err)
		}
		if len(out) != len(dst) {
			return fmt.Errorf("%w: zstd produced %d bytes, want %d", ErrCodec, len(out), len(dst))
		}
		if len(dst) > 0 && &out[0] != &dst[0] {
			copy(dst, out)
		}
		return nil

	case Snappy:
		n, err := snappy.DecodedLen(src)
		if err != nil {
			return fmt.Errorf("%w: snappy: %w", ErrCodec, err)
		}
		if n != len(dst) {
			return fmt.Errorf("%w: snappy encodes %d bytes, want %d", ErrCodec, n, len(dst))
		}
		if _, err := snappy.Decode(dst, src); err != nil {
			return fmt.Errorf("%w: snappy: %w", ErrCodec, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrCodec, c)
	}
}
