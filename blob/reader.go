package blob

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/internal/hash"
)

// payloadAlign is the alignment of decoded payloads in arena memory. It
// covers every pointer-free Go type.
const payloadAlign = 16

// Reader gives validated access to one blob.
type Reader struct {
	header Header
	stored []byte
}

// Open validates the blob at the start of data. Bytes after the blob are
// ignored; Header().Size() tells where the next one starts.
func Open(data []byte) (*Reader, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if uint64(h.StoredLen) > uint64(len(data)-HeaderSize) {
		return nil, fmt.Errorf("%w: payload of %d bytes, %d available",
			ErrTruncated, h.StoredLen, len(data)-HeaderSize)
	}
	stored := data[HeaderSize : HeaderSize+int(h.StoredLen)]

	if sum := hash.Update(hash.CRC32C(data[:checksumOffset]), stored); sum != h.Checksum {
		return nil, fmt.Errorf("%w: got %08x, header says %08x", ErrChecksum, sum, h.Checksum)
	}
	return &Reader{header: h, stored: stored}, nil
}

// Header returns the validated header.
func (r *Reader) Header() Header { return r.header }

// Payload decodes the payload into memory from a, or the Go heap if a is
// nil. A payload larger than a's remaining reservation is an error rather
// than an arena panic.
func (r *Reader) Payload(a *arena.Arena) ([]byte, error) {
	n := int(r.header.RawLen)
	if n == 0 {
		return nil, nil
	}
	var dst []byte
	if a != nil {
		if n > a.Reserved()-a.Offset()-payloadAlign {
			return nil, fmt.Errorf("%w: %s cannot hold %d bytes", arena.ErrExhausted, a.Name(), n)
		}
		dst = a.Alloc(n, payloadAlign)
	} else {
		dst = make([]byte, n)
	}
	if err := decompress(r.header.Codec, dst, r.stored); err != nil {
		return nil, err
	}
	return dst, nil
}

// Records decodes the payload as a []T. It fails with ErrRecordSize unless
// the header's record size equals the size of T.
func Records[T any](r *Reader, a *arena.Arena) ([]T, error) {
	var zero T
	if !arena.PointerFree[T]() {
		return nil, fmt.Errorf("%w: %T", arena.ErrPointerType, zero)
	}
	if size := unsafe.Sizeof(zero); uintptr(r.header.RecordSize) != size {
		return nil, fmt.Errorf("%w: blob has %d-byte records, %T is %d bytes",
			ErrRecordSize, r.header.RecordSize, zero, size)
	}
	if r.header.Count == 0 {
		return nil, nil
	}
	if unsafe.Alignof(zero) > payloadAlign {
		return nil, fmt.Errorf("%w: %T needs %d-byte alignment", arena.ErrAlignment, zero, unsafe.Alignof(zero))
	}

	if a == nil {
		out := make([]T, r.header.Count)
		if err := decompress(r.header.Codec, arena.BytesOf(out), r.stored); err != nil {
			return nil, err
		}
		return out, nil
	}

	raw, err := r.Payload(a)
	if err != nil {
		return nil, err
	}
	return arena.SliceOf[T](raw), nil
}
