package blob

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"unsafe"

	"github.com/hupe1980/enginecore/arena"
	"github.com/hupe1980/enginecore/internal/hash"
)

// Write encodes records, a packed array of recordSize-byte records, as a
// blob. If the codec does not shrink the payload it is stored uncompressed.
func Write(w io.Writer, records []byte, recordSize int, codec Codec) error {
	if !codec.Valid() {
		return fmt.Errorf("%w: %s", ErrCodec, codec)
	}
	if recordSize <= 0 || uint64(recordSize) > math.MaxUint32 || len(records)%recordSize != 0 {
		return fmt.Errorf("%w: %d bytes of %d-byte records", ErrRecordSize, len(records), recordSize)
	}
	if uint64(len(records)) > math.MaxUint32 {
		return fmt.Errorf("%w: payload of %d bytes exceeds the format limit", ErrRecordSize, len(records))
	}

	stored, err := compress(codec, records)
	if err != nil {
		return err
	}
	if stored == nil {
		stored, codec = records, None
	}

	// Lengths are bounded by MaxUint32 above, and compressed payloads are
	// never larger than records.
	h := Header{
		Version:    Version,
		Codec:      codec,
		RecordSize: uint32(recordSize),                //nolint:gosec
		Count:      uint32(len(records) / recordSize), //nolint:gosec
		RawLen:     uint32(len(records)),              //nolint:gosec
		StoredLen:  uint32(len(stored)),               //nolint:gosec
	}

	var hdr [HeaderSize]byte
	h.marshal(hdr[:])
	h.Checksum = hash.Update(hash.CRC32C(hdr[:checksumOffset]), stored)
	h.marshal(hdr[:])

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// Encode returns records encoded as a blob. T must be pointer-free.
func Encode[T any](records []T, codec Codec) ([]byte, error) {
	if !arena.PointerFree[T]() {
		var zero T
		return nil, fmt.Errorf("%w: %T", arena.ErrPointerType, zero)
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-sized record type %T", ErrRecordSize, zero)
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(records)*size)
	if err := Write(&buf, arena.BytesOf(records[:len(records):len(records)]), size, codec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
