package blob

import (
	"encoding/binary"
	"fmt"
)

const (
	// Magic identifies a blob.
	Magic = "ECB1"
	// Version is the newest format version this package reads and writes.
	Version = 1
	// HeaderSize is the encoded header length.
	HeaderSize = 32

	checksumOffset = 24
)

// Header describes a blob.
type Header struct {
	Version    uint16
	Codec      Codec
	Flags      uint8
	RecordSize uint32
	Count      uint32
	RawLen     uint32
	StoredLen  uint32
	Checksum   uint32
}

// Size returns the encoded length of the blob, header included.
func (h Header) Size() int {
	return HeaderSize + int(h.StoredLen)
}

func (h Header) String() string {
	return fmt.Sprintf("blob v%d %s: %d x %d bytes (%d stored, crc32c %08x)",
		h.Version, h.Codec, h.Count, h.RecordSize, h.StoredLen, h.Checksum)
}

func (h *Header) marshal(dst []byte) {
	_ = dst[HeaderSize-1]
	copy(dst[0:4], Magic)
	binary.LittleEndian.PutUint16(dst[4:6], h.Version)
	dst[6] = byte(h.Codec)
	dst[7] = h.Flags
	binary.LittleEndian.PutUint32(dst[8:12], h.RecordSize)
	binary.LittleEndian.PutUint32(dst[12:16], h.Count)
	binary.LittleEndian.PutUint32(dst[16:20], h.RawLen)
	binary.LittleEndian.PutUint32(dst[20:24], h.StoredLen)
	binary.LittleEndian.PutUint32(dst[24:28], h.Checksum)
	binary.LittleEndian.PutUint32(dst[28:32], 0)
}

// parseHeader decodes and validates the fixed header fields of data.
// The checksum is verified by Open once the payload is known to be present.
func parseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(data), HeaderSize)
	}
	if string(data[0:4]) != Magic {
		return Header{}, fmt.Errorf("%w: %q", ErrBadMagic, data[0:4])
	}

	h := Header{
		Version:    binary.LittleEndian.Uint16(data[4:6]),
		Codec:      Codec(data[6]),
		Flags:      data[7],
		RecordSize: binary.LittleEndian.Uint32(data[8:12]),
		Count:      binary.LittleEndian.Uint32(data[12:16]),
		RawLen:     binary.LittleEndian.Uint32(data[16:20]),
		StoredLen:  binary.LittleEndian.Uint32(data[20:24]),
		Checksum:   binary.LittleEndian.Uint32(data[24:28]),
	}

	if h.Version == 0 || h.Version > Version {
		return Header{}, fmt.Errorf("%w: %d (max %d)", ErrVersion, h.Version, Version)
	}
	if !h.Codec.Valid() {
		return Header{}, fmt.Errorf("%w: unknown codec %d", ErrCodec, uint8(h.Codec))
	}
	if uint64(h.RecordSize)*uint64(h.Count) != uint64(h.RawLen) {
		return Header{}, fmt.Errorf("%w: %d x %d != %d", ErrRecordSize, h.RecordSize, h.Count, h.RawLen)
	}
	if h.Count > 0 && h.RecordSize == 0 {
		return Header{}, fmt.Errorf("%w: zero record size", ErrRecordSize)
	}
	if h.Codec == None && h.StoredLen != h.RawLen {
		return Header{}, fmt.Errorf("%w: uncompressed payload stored as %d bytes, want %d",
			ErrRecordSize, h.StoredLen, h.RawLen)
	}
	return h, nil
}
