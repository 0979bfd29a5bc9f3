package blob

import "errors"

var (
	// ErrBadMagic is returned when data does not start with Magic.
	ErrBadMagic = errors.New("blob: bad magic")
	// ErrVersion is returned for unsupported format versions.
	ErrVersion = errors.New("blob: unsupported version")
	// ErrTruncated is returned when data is shorter than the header claims.
	ErrTruncated = errors.New("blob: truncated")
	// ErrChecksum is returned when the CRC32C does not match.
	ErrChecksum = errors.New("blob: checksum mismatch")
	// ErrRecordSize is returned when sizes in the header are inconsistent
	// or do not match the requested record type.
	ErrRecordSize = errors.New("blob: record size mismatch")
	// ErrCodec is returned for unknown codecs and failed decompression.
	ErrCodec = errors.New("blob: codec error")
)
