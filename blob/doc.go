// Package blob reads and writes typed record blobs.
//
// A blob is a 32-byte little-endian header followed by the (optionally
// compressed) payload:
//
//	offset size field
//	0      4    magic "ECB1"
//	4      2    version
//	6      1    codec
//	7      1    flags
//	8      4    record size
//	12     4    record count
//	16     4    raw payload length (record size * count)
//	20     4    stored payload length
//	24     4    CRC32C of header bytes [0,24) and the stored payload
//	28     4    reserved
//
// Open validates every header field and the checksum before any byte of the
// payload is interpreted. Records decodes the payload into arena memory and
// returns it as a []T after checking the record size and alignment.
package blob
