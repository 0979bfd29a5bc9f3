// Package hash provides the CRC32-Castagnoli checksums used by blob headers
// and blob stores.
//
// One-shot:
//
//	sum := hash.CRC32C(data)
//
// Over several pieces:
//
//	sum := hash.Update(hash.CRC32C(header), payload)
//
// Go's crc32 package uses SSE4.2 or the ARM CRC extension when available.
package hash
