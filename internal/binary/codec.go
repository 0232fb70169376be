package binary

import "encoding/binary"

// U32BE decodes a 4-byte big-endian unsigned integer.
func U32BE(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

// U24BE decodes a 3-byte big-endian unsigned integer.
// Used by FLAC metadata block lengths and ID3v2.2 frame sizes.
func U24BE(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// U32LE decodes a 4-byte little-endian unsigned integer.
func U32LE(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// Syncsafe decodes an ID3v2 sync-safe integer (7 usable bits per byte).
//
// The high bit of each byte is always zero so the encoded value can never
// resemble an MPEG frame sync marker. Maximum value is 2^28-1.
func Syncsafe(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// FourCC builds a big-endian four-character code from its ASCII bytes.
//
// Example:
//
//	moov := binary.FourCC('m', 'o', 'o', 'v') // 0x6D6F6F76
func FourCC(a, b, c, d byte) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)
}
