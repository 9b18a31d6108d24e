// Package interleave converts packed 32-bit pixel words to and from byte
// streams.
//
// Residual words compress better once similar bytes are grouped together.
// Planes collects every lane into its own plane, high lane first:
//
//	Input:  [A3 A2 A1 A0] [B3 B2 B1 B0] [C3 C2 C1 C0]
//	Output: [A3 B3 C3 | A2 B2 C2 | A1 B1 C1 | A0 B0 C0]
//
// Bytes keeps pixel order and writes each word little-endian, which is the
// in-memory layout of a BGRA buffer.
package interleave

import "encoding/binary"

// Lanes is the number of byte planes a word stream splits into.
const Lanes = 4

// Planes splits words into four byte planes, high lane first.
// The output buffer must hold 4*len(words) bytes.
// If out is nil, a new buffer is allocated.
func Planes(words []uint32, out []byte) []byte {
	n := len(words)
	if out == nil {
		out = make([]byte, n*Lanes)
	}
	out = out[:n*Lanes]

	p3 := out[0*n : 1*n]
	p2 := out[1*n : 2*n]
	p1 := out[2*n : 3*n]
	p0 := out[3*n : 4*n]
	for i, w := range words {
		p3[i] = byte(w >> 24)
		p2[i] = byte(w >> 16)
		p1[i] = byte(w >> 8)
		p0[i] = byte(w)
	}
	return out
}

// Words reverses Planes. len(planes) must be a multiple of four.
// If out is nil, a new buffer is allocated.
func Words(planes []byte, out []uint32) []uint32 {
	n := len(planes) / Lanes
	if out == nil {
		out = make([]uint32, n)
	}
	out = out[:n]

	p3 := planes[0*n : 1*n]
	p2 := planes[1*n : 2*n]
	p1 := planes[2*n : 3*n]
	p0 := planes[3*n : 4*n]
	for i := range out {
		out[i] = uint32(p3[i])<<24 | uint32(p2[i])<<16 | uint32(p1[i])<<8 | uint32(p0[i])
	}
	return out
}

// Bytes writes words in order as little-endian bytes.
// If out is nil, a new buffer is allocated.
func Bytes(words []uint32, out []byte) []byte {
	if out == nil {
		out = make([]byte, len(words)*4)
	}
	out = out[:len(words)*4]
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// FromBytes reverses Bytes. Trailing bytes that do not fill a word are ignored.
func FromBytes(data []byte, out []uint32) []uint32 {
	n := len(data) / 4
	if out == nil {
		out = make([]uint32, n)
	}
	out = out[:n]
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}
