// Package pixel provides helpers for packed 32-bit pixel words.
//
// A word holds four independent 8-bit channel samples ("lanes") at bit
// offsets 24, 16, 8 and 0. Lane 3 is the high byte and lane 0 the low byte.
// For BGRA data stored little-endian, lane 3 is alpha and lane 0 is blue.
package pixel

import (
	"image"
	"image/draw"
)

// Lanes is the number of channel samples packed into a word.
const Lanes = 4

// LaneMask isolates a single 8-bit lane after shifting.
const LaneMask = 0xFF

// Shifts lists the bit offset of each lane, high lane first.
var Shifts = [Lanes]uint{24, 16, 8, 0}

// Lane extracts the 8-bit sample at the given bit offset.
func Lane(w uint32, shift uint) uint8 {
	return uint8((w >> shift) & LaneMask)
}

// Pack assembles four lane values into a word. Each value is masked to
// 8 bits before it is shifted into position.
func Pack(c3, c2, c1, c0 uint32) uint32 {
	return (c3&LaneMask)<<24 | (c2&LaneMask)<<16 | (c1&LaneMask)<<8 | c0&LaneMask
}

// Unpack splits a word into its four lanes, high lane first.
func Unpack(w uint32) (c3, c2, c1, c0 uint8) {
	return uint8(w >> 24), uint8(w >> 16), uint8(w >> 8), uint8(w)
}

// Replicate returns a word with v in every lane.
func Replicate(v uint8) uint32 {
	return uint32(v) * 0x01010101
}

// Sub computes the lane-wise difference (a - b) mod 256.
// The bias bytes absorb borrows so they never cross into a neighbouring lane.
func Sub(a, b uint32) uint32 {
	hi := 0x00ff00ff + (a & 0xff00ff00) - (b & 0xff00ff00)
	lo := 0xff00ff00 + (a & 0x00ff00ff) - (b & 0x00ff00ff)
	return (hi & 0xff00ff00) | (lo & 0x00ff00ff)
}

// Add computes the lane-wise sum (a + b) mod 256.
func Add(a, b uint32) uint32 {
	hi := (a & 0xff00ff00) + (b & 0xff00ff00)
	lo := (a & 0x00ff00ff) + (b & 0x00ff00ff)
	return (hi & 0xff00ff00) | (lo & 0x00ff00ff)
}

// FromImage converts img into a row-major buffer of BGRA words
// (alpha in lane 3, red in lane 2, green in lane 1, blue in lane 0).
// Samples are taken from the non-premultiplied 8-bit form of the image.
func FromImage(img image.Image) (pix []uint32, width, height int) {
	b := img.Bounds()
	width, height = b.Dx(), b.Dy()

	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	}

	pix = make([]uint32, width*height)
	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width*4]
		out := pix[y*width : (y+1)*width]
		for x := range out {
			p := row[x*4 : x*4+4 : x*4+4]
			out[x] = Pack(uint32(p[3]), uint32(p[0]), uint32(p[1]), uint32(p[2]))
		}
	}
	return pix, width, height
}

// ToImage converts a buffer of BGRA words back into an *image.NRGBA.
func ToImage(pix []uint32, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, w := range pix[:width*height] {
		a, r, g, bl := Unpack(w)
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = r, g, bl, a
	}
	return img
}
