package predictor

import "github.com/mdejong/MetalMED/internal/pixel"

// Predict8 is the clamped-gradient (MED) predictor for one sample.
//
// a is the left sample, b the up sample and c the up-left sample. The
// gradient a+b-c is computed in signed arithmetic and clamped to the range
// spanned by the three inputs, so the result never leaves [0, 255].
//
// This is the same function as the LOCO-I median edge detector: min(a, b)
// when c >= max(a, b), max(a, b) when c <= min(a, b), a+b-c otherwise.
func Predict8(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	lo := int(min(a, b, c))
	hi := int(max(a, b, c))
	if p < lo {
		return uint8(lo)
	}
	if p > hi {
		return uint8(hi)
	}
	return uint8(p)
}

// MED predicts each lane of a packed word independently with Predict8.
type MED struct{}

// Predict implements Predictor.
func (MED) Predict(pix []uint32, width, height, x, y, offset int) uint32 {
	left, up, upLeft := neighbors(pix, width, x, offset)
	return medPacked(left, up, upLeft)
}

// medPacked applies Predict8 to the four lanes of the neighbour words.
func medPacked(left, up, upLeft uint32) uint32 {
	c3 := Predict8(uint8(left>>24), uint8(up>>24), uint8(upLeft>>24))
	c2 := Predict8(uint8(left>>16), uint8(up>>16), uint8(upLeft>>16))
	c1 := Predict8(uint8(left>>8), uint8(up>>8), uint8(upLeft>>8))
	c0 := Predict8(uint8(left), uint8(up), uint8(upLeft))
	return pixel.Pack(uint32(c3), uint32(c2), uint32(c1), uint32(c0))
}

// MED8 is the MED predictor for single-lane 8-bit rasters.
type MED8 struct{}

// Predict implements Predictor8.
func (MED8) Predict(pix []uint8, width, height, x, y, offset int) uint8 {
	left, up, upLeft := neighbors(pix, width, x, offset)
	return Predict8(left, up, upLeft)
}

// Predict32At runs MED for the pixel at offset, deriving (x, y) from the
// raster width. It is a convenience for tests and diagnostics; the scans
// pass coordinates directly. A non-positive width has no pixels and
// predicts 0.
func Predict32At(pix []uint32, width, offset int) uint32 {
	if width <= 0 {
		return 0
	}
	x, y := offset%width, offset/width
	return MED{}.Predict(pix, width, len(pix)/width, x, y, offset)
}
