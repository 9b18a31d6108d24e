// Package predictor implements pixel predictors for residual coding of
// packed 32-bit pixel words.
//
// A predictor estimates the value of the pixel at (x, y) from neighbours
// that precede it in raster order (left, up and up-left). The residual
// scans store the lane-wise difference between the actual pixel and the
// estimate, which tends to be small and therefore compressible for images
// with local coherence.
//
// Neighbours that fall outside the raster are treated as zero. In column 0
// the left and up-left neighbours are always missing; a predictor never
// wraps around to the last pixel of the previous row.
package predictor

// Predictor predicts a packed 4-lane pixel word.
//
// pix is the raster being read, in row-major order with the given width.
// offset is the linear index of (x, y), y*width + x. Implementations must
// only read pixels that precede offset in raster order and must not modify
// pix. height is passed for predictors that need it; MED ignores it.
type Predictor interface {
	Predict(pix []uint32, width, height, x, y, offset int) uint32
}

// Func adapts an ordinary function to the Predictor interface.
type Func func(pix []uint32, width, height, x, y, offset int) uint32

// Predict calls f.
func (f Func) Predict(pix []uint32, width, height, x, y, offset int) uint32 {
	return f(pix, width, height, x, y, offset)
}

// Predictor8 predicts a single 8-bit sample in a one-lane raster.
type Predictor8 interface {
	Predict(pix []uint8, width, height, x, y, offset int) uint8
}

// Func8 adapts an ordinary function to the Predictor8 interface.
type Func8 func(pix []uint8, width, height, x, y, offset int) uint8

// Predict calls f.
func (f Func8) Predict(pix []uint8, width, height, x, y, offset int) uint8 {
	return f(pix, width, height, x, y, offset)
}

// neighbors returns the left, up and up-left samples of offset.
// Missing neighbours are returned as zero.
func neighbors[T uint8 | uint32](pix []T, width, x, offset int) (left, up, upLeft T) {
	upOffset := offset - width
	if upOffset >= 0 {
		up = pix[upOffset]
	}

	// Column 0 has no left or up-left neighbour, even though offset-1
	// would land on the previous row.
	if x == 0 {
		return left, up, upLeft
	}

	if leftOffset := offset - 1; leftOffset >= 0 {
		left = pix[leftOffset]
	}
	if upLeftOffset := upOffset - 1; upLeftOffset >= 0 {
		upLeft = pix[upLeftOffset]
	}
	return left, up, upLeft
}
