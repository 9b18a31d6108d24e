package predictor

// Left predicts each pixel from its left neighbour. This is horizontal
// differencing: the residual of a row is the difference between adjacent
// pixels, with column 0 stored against zero.
type Left struct{}

// Predict implements Predictor.
func (Left) Predict(pix []uint32, width, height, x, y, offset int) uint32 {
	if x == 0 {
		return 0
	}
	return pix[offset-1]
}

// Up predicts each pixel from the pixel directly above it.
// Row 0 is stored against zero.
type Up struct{}

// Predict implements Predictor.
func (Up) Predict(pix []uint32, width, height, x, y, offset int) uint32 {
	if y == 0 {
		return 0
	}
	return pix[offset-width]
}

// Zero always predicts zero, so residuals equal the input pixels.
type Zero struct{}

// Predict implements Predictor.
func (Zero) Predict(pix []uint32, width, height, x, y, offset int) uint32 {
	return 0
}
