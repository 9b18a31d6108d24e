package residual

// EncodeRegion8 is EncodeRegion for single-lane 8-bit rasters.
func EncodeRegion8[P Predictor8](p P, in, out []uint8, width, height int, r Region) error {
	if err := validate(len(in), len(out), width, height, r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := checkOverlap(in, out, width, height, false); err != nil {
		return err
	}

	rowStart := r.Y * width
	for y := r.Y; y < r.Y+r.Height; y++ {
		offset := rowStart + r.X
		for x := r.X; x < r.X+r.Width; x++ {
			out[offset] = in[offset] - p.Predict(in, width, height, x, y, offset)
			offset++
		}
		rowStart += width
	}
	return nil
}

// DecodeRegion8 is DecodeRegion for single-lane 8-bit rasters. The same
// ordering requirement applies.
func DecodeRegion8[P Predictor8](p P, in, out []uint8, width, height int, r Region) error {
	if err := validate(len(in), len(out), width, height, r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := checkOverlap(in, out, width, height, true); err != nil {
		return err
	}

	rowStart := r.Y * width
	for y := r.Y; y < r.Y+r.Height; y++ {
		offset := rowStart + r.X
		for x := r.X; x < r.X+r.Width; x++ {
			res := in[offset]
			out[offset] = res + p.Predict(out, width, height, x, y, offset)
			offset++
		}
		rowStart += width
	}
	return nil
}
