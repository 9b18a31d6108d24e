// Package residual encodes and decodes prediction residuals for rasters of
// packed 32-bit pixel words.
//
// Encoding scans a region in raster order, predicts every pixel from its
// already-known neighbours and stores the lane-wise difference
// (actual - predicted) mod 256. Decoding runs the same scan, predicting from
// the pixels reconstructed so far, and adds the residual back. Decode is
// the exact inverse of encode for every lane value.
//
// Buffers are owned by the caller. The functions in this package never
// retain them past the call and never touch cells outside the region.
package residual

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/mdejong/MetalMED/internal/pixel"
	"github.com/mdejong/MetalMED/internal/predictor"
)

// Errors
var (
	ErrInvalidDimensions = errors.New("residual: invalid raster dimensions")
	ErrShortBuffer       = errors.New("residual: buffer shorter than raster")
	ErrRegionOutOfBounds = errors.New("residual: region out of bounds")
	ErrAliasedBuffers    = errors.New("residual: input and output overlap")
	ErrInvalidTileSize   = errors.New("residual: invalid tile size")
)

// Predictor predicts a packed pixel word from pixels that precede it in
// raster order. See MED for the default implementation.
type Predictor = predictor.Predictor

// Predictor8 predicts a sample of a single-lane 8-bit raster.
type Predictor8 = predictor.Predictor8

// PredictorFunc adapts a function to Predictor.
type PredictorFunc = predictor.Func

// Predictors.
type (
	// MED is the clamped-gradient predictor applied to each lane.
	MED = predictor.MED
	// MED8 is MED for single-lane 8-bit rasters.
	MED8 = predictor.MED8
	// Left predicts from the left neighbour (horizontal differencing).
	Left = predictor.Left
	// Up predicts from the pixel above.
	Up = predictor.Up
	// Zero predicts zero; residuals equal the input.
	Zero = predictor.Zero
)

// rasterSize validates raster dimensions and returns width*height.
func rasterSize(width, height int) (int, error) {
	if width < 0 || height < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > 0 && height > math.MaxInt/width {
		return 0, fmt.Errorf("%w: %dx%d overflows", ErrInvalidDimensions, width, height)
	}
	return width * height, nil
}

// validate checks raster, buffers and region before a scan touches memory.
func validate(inLen, outLen, width, height int, r Region) error {
	size, err := rasterSize(width, height)
	if err != nil {
		return err
	}
	if inLen < size {
		return fmt.Errorf("%w: input has %d words, need %d", ErrShortBuffer, inLen, size)
	}
	if outLen < size {
		return fmt.Errorf("%w: output has %d words, need %d", ErrShortBuffer, outLen, size)
	}
	if !r.In(width, height) {
		return fmt.Errorf("%w: %v in %dx%d raster", ErrRegionOutOfBounds, r, width, height)
	}
	return nil
}

// overlaps reports whether the first n elements of a and b share memory.
// Both slices must hold at least n elements.
func overlaps[T uint8 | uint32](a, b []T, n int) bool {
	if n == 0 {
		return false
	}
	var zero T
	size := uintptr(n) * unsafe.Sizeof(zero)
	pa := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	pb := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return pa < pb+size && pb < pa+size
}

// checkOverlap returns ErrAliasedBuffers if the rasters in in and out
// overlap. With inPlace set, in and out starting at the same element is
// accepted.
func checkOverlap[T uint8 | uint32](in, out []T, width, height int, inPlace bool) error {
	if !overlaps(in, out, width*height) {
		return nil
	}
	if inPlace && unsafe.SliceData(in) == unsafe.SliceData(out) {
		return nil
	}
	return ErrAliasedBuffers
}

// EncodeRegion writes the residuals of region r into out.
//
// Predictions always read the original pixels in in, so the order in which
// cells are visited does not matter for correctness and disjoint regions may
// be encoded concurrently. The rasters in in and out must not overlap; use
// EncodeRegionInPlace to encode in place.
func EncodeRegion[P Predictor](p P, in, out []uint32, width, height int, r Region) error {
	if err := validate(len(in), len(out), width, height, r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := checkOverlap(in, out, width, height, false); err != nil {
		return err
	}
	encodeRegion(p, in, out, width, height, r)
	return nil
}

func encodeRegion[P Predictor](p P, in, out []uint32, width, height int, r Region) {
	maxX := r.X + r.Width
	maxY := r.Y + r.Height

	rowStart := r.Y * width
	for y := r.Y; y < maxY; y++ {
		offset := rowStart + r.X
		for x := r.X; x < maxX; x++ {
			pred := p.Predict(in, width, height, x, y, offset)
			out[offset] = pixel.Sub(in[offset], pred)
			offset++
		}
		rowStart += width
	}
}

// EncodeRegionInPlace replaces the pixels of region r in pix with their
// residuals.
//
// The region is scanned backwards so every neighbour a prediction reads
// still holds its original value. Only predictors that read pixels
// preceding the current one in raster order are supported.
func EncodeRegionInPlace[P Predictor](p P, pix []uint32, width, height int, r Region) error {
	if err := validate(len(pix), len(pix), width, height, r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}

	for y := r.Y + r.Height - 1; y >= r.Y; y-- {
		offset := y*width + r.X + r.Width - 1
		for x := r.X + r.Width - 1; x >= r.X; x-- {
			pred := p.Predict(pix, width, height, x, y, offset)
			pix[offset] = pixel.Sub(pix[offset], pred)
			offset--
		}
	}
	return nil
}

// DecodeRegion reconstructs the pixels of region r from the residuals in in,
// writing them to out.
//
// Predictions read out, so cells are visited strictly in raster order and
// every left, up and up-left neighbour of a cell must already hold its
// reconstructed value. That holds automatically for Full regions. For any
// other region the caller must have decoded the neighbouring cells above
// and to the left first; the zero-neighbour rule only applies at the true
// raster edge, not at region edges. DecodeTiles and DecodeTilesParallel
// schedule tiles so this is always satisfied.
//
// in and out may be the same slice: each residual is read before its cell
// is overwritten. Any other overlap returns ErrAliasedBuffers.
func DecodeRegion[P Predictor](p P, in, out []uint32, width, height int, r Region) error {
	if err := validate(len(in), len(out), width, height, r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := checkOverlap(in, out, width, height, true); err != nil {
		return err
	}
	decodeRegion(p, in, out, width, height, r)
	return nil
}

func decodeRegion[P Predictor](p P, in, out []uint32, width, height int, r Region) {
	maxX := r.X + r.Width
	maxY := r.Y + r.Height

	rowStart := r.Y * width
	for y := r.Y; y < maxY; y++ {
		offset := rowStart + r.X
		for x := r.X; x < maxX; x++ {
			res := in[offset]
			pred := p.Predict(out, width, height, x, y, offset)
			out[offset] = pixel.Add(res, pred)
			offset++
		}
		rowStart += width
	}
}

// Encode returns the MED residuals of a whole width x height raster.
func Encode(pix []uint32, width, height int) ([]uint32, error) {
	size, err := rasterSize(width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) < size {
		return nil, fmt.Errorf("%w: input has %d words, need %d", ErrShortBuffer, len(pix), size)
	}
	out := make([]uint32, size)
	if err := EncodeRegion(MED{}, pix, out, width, height, Full(width, height)); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode reconstructs a whole width x height raster from MED residuals.
func Decode(res []uint32, width, height int) ([]uint32, error) {
	size, err := rasterSize(width, height)
	if err != nil {
		return nil, err
	}
	if len(res) < size {
		return nil, fmt.Errorf("%w: input has %d words, need %d", ErrShortBuffer, len(res), size)
	}
	out := make([]uint32, size)
	if err := DecodeRegion(MED{}, res, out, width, height, Full(width, height)); err != nil {
		return nil, err
	}
	return out, nil
}
