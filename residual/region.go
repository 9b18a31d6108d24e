package residual

import "fmt"

// Region is an axis-aligned rectangle of a raster: Width by Height pixels
// whose top-left corner is (X, Y).
type Region struct {
	X, Y          int
	Width, Height int
}

// Full returns the region covering a whole width x height raster.
func Full(width, height int) Region {
	return Region{Width: width, Height: height}
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels in the region.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains reports whether (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// In reports whether the region lies entirely within a width x height raster.
func (r Region) In(width, height int) bool {
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 {
		return false
	}
	// Subtraction form avoids overflow of X+Width.
	return r.X <= width-r.Width && r.Y <= height-r.Height
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)+%dx%d", r.X, r.Y, r.Width, r.Height)
}

// tileCount returns how many tiles of the given size cover n pixels.
func tileCount(n, tile int) int {
	if n == 0 {
		return 0
	}
	return (n-1)/tile + 1
}

// Tiles partitions a width x height raster into tiles of at most
// tileWidth x tileHeight pixels, returned in row-major tile order. Tiles on
// the right and bottom edges are clipped to the raster.
//
// Decoding the tiles in the returned order is always safe: every tile's
// left, up and up-left neighbours come earlier in the slice.
func Tiles(width, height, tileWidth, tileHeight int) ([]Region, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTileSize, tileWidth, tileHeight)
	}
	if _, err := rasterSize(width, height); err != nil {
		return nil, err
	}

	tilesX := tileCount(width, tileWidth)
	tilesY := tileCount(height, tileHeight)
	tiles := make([]Region, 0, tilesX*tilesY)

	for ty := range tilesY {
		y := ty * tileHeight
		h := min(tileHeight, height-y)
		for tx := range tilesX {
			x := tx * tileWidth
			w := min(tileWidth, width-x)
			tiles = append(tiles, Region{X: x, Y: y, Width: w, Height: h})
		}
	}
	return tiles, nil
}
