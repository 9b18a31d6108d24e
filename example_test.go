package metalmed_test

import (
	"fmt"
	"strings"

	"github.com/mdejong/MetalMED/residual"
)

// Example_roundTrip encodes a small raster to MED residuals and decodes it.
func Example_roundTrip() {
	// 3x2 raster with the same value in every channel.
	pix := []uint32{
		0x0A0A0A0A, 0x14141414, 0x1E1E1E1E,
		0x28282828, 0x32323232, 0x3C3C3C3C,
	}

	res, err := residual.Encode(pix, 3, 2)
	if err != nil {
		fmt.Println("Error encoding:", err)
		return
	}
	words := make([]string, len(res))
	for i, r := range res {
		words[i] = fmt.Sprintf("%08x", r)
	}
	fmt.Println(strings.Join(words, " "))

	back, err := residual.Decode(res, 3, 2)
	if err != nil {
		fmt.Println("Error decoding:", err)
		return
	}
	fmt.Println(back[5] == pix[5])

	// Output:
	// 0a0a0a0a 0a0a0a0a 0a0a0a0a 1e1e1e1e 0a0a0a0a 0a0a0a0a
	// true
}

// Example_tiles encodes tiles concurrently and decodes them with a
// wavefront schedule.
func Example_tiles() {
	const width, height = 64, 48
	pix := make([]uint32, width*height)
	for i := range pix {
		pix[i] = uint32(i) * 0x01010101
	}

	res := make([]uint32, len(pix))
	if err := residual.EncodeTiles(residual.MED{}, pix, res, width, height, 16, 16); err != nil {
		fmt.Println("Error encoding:", err)
		return
	}

	back := make([]uint32, len(pix))
	if err := residual.DecodeTilesParallel(residual.MED{}, res, back, width, height, 16, 16); err != nil {
		fmt.Println("Error decoding:", err)
		return
	}

	same := true
	for i := range pix {
		same = same && back[i] == pix[i]
	}
	fmt.Println("round trip:", same)

	// Output:
	// round trip: true
}

// Example_region shows the bounds check at the call boundary.
func Example_region() {
	pix := make([]uint32, 4*4)
	out := make([]uint32, 4*4)

	err := residual.EncodeRegion(residual.MED{}, pix, out, 4, 4, residual.Region{X: 2, Y: 2, Width: 3, Height: 1})
	fmt.Println(err)

	// Output:
	// residual: region out of bounds: (2,2)+3x1 in 4x4 raster
}
