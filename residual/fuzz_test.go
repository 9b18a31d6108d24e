package residual

import (
	"encoding/binary"
	"testing"
)

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120}, uint8(3), uint8(0), uint8(0))
	f.Add([]byte{255, 0, 255, 0, 0, 255, 0, 255}, uint8(1), uint8(1), uint8(1))

	f.Fuzz(func(t *testing.T, data []byte, w, tw, th uint8) {
		width := int(w%16) + 1
		n := len(data) / 4
		height := n / width
		if height == 0 {
			return
		}
		pix := make([]uint32, width*height)
		for i := range pix {
			pix[i] = binary.LittleEndian.Uint32(data[i*4:])
		}

		res, err := Encode(pix, width, height)
		if err != nil {
			t.Fatal(err)
		}
		back, err := Decode(res, width, height)
		if err != nil {
			t.Fatal(err)
		}
		for i := range pix {
			if back[i] != pix[i] {
				t.Fatalf("pixel %d = %#08x, want %#08x", i, back[i], pix[i])
			}
		}

		tiled := make([]uint32, len(pix))
		if err := DecodeTilesParallel(MED{}, res, tiled, width, height, int(tw%8)+1, int(th%8)+1); err != nil {
			t.Fatal(err)
		}
		for i := range pix {
			if tiled[i] != pix[i] {
				t.Fatalf("tiled pixel %d = %#08x, want %#08x", i, tiled[i], pix[i])
			}
		}
	})
}
