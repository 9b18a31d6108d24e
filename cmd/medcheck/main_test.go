package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdejong/MetalMED/internal/sizer"
)

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 4),
				G: uint8(y * 4),
				B: uint8((x + y) * 2),
				A: 255,
			})
		}
	}
	return img
}

func TestCheck(t *testing.T) {
	img := makeTestImage(40, 30)

	for _, name := range []string{"med", "left", "up", "zero", "MED"} {
		for _, tile := range []int{0, 8} {
			result, err := check(img, Options{Predictor: name, Tile: tile})
			if err != nil {
				t.Fatalf("check(%s, tile %d): %v", name, tile, err)
			}
			if result.Width != 40 || result.Height != 30 {
				t.Errorf("dimensions = %dx%d", result.Width, result.Height)
			}
			for _, m := range sizer.Methods {
				if result.RawSizes[m] <= 0 || result.ResidualSizes[m] <= 0 {
					t.Errorf("%s %v: sizes raw=%d residual=%d", name, m, result.RawSizes[m], result.ResidualSizes[m])
				}
			}
		}
	}
}

func TestCheckMEDBeatsRaw(t *testing.T) {
	// A smooth gradient is almost entirely predictable.
	result, err := check(makeTestImage(128, 128), Options{Predictor: "med"})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range sizer.Methods {
		if result.ResidualSizes[m] >= result.RawSizes[m] {
			t.Errorf("%v: residual %d bytes, raw %d bytes", m, result.ResidualSizes[m], result.RawSizes[m])
		}
	}
}

func TestCheckUnknownPredictor(t *testing.T) {
	if _, err := check(makeTestImage(2, 2), Options{Predictor: "paeth"}); err == nil {
		t.Error("expected error for unknown predictor")
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gradient.png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, makeTestImage(16, 12)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := checkFile(path, Options{Predictor: "med", Tile: 5})
	if err != nil {
		t.Fatalf("checkFile: %v", err)
	}
	if result.Filename != path {
		t.Errorf("Filename = %q, want %q", result.Filename, path)
	}

	var out bytes.Buffer
	printResult(&out, result)
	text := out.String()
	for _, want := range []string{"gradient.png", "16x12", "round-trip ok", "zlib", "zstd"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	if _, err := checkFile(filepath.Join(dir, "missing.png"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v, want os.ErrNotExist", err)
	}

	junk := filepath.Join(dir, "junk.png")
	os.WriteFile(junk, []byte("not an image"), 0o644)
	if _, err := checkFile(junk, Options{}); err == nil {
		t.Error("expected decode error for junk file")
	}
}

func TestJ2KBaseline(t *testing.T) {
	result, err := check(makeTestImage(32, 32), Options{Predictor: "med", J2K: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.J2KSize <= 0 {
		t.Errorf("J2KSize = %d", result.J2KSize)
	}
}

func TestRatio(t *testing.T) {
	if got := ratio(100, 25); got != 4 {
		t.Errorf("ratio = %v, want 4", got)
	}
	if got := ratio(100, 0); got != 0 {
		t.Errorf("ratio with zero size = %v, want 0", got)
	}
}
