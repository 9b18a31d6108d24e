// medcheck verifies MED residual coding on real images and reports how
// well the residuals compress compared with the raw pixels.
//
// Usage:
//
//	medcheck [options] <image> [<image> ...]
//
// Supported inputs are PNG, JPEG, GIF, BMP, TIFF, WebP and JPEG 2000.
// Every image is converted to BGRA words, encoded to residuals, decoded
// again and compared bit for bit with the input.
//
// Options:
//
//	-p <name>     predictor: med, left, up, zero (default med)
//	-tile <n>     encode and decode as n x n tiles in parallel (0 = whole image)
//	-workers <n>  worker goroutines for tiled scans (0 = GOMAXPROCS)
//	-j2k          also report the size of a lossless JPEG 2000 encode
//	-q            only print failures
//	-v            verbose output
//	-version      show version information
//
// Exit codes:
//
//	0: every image round-tripped
//	1: one or more images failed to round-trip
//	2: error (unreadable file, bad arguments)
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mrjoshuak/go-jpeg2000"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mdejong/MetalMED/internal/interleave"
	"github.com/mdejong/MetalMED/internal/pixel"
	"github.com/mdejong/MetalMED/internal/sizer"
	"github.com/mdejong/MetalMED/residual"
)

const version = "1.0.0"

// ErrMismatch is returned when decoded pixels differ from the input.
var ErrMismatch = errors.New("medcheck: round-trip mismatch")

// Options controls a check run.
type Options struct {
	Predictor string
	Tile      int
	J2K       bool
	Verbose   bool
}

// Result holds the measurements for one image.
type Result struct {
	Filename      string
	Width, Height int
	Predictor     string
	EncodeTime    time.Duration
	DecodeTime    time.Duration

	// Compressed sizes by method, for raw pixel planes and residual planes.
	RawSizes      map[sizer.Method]int
	ResidualSizes map[sizer.Method]int

	// J2KSize is the lossless JPEG 2000 codestream size, or 0 if not measured.
	J2KSize int
}

// RawBytes returns the uncompressed size of the image in bytes.
func (r *Result) RawBytes() int {
	return r.Width * r.Height * 4
}

func predictorByName(name string) (residual.Predictor, error) {
	switch strings.ToLower(name) {
	case "med", "":
		return residual.MED{}, nil
	case "left":
		return residual.Left{}, nil
	case "up":
		return residual.Up{}, nil
	case "zero":
		return residual.Zero{}, nil
	default:
		return nil, fmt.Errorf("unknown predictor %q (want med, left, up or zero)", name)
	}
}

func main() {
	predName := flag.String("p", "med", "predictor: med, left, up, zero")
	tile := flag.Int("tile", 0, "tile size for parallel scans (0 = whole image)")
	workers := flag.Int("workers", 0, "worker goroutines for tiled scans (0 = GOMAXPROCS)")
	j2k := flag.Bool("j2k", false, "report lossless JPEG 2000 size as a baseline")
	quiet := flag.Bool("q", false, "only print failures")
	verbose := flag.Bool("v", false, "verbose output")
	showVersion := flag.Bool("version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: medcheck [options] <image> [<image> ...]\n\n")
		fmt.Fprintf(os.Stderr, "Round-trip images through MED residual coding and report\n")
		fmt.Fprintf(os.Stderr, "compressed sizes of raw and residual data.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("medcheck version %s\n", version)
		os.Exit(0)
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input files specified")
		flag.Usage()
		os.Exit(2)
	}
	if *tile < 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid tile size %d\n", *tile)
		os.Exit(2)
	}
	if _, err := predictorByName(*predName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	residual.SetParallelConfig(residual.ParallelConfig{NumWorkers: *workers, GrainSize: 1})

	opts := Options{
		Predictor: *predName,
		Tile:      *tile,
		J2K:       *j2k,
		Verbose:   *verbose && !*quiet,
	}

	exitCode := 0
	for _, filename := range files {
		result, err := checkFile(filename, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", filename, err)
			if errors.Is(err, ErrMismatch) {
				exitCode = max(exitCode, 1)
			} else {
				exitCode = 2
			}
			continue
		}
		if !*quiet {
			printResult(os.Stdout, result)
		}
	}

	os.Exit(exitCode)
}

// checkFile decodes an image file and runs check on it.
func checkFile(filename string, opts Options) (*Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	if opts.Verbose {
		b := img.Bounds()
		fmt.Fprintf(os.Stderr, "%s: %s image, %dx%d\n", filename, format, b.Dx(), b.Dy())
	}

	result, err := check(img, opts)
	if err != nil {
		return nil, err
	}
	result.Filename = filename
	return result, nil
}

// check round-trips img through residual coding and measures sizes.
func check(img image.Image, opts Options) (*Result, error) {
	p, err := predictorByName(opts.Predictor)
	if err != nil {
		return nil, err
	}

	pix, width, height := pixel.FromImage(img)
	res := make([]uint32, len(pix))
	back := make([]uint32, len(pix))

	result := &Result{
		Width:         width,
		Height:        height,
		Predictor:     strings.ToLower(opts.Predictor),
		RawSizes:      make(map[sizer.Method]int),
		ResidualSizes: make(map[sizer.Method]int),
	}

	start := time.Now()
	if opts.Tile > 0 {
		err = residual.EncodeTiles(p, pix, res, width, height, opts.Tile, opts.Tile)
	} else {
		err = residual.EncodeRegion(p, pix, res, width, height, residual.Full(width, height))
	}
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.EncodeTime = time.Since(start)

	start = time.Now()
	if opts.Tile > 0 {
		err = residual.DecodeTilesParallel(p, res, back, width, height, opts.Tile, opts.Tile)
	} else {
		err = residual.DecodeRegion(p, res, back, width, height, residual.Full(width, height))
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.DecodeTime = time.Since(start)

	for i := range pix {
		if back[i] != pix[i] {
			return nil, fmt.Errorf("%w at (%d, %d): got %#08x, want %#08x",
				ErrMismatch, i%width, i/width, back[i], pix[i])
		}
	}

	raw := interleave.Planes(pix, nil)
	planes := interleave.Planes(res, nil)
	for _, m := range sizer.Methods {
		if result.RawSizes[m], err = sizer.Size(m, raw); err != nil {
			return nil, fmt.Errorf("%v raw: %w", m, err)
		}
		if result.ResidualSizes[m], err = sizer.Size(m, planes); err != nil {
			return nil, fmt.Errorf("%v residual: %w", m, err)
		}
	}

	if opts.J2K {
		n, err := j2kSize(pixel.ToImage(pix, width, height))
		if err != nil {
			return nil, fmt.Errorf("jpeg2000: %w", err)
		}
		result.J2KSize = n
	}

	return result, nil
}

// j2kSize returns the size of a lossless JPEG 2000 codestream for img.
func j2kSize(img image.Image) (int, error) {
	opts := jpeg2000.DefaultOptions()
	opts.Format = jpeg2000.FormatJ2K
	opts.Lossless = true

	var buf bytes.Buffer
	if err := jpeg2000.Encode(&buf, img, opts); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

func printResult(w io.Writer, r *Result) {
	raw := r.RawBytes()
	fmt.Fprintf(w, "%s: %dx%d, predictor %s, round-trip ok (encode %v, decode %v)\n",
		r.Filename, r.Width, r.Height, r.Predictor,
		r.EncodeTime.Round(time.Microsecond), r.DecodeTime.Round(time.Microsecond))
	fmt.Fprintf(w, "  %-8s %12s %12s %8s\n", "method", "raw", "residual", "ratio")
	for _, m := range sizer.Methods {
		fmt.Fprintf(w, "  %-8s %12d %12d %7.2fx\n",
			m, r.RawSizes[m], r.ResidualSizes[m], ratio(raw, r.ResidualSizes[m]))
	}
	if r.J2KSize > 0 {
		fmt.Fprintf(w, "  %-8s %12s %12d %7.2fx\n", "j2k", "-", r.J2KSize, ratio(raw, r.J2KSize))
	}
}

func ratio(raw, compressed int) float64 {
	if compressed == 0 {
		return 0
	}
	return float64(raw) / float64(compressed)
}
