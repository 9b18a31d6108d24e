package sizer

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

func TestZlibSizeMatchesWriter(t *testing.T) {
	data := bytes.Repeat([]byte("residual "), 500)

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	w.Write(data)
	w.Close()

	got, err := ZlibSize(data, zlib.DefaultCompression)
	if err != nil {
		t.Fatalf("ZlibSize: %v", err)
	}
	if got != buf.Len() {
		t.Errorf("ZlibSize = %d, want %d", got, buf.Len())
	}

	// Pooled writers must be reset between calls.
	again, _ := ZlibSize(data, zlib.DefaultCompression)
	if again != got {
		t.Errorf("second ZlibSize = %d, want %d", again, got)
	}
}

func TestZlibSizeLevels(t *testing.T) {
	data := bytes.Repeat([]byte{0, 1, 2, 3}, 4096)
	for _, level := range []int{zlib.HuffmanOnly, zlib.NoCompression, zlib.BestSpeed, zlib.BestCompression} {
		n, err := ZlibSize(data, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if n <= 0 {
			t.Errorf("level %d: size = %d", level, n)
		}
	}

	if _, err := ZlibSize(data, 42); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("level 42: err = %v, want ErrInvalidLevel", err)
	}
}

func TestZstdSizeMatchesEncoder(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(r.Intn(8))
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()

	want := len(enc.EncodeAll(data, nil))
	if got := ZstdSize(data); got != want {
		t.Errorf("ZstdSize = %d, want %d", got, want)
	}
}

func TestSize(t *testing.T) {
	zeros := make([]byte, 1<<16)
	noise := make([]byte, 1<<16)
	rand.New(rand.NewSource(1)).Read(noise)

	for _, m := range Methods {
		t.Run(m.String(), func(t *testing.T) {
			z, err := Size(m, zeros)
			if err != nil {
				t.Fatal(err)
			}
			n, err := Size(m, noise)
			if err != nil {
				t.Fatal(err)
			}
			if z >= n {
				t.Errorf("zeros compressed to %d bytes, noise to %d", z, n)
			}
		})
	}

	if _, err := Size(Method(99), zeros); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestMethodString(t *testing.T) {
	if Zlib.String() != "zlib" || Zstd.String() != "zstd" {
		t.Errorf("names = %q, %q", Zlib, Zstd)
	}
	if got := Method(7).String(); got != "Method(7)" {
		t.Errorf("unknown = %q", got)
	}
}
