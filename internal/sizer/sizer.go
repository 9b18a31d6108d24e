// Package sizer measures how well a byte stream compresses.
//
// It runs general-purpose compressors over residual or raw pixel data and
// reports the resulting byte counts. Compressed output is discarded; this
// package exists to evaluate predictors, not to produce files.
package sizer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Errors
var (
	ErrUnknownMethod = errors.New("sizer: unknown method")
	ErrInvalidLevel  = errors.New("sizer: invalid compression level")
)

// Method selects a compressor.
type Method int

const (
	Zlib Method = iota
	Zstd
)

// Methods lists every supported compressor in report order.
var Methods = []Method{Zlib, Zstd}

func (m Method) String() string {
	switch m {
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// countWriter counts bytes written to it and drops them.
type countWriter struct {
	n int
}

func (w *countWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}

// Pool for zlib writers at the default level.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	count  *countWriter
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		cw := new(countWriter)
		w, _ := zlib.NewWriterLevel(cw, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, count: cw}
	},
}

// Size returns the compressed size of data using method m at its
// default level.
func Size(m Method, data []byte) (int, error) {
	switch m {
	case Zlib:
		return ZlibSize(data, zlib.DefaultCompression)
	case Zstd:
		return ZstdSize(data), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
}

// ZlibSize returns the zlib-compressed size of data at the given level.
// Level follows klauspost/compress/zlib: -2 (Huffman only) to 9.
func ZlibSize(data []byte, level int) (int, error) {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	if level == zlib.DefaultCompression {
		item := zlibWriterPool.Get().(*zlibWriterPoolItem)
		defer zlibWriterPool.Put(item)
		item.count.n = 0
		item.writer.Reset(item.count)
		return writeAll(item.writer, item.count, data)
	}

	cw := new(countWriter)
	w, err := zlib.NewWriterLevel(cw, level)
	if err != nil {
		return 0, err
	}
	return writeAll(w, cw, data)
}

func writeAll(w *zlib.Writer, cw *countWriter, data []byte) (int, error) {
	if _, err := w.Write(data); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
)

// sharedZstdEncoder returns a process-wide encoder used only through
// EncodeAll, which is safe for concurrent use.
func sharedZstdEncoder() *zstd.Encoder {
	zstdOnce.Do(func() {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		zstdEncoder = enc
	})
	return zstdEncoder
}

var zstdBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64<<10)
		return &b
	},
}

// ZstdSize returns the zstd-compressed size of data at the default level.
func ZstdSize(data []byte) int {
	bp := zstdBufPool.Get().(*[]byte)
	out := sharedZstdEncoder().EncodeAll(data, (*bp)[:0])
	n := len(out)
	*bp = out[:0]
	zstdBufPool.Put(bp)
	return n
}
