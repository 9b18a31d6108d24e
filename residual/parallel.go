package residual

import (
	"runtime"
	"sync"
)

// ParallelConfig bounds the concurrency of the tiled scans.
type ParallelConfig struct {
	NumWorkers int // goroutines per batch of tiles; <= 0 uses GOMAXPROCS
	GrainSize  int // tiles per worker below which a batch runs inline
}

// DefaultParallelConfig uses every available CPU and spreads any batch
// larger than one tile per worker.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{GrainSize: 1}
}

var (
	configMu sync.RWMutex
	config   = DefaultParallelConfig()
)

// SetParallelConfig replaces the configuration used by EncodeTiles and
// DecodeTilesParallel. Scans already running keep the old one.
func SetParallelConfig(c ParallelConfig) {
	configMu.Lock()
	config = c
	configMu.Unlock()
}

// GetParallelConfig returns the configuration in effect.
func GetParallelConfig() ParallelConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

func (c ParallelConfig) workers() int {
	if c.NumWorkers > 0 {
		return c.NumWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// parallelFor calls fn for every tile index in [0, n) and waits for all
// calls. Indices are split into one contiguous run per worker.
func parallelFor(n int, fn func(i int)) {
	c := GetParallelConfig()
	workers := c.workers()

	if workers == 1 || n <= c.GrainSize*workers {
		for i := range n {
			fn(i)
		}
		return
	}

	run := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += run {
		hi := min(lo+run, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}()
	}
	wg.Wait()
}

// validateTiles checks the raster and buffers once for a tiled scan and
// returns the tiles in row-major order.
func validateTiles(inLen, outLen, width, height, tileWidth, tileHeight int) ([]Region, error) {
	if err := validate(inLen, outLen, width, height, Full(width, height)); err != nil {
		return nil, err
	}
	return Tiles(width, height, tileWidth, tileHeight)
}

// EncodeTiles encodes a whole raster as independent tiles processed
// concurrently according to the global ParallelConfig.
//
// Predictions read the shared input, so tiles carry no dependencies on one
// another and the result is identical to a single EncodeRegion over the
// full raster. p is called from several goroutines at once and must be
// safe for concurrent use; the predictors in this package are stateless.
func EncodeTiles[P Predictor](p P, in, out []uint32, width, height, tileWidth, tileHeight int) error {
	tiles, err := validateTiles(len(in), len(out), width, height, tileWidth, tileHeight)
	if err != nil {
		return err
	}
	if len(tiles) == 0 {
		return nil
	}
	if err := checkOverlap(in, out, width, height, false); err != nil {
		return err
	}

	parallelFor(len(tiles), func(i int) {
		encodeRegion(p, in, out, width, height, tiles[i])
	})
	return nil
}

// DecodeTiles decodes a whole raster tile by tile in row-major tile order,
// on the calling goroutine. in and out may be the same slice.
func DecodeTiles[P Predictor](p P, in, out []uint32, width, height, tileWidth, tileHeight int) error {
	tiles, err := validateTiles(len(in), len(out), width, height, tileWidth, tileHeight)
	if err != nil {
		return err
	}
	if err := checkOverlap(in, out, width, height, true); err != nil {
		return err
	}
	for _, t := range tiles {
		decodeRegion(p, in, out, width, height, t)
	}
	return nil
}

// DecodeTilesParallel decodes a whole raster using a wavefront schedule.
//
// Tile (tx, ty) depends on tiles (tx-1, ty), (tx, ty-1) and (tx-1, ty-1).
// All tiles on the anti-diagonal tx+ty = d depend only on earlier
// diagonals, so each diagonal is decoded concurrently and the next one
// starts once it has finished. in and out may be the same slice.
func DecodeTilesParallel[P Predictor](p P, in, out []uint32, width, height, tileWidth, tileHeight int) error {
	tiles, err := validateTiles(len(in), len(out), width, height, tileWidth, tileHeight)
	if err != nil {
		return err
	}
	if len(tiles) == 0 {
		return nil
	}
	if err := checkOverlap(in, out, width, height, true); err != nil {
		return err
	}

	tilesX := tileCount(width, tileWidth)
	tilesY := len(tiles) / tilesX

	diagonal := make([]Region, 0, min(tilesX, tilesY))
	for d := 0; d < tilesX+tilesY-1; d++ {
		diagonal = diagonal[:0]
		for ty := max(0, d-tilesX+1); ty <= min(d, tilesY-1); ty++ {
			tx := d - ty
			diagonal = append(diagonal, tiles[ty*tilesX+tx])
		}
		parallelFor(len(diagonal), func(i int) {
			decodeRegion(p, in, out, width, height, diagonal[i])
		})
	}
	return nil
}
