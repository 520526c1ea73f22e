package viz

import (
	"context"
	"fmt"
	"image"
	"runtime"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// rows per band below which a build stays on one goroutine
const minBandRows = 32

// Raster is a spectrogram rendered at native size: one pixel per matrix
// cell, width = frames, height = bins, highest bin on the top row.
type Raster struct {
	*image.RGBA
}

func (r *Raster) Native() Size {
	b := r.Bounds()
	return Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	img := image.NewRGBA(r.Bounds())
	copy(img.Pix, r.Pix)
	return &Raster{RGBA: img}
}

// Scaled resamples the raster with nearest-neighbour lookup, the way a
// browser scales a pixelated canvas.
func (r *Raster) Scaled(width, height int) *image.RGBA {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), r.RGBA, r.Bounds(), xdraw.Src, nil)
	return dst
}

// BuildRaster renders m with the given settings using all available CPUs.
func BuildRaster(ctx context.Context, m *Matrix, s RenderSettings) (*Raster, error) {
	return buildRaster(ctx, m, s, runtime.GOMAXPROCS(0))
}

// buildRaster fills a fresh RGBA buffer in horizontal bands. The buffer is
// only returned once every band has finished, so callers never observe a
// partially built image.
func buildRaster(ctx context.Context, m *Matrix, s RenderSettings, workers int) (*Raster, error) {
	if m == nil {
		return nil, ErrNoData
	}
	rows, cols := m.Dims()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	scaler := NewScaler(m, s)
	cm := GetColormap(s.ColorScheme)

	if workers < 1 {
		workers = 1
	}
	band := (rows + workers - 1) / workers
	if band < minBandRows {
		band = minBandRows
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < rows; start += band {
		y0, y1 := start, min(start+band, rows)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if y%minBandRows == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				src := m.Row(rows - 1 - y)
				off := y * img.Stride
				for x, v := range src {
					c := ApplyColormap(scaler.Scale(v), cm)
					i := off + x*4
					img.Pix[i] = c.R
					img.Pix[i+1] = c.G
					img.Pix[i+2] = c.B
					img.Pix[i+3] = 255
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("raster build interrupted: %w", err)
	}
	return &Raster{RGBA: img}, nil
}
