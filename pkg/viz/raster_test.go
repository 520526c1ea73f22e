package viz

import (
	"context"
	"errors"
	"image/color"
	"math"
	"testing"
)

func mustMatrix(t *testing.T, data [][]float64) *Matrix {
	t.Helper()
	m, err := NewMatrix(data)
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	return m
}

func TestBuildRasterNativeSize(t *testing.T) {
	m := mustMatrix(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	r, err := BuildRaster(context.Background(), m, DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := r.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("expected 3x2 raster, got %v", b)
	}
	if n := r.Native(); n.Width != 3 || n.Height != 2 {
		t.Fatalf("unexpected native size %v", n)
	}
}

func TestBuildRasterConstantMatrixIsFlat(t *testing.T) {
	m := mustMatrix(t, [][]float64{{5, 5}, {5, 5}})
	r, err := BuildRaster(context.Background(), m, DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ApplyColormap(0, GetColormap("viridis"))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := r.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestBuildRasterFlipsRows(t *testing.T) {
	// row 0 is the lowest bin and must land on the bottom image row
	m := mustMatrix(t, [][]float64{{0}, {1}})
	r, err := BuildRaster(context.Background(), m, DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cm := GetColormap("viridis")
	if got := r.RGBAAt(0, 0); got != ApplyColormap(1, cm) {
		t.Fatalf("top pixel should be the high stop, got %v", got)
	}
	if got := r.RGBAAt(0, 1); got != ApplyColormap(0, cm) {
		t.Fatalf("bottom pixel should be the low stop, got %v", got)
	}
}

func TestBuildRasterDBAfterPassThrough(t *testing.T) {
	m := mustMatrix(t, [][]float64{{-40}})
	s := DefaultSettings().WithNormalization(NormMinMax).WithDBScale(true)
	r, err := BuildRaster(context.Background(), m, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (-40+80)/80 = 0.5 selects stop floor(0.5*9) = 4
	want := color.RGBA{R: 39, G: 121, B: 135, A: 255}
	if got := r.RGBAAt(0, 0); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBuildRasterDBAfterGlobalMinMax(t *testing.T) {
	// none maps into [0,1] first, so the dB step saturates every cell
	m := mustMatrix(t, [][]float64{{-80, -40, 0}})
	s := DefaultSettings().WithDBScale(true)
	r, err := BuildRaster(context.Background(), m, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ApplyColormap(1, GetColormap("viridis"))
	for x := 0; x < 3; x++ {
		if got := r.RGBAAt(x, 0); got != want {
			t.Fatalf("pixel %d: expected the top stop %v, got %v", x, want, got)
		}
	}
	if sc := NewScaler(m, s); sc.Scale(-80) != 1 || sc.Scale(0) != 1 {
		t.Fatalf("expected saturated scale, got %v and %v", sc.Scale(-80), sc.Scale(0))
	}
}

func TestBuildRasterNaNRendersBlack(t *testing.T) {
	m := mustMatrix(t, [][]float64{{0, math.NaN()}, {1, 2}})
	s := DefaultSettings().WithNormalization(NormMinMax)
	r, err := BuildRaster(context.Background(), m, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.RGBAAt(1, 1); got != (color.RGBA{A: 255}) {
		t.Fatalf("expected black for NaN, got %v", got)
	}
}

func TestBuildRasterHonoursCancellation(t *testing.T) {
	data := make([][]float64, 512)
	for i := range data {
		data[i] = make([]float64, 64)
	}
	m := mustMatrix(t, data)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := buildRaster(ctx, m, DefaultSettings(), 4); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildRasterBandsMatchSingleWorker(t *testing.T) {
	data := make([][]float64, 200)
	for r := range data {
		data[r] = make([]float64, 30)
		for c := range data[r] {
			data[r][c] = float64(r*30 + c)
		}
	}
	m := mustMatrix(t, data)
	one, err := buildRaster(context.Background(), m, DefaultSettings(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	many, err := buildRaster(context.Background(), m, DefaultSettings(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range one.Pix {
		if one.Pix[i] != many.Pix[i] {
			t.Fatalf("byte %d differs between worker counts", i)
		}
	}
}

func TestScalerNoneUsesGlobalRange(t *testing.T) {
	m := mustMatrix(t, [][]float64{{-10, 0}, {10, 30}})
	sc := NewScaler(m, DefaultSettings())
	if lo, hi := sc.Range(); lo != -10 || hi != 30 {
		t.Fatalf("expected range [-10,30], got [%v,%v]", lo, hi)
	}
	if got := sc.Scale(10); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestWithSelectionDrawsMarker(t *testing.T) {
	data := make([][]float64, 20)
	for i := range data {
		data[i] = make([]float64, 20)
	}
	r, err := BuildRaster(context.Background(), mustMatrix(t, data), DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	marked := r.WithSelection(Point{PixelX: 10, PixelY: 10})

	if got := marked.RGBAAt(15, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("expected red outline at radius 5, got %v", got)
	}
	base, centre := r.RGBAAt(10, 10), marked.RGBAAt(10, 10)
	if centre.R <= base.R || centre.G <= base.G {
		t.Fatalf("expected a lighter centre, base %v marked %v", base, centre)
	}
	if got := marked.RGBAAt(0, 0); got != r.RGBAAt(0, 0) {
		t.Fatalf("pixels away from the marker must be untouched")
	}
	if r.RGBAAt(15, 10) == marked.RGBAAt(15, 10) {
		t.Fatalf("the base raster must not be modified")
	}
}
