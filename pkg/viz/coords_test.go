package viz

import (
	"math"
	"testing"
)

func gridSpectrogram(t *testing.T, rows, cols int) *Spectrogram {
	t.Helper()
	data := make([][]float64, rows)
	for r := range data {
		data[r] = make([]float64, cols)
		for c := range data[r] {
			data[r][c] = float64(r*10 + c)
		}
	}
	return &Spectrogram{Matrix: mustMatrix(t, data), SampleRate: 1000, HopLength: 250}
}

func TestPixelToPointRoundTrip(t *testing.T) {
	sg := gridSpectrogram(t, 3, 4)
	s := DefaultSettings().WithFrequencyRange(0, 300)
	display := Size{Width: 4, Height: 3}

	p, ok := PixelToPoint(2.5, 0.5, display, sg, &s)
	if !ok {
		t.Fatalf("expected a point")
	}
	// top image row reads the highest matrix row
	if p.Amplitude != 22 {
		t.Fatalf("expected amplitude 22, got %v", p.Amplitude)
	}
	if p.PixelX != 2 || p.PixelY != 0 {
		t.Fatalf("unexpected pixel (%d,%d)", p.PixelX, p.PixelY)
	}
	// 4 frames * 250 / 1000 = 1s total, x = 2.5 of 4
	if math.Abs(p.TimeSeconds-0.625) > 1e-12 {
		t.Fatalf("expected 0.625s, got %v", p.TimeSeconds)
	}
	if math.Abs(p.FrequencyHz-250) > 1e-9 {
		t.Fatalf("expected 250 Hz, got %v", p.FrequencyHz)
	}
}

func TestPixelToPointScalesDisplay(t *testing.T) {
	sg := gridSpectrogram(t, 3, 4)
	s := DefaultSettings()
	p, ok := PixelToPoint(10, 59, Size{Width: 40, Height: 60}, sg, &s)
	if !ok {
		t.Fatalf("expected a point")
	}
	if p.PixelX != 1 || p.PixelY != 2 || p.Amplitude != 1 {
		t.Fatalf("unexpected point %+v", p)
	}
}

func TestPixelToPointFarEdgeClamps(t *testing.T) {
	sg := gridSpectrogram(t, 3, 4)
	s := DefaultSettings()
	p, ok := PixelToPoint(4, 3, Size{Width: 4, Height: 3}, sg, &s)
	if !ok {
		t.Fatalf("expected the far edge to be accepted")
	}
	if p.PixelX != 3 || p.PixelY != 2 || p.Amplitude != 3 {
		t.Fatalf("unexpected point %+v", p)
	}
}

func TestPixelToPointWithoutDataIsNoop(t *testing.T) {
	s := DefaultSettings()
	if _, ok := PixelToPoint(1, 1, Size{Width: 4, Height: 3}, nil, &s); ok {
		t.Fatalf("expected no point without data")
	}
	sg := gridSpectrogram(t, 3, 4)
	if _, ok := PixelToPoint(1, 1, Size{Width: 4, Height: 3}, sg, nil); ok {
		t.Fatalf("expected no point without settings")
	}
	if _, ok := PixelToPoint(-1, 1, Size{Width: 4, Height: 3}, sg, &s); ok {
		t.Fatalf("expected no point outside the image")
	}
}

func TestPointDisplayRounding(t *testing.T) {
	p := Point{TimeSeconds: 1.23456, FrequencyHz: 439.6, Amplitude: -12.345678}
	if p.TimeText() != "1.235" || p.FrequencyText() != "440" || p.AmplitudeText() != "-12.35" {
		t.Fatalf("unexpected rounding %s %s %s", p.TimeText(), p.FrequencyText(), p.AmplitudeText())
	}
	if p.Amplitude != -12.345678 {
		t.Fatalf("full precision must be kept")
	}
}

func TestPointToPixelInvertsPixelToPoint(t *testing.T) {
	sg := gridSpectrogram(t, 3, 4)
	s := DefaultSettings().WithFrequencyRange(0, 300)
	display := Size{Width: 40, Height: 30}
	px, py, ok := PointToPixel(0.625, 250, display, sg, &s)
	if !ok {
		t.Fatalf("expected a pixel")
	}
	p, ok := PixelToPoint(px, py, display, sg, &s)
	if !ok {
		t.Fatalf("expected a point")
	}
	if math.Abs(p.TimeSeconds-0.625) > 1e-9 || math.Abs(p.FrequencyHz-250) > 1e-9 {
		t.Fatalf("round trip drifted: %+v", p)
	}
	if _, _, ok := PointToPixel(5, 250, display, sg, &s); ok {
		t.Fatalf("time beyond the data should be rejected")
	}
}

func TestCellToPixel(t *testing.T) {
	x, y := CellToPixel(0, 0, Size{Width: 4, Height: 3}, Size{Width: 40, Height: 30})
	if x != 5 || y != 25 {
		t.Fatalf("expected (5,25), got (%v,%v)", x, y)
	}
}
