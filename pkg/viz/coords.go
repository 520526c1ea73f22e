package viz

import (
	"fmt"
	"math"
)

// Point is a selected spectrogram location. PixelX/PixelY are native raster
// coordinates (floored); the float fields keep full precision.
type Point struct {
	PixelX      int
	PixelY      int
	X           float64
	Y           float64
	TimeSeconds float64
	FrequencyHz float64
	Amplitude   float64
}

// TimeText is the time rounded to 3 decimals.
func (p Point) TimeText() string { return fmt.Sprintf("%.3f", p.TimeSeconds) }

// FrequencyText is the frequency rounded to the nearest Hz.
func (p Point) FrequencyText() string { return fmt.Sprintf("%d", int(math.Round(p.FrequencyHz))) }

// AmplitudeText is the raw amplitude rounded to 2 decimals.
func (p Point) AmplitudeText() string { return fmt.Sprintf("%.2f", p.Amplitude) }

func (p Point) String() string {
	return fmt.Sprintf("Time: %ss  Frequency: %s Hz  Amplitude: %s",
		p.TimeText(), p.FrequencyText(), p.AmplitudeText())
}

// PixelToPoint converts a position in display space into a spectrogram
// Point. It reports false when there is no data or settings yet, or when
// the position lies outside the displayed image.
func PixelToPoint(px, py float64, display Size, sg *Spectrogram, s *RenderSettings) (Point, bool) {
	if sg == nil || sg.Matrix == nil || s == nil || display.Empty() {
		return Point{}, false
	}
	if px < 0 || py < 0 || px > display.Width || py > display.Height {
		return Point{}, false
	}

	rows, cols := sg.Matrix.Dims()
	w, h := float64(cols), float64(rows)
	x := px * (w / display.Width)
	y := py * (h / display.Height)

	col := clamp(int(math.Floor(x)), 0, cols-1)
	row := clamp(int(math.Floor(y)), 0, rows-1)

	return Point{
		PixelX:      col,
		PixelY:      row,
		X:           x,
		Y:           y,
		TimeSeconds: x / w * sg.FrameSeconds(),
		FrequencyHz: ((h-y)/h)*(s.FMax-s.FMin) + s.FMin,
		Amplitude:   sg.Matrix.At(rows-1-row, col),
	}, true
}

// PointToPixel is the inverse of PixelToPoint for a time/frequency pair.
func PointToPixel(timeSec, freqHz float64, display Size, sg *Spectrogram, s *RenderSettings) (float64, float64, bool) {
	if sg == nil || sg.Matrix == nil || s == nil || display.Empty() {
		return 0, 0, false
	}
	total := sg.FrameSeconds()
	if total <= 0 || s.FMax <= s.FMin {
		return 0, 0, false
	}
	if timeSec < 0 || timeSec > total || freqHz < s.FMin || freqHz > s.FMax {
		return 0, 0, false
	}
	rows, cols := sg.Matrix.Dims()
	x := timeSec / total * float64(cols)
	y := float64(rows) - (freqHz-s.FMin)/(s.FMax-s.FMin)*float64(rows)
	return x * display.Width / float64(cols), y * display.Height / float64(rows), true
}

// CellToPixel returns the display-space centre of matrix cell (row, col).
func CellToPixel(row, col int, native, display Size) (float64, float64) {
	if native.Empty() {
		return 0, 0
	}
	nx := float64(col) + 0.5
	ny := native.Height - 1 - float64(row) + 0.5
	return nx * display.Width / native.Width, ny * display.Height / native.Height
}
