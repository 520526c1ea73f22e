package viz

import (
	"fmt"
	"math"
	"strings"
	"time"
)

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// FormatSeconds renders a duration as mm:ss.
func FormatSeconds(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	d := time.Duration(sec * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// FormatHz renders a frequency compactly, e.g. "440 Hz" or "8.0 kHz".
func FormatHz(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.1f kHz", hz/1000)
	}
	return fmt.Sprintf("%.0f Hz", hz)
}

// placeLabels lays text labels on a single line of the given width with each
// label centred on its fraction, skipping labels that would overlap.
func placeLabels(labels []AxisLabel, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for _, l := range labels {
		text := []rune(l.Text)
		start := int(math.Round(l.Fraction*float64(width-1))) - len(text)/2
		start = clamp(start, 0, max(0, width-len(text)))
		if start < next {
			continue
		}
		for i, r := range text {
			if start+i < width {
				line[start+i] = r
			}
		}
		next = start + len(text) + 1
	}
	return string(line)
}
