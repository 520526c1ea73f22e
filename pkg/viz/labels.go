package viz

import (
	"fmt"
	"iter"
)

// AxisLabel is a caption placed at a fraction along an axis.
type AxisLabel struct {
	Fraction float64
	Text     string
}

// TimeLabels yields one label per value, evenly spread across the width:
// label i sits at i/(N-1) and reads "%.1fs". A single label sits at 0.
func TimeLabels(values []float64) iter.Seq[AxisLabel] {
	return func(yield func(AxisLabel) bool) {
		n := len(values)
		for i, v := range values {
			frac := 0.0
			if n > 1 {
				frac = float64(i) / float64(n-1)
			}
			if !yield(AxisLabel{Fraction: frac, Text: fmt.Sprintf("%.1fs", v)}) {
				return
			}
		}
	}
}

// EdgeTimeLabels returns the start and end captions of the time axis.
func EdgeTimeLabels(sg *Spectrogram) []AxisLabel {
	return []AxisLabel{
		{Fraction: 0, Text: "0s"},
		{Fraction: 1, Text: fmt.Sprintf("%.2fs", sg.DurationSeconds())},
	}
}

// FrequencyLabels runs top to bottom: fmax, an optional scale note, fmin.
// Fractions are measured from the top.
func FrequencyLabels(s RenderSettings) []AxisLabel {
	labels := []AxisLabel{{Fraction: 0, Text: fmt.Sprintf("%g Hz", s.FMax)}}
	switch s.SpectrogramType {
	case Mel:
		labels = append(labels, AxisLabel{Fraction: 0.5, Text: "Mel scale"})
	case Chromagram:
		labels = append(labels, AxisLabel{Fraction: 0.5, Text: "Pitch class"})
	}
	return append(labels, AxisLabel{Fraction: 1, Text: fmt.Sprintf("%g Hz", s.FMin)})
}
