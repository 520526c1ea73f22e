package viz

import "math"

// dB values are expected in roughly [-80, 0].
const dbFloor = 80.0

// Scaler maps raw matrix values into [0,1] for colormap lookup.
type Scaler struct {
	norm    Normalization
	dbScale bool
	min     float64
	max     float64
}

// NewScaler prepares a Scaler for m. For NormNone the global min and max are
// computed once; a constant matrix gets max = min+1 so every value maps to 0.
// NormMinMax and NormZScore data is assumed to be scaled upstream.
func NewScaler(m *Matrix, s RenderSettings) Scaler {
	sc := Scaler{
		norm:    ParseNormalization(string(s.Normalization)),
		dbScale: s.DBScale,
		min:     0,
		max:     1,
	}
	if sc.norm != NormNone || m == nil {
		return sc
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	rows := m.Rows()
	for r := 0; r < rows; r++ {
		for _, v := range m.Row(r) {
			// math.Min/Max propagate NaN, so one NaN poisons the range.
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo == hi {
		hi = lo + 1
	}
	sc.min, sc.max = lo, hi
	return sc
}

// Scale applies the normalization policy first and the dB clamp second.
func (s Scaler) Scale(v float64) float64 {
	if s.norm == NormNone {
		v = (v - s.min) / (s.max - s.min)
	}
	if s.dbScale {
		v = math.Max(0, math.Min(1, (v+dbFloor)/dbFloor))
	}
	return v
}

// Range is the raw value range mapped to [0,1] under NormNone.
func (s Scaler) Range() (float64, float64) {
	return s.min, s.max
}

// LegendLabels returns the low and high legend captions.
func LegendLabels(s RenderSettings) (string, string) {
	if s.DBScale {
		return "Low dB", "High dB"
	}
	return "Low", "High"
}
