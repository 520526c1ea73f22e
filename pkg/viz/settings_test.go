package viz

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if s.ColorScheme != "viridis" || s.FMin != 50 || s.FMax != 8000 || s.Normalization != NormNone {
		t.Fatalf("unexpected defaults %+v", s)
	}
}

func TestValidateRejects(t *testing.T) {
	base := DefaultSettings()
	tests := []struct {
		name string
		s    RenderSettings
	}{
		{"fmin above fmax", base.WithFrequencyRange(9000, 8000)},
		{"fmin equals fmax", base.WithFrequencyRange(100, 100)},
		{"zero hop", base.WithHopLength(0)},
		{"overlap above 90", base.WithOverlap(95)},
		{"negative overlap", base.WithOverlap(-1)},
		{"unknown type", base.WithSpectrogramType("wavelet")},
		{"NaN fmin", base.WithFrequencyRange(math.NaN(), 8000)},
		{"NaN fmax", base.WithFrequencyRange(50, math.NaN())},
		{"infinite fmax", base.WithFrequencyRange(50, math.Inf(1))},
		{"infinite fmin", base.WithFrequencyRange(math.Inf(-1), 8000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestWithMethodsReturnCopies(t *testing.T) {
	base := DefaultSettings()
	next := base.WithColorScheme("Magma").WithDBScale(true)
	if base.ColorScheme != "viridis" || base.DBScale {
		t.Fatalf("builder mutated the original: %+v", base)
	}
	if next.ColorScheme != "magma" || !next.DBScale {
		t.Fatalf("unexpected result %+v", next)
	}
}

func TestNeedsAnalysis(t *testing.T) {
	base := DefaultSettings()
	if base.WithColorScheme("plasma").NeedsAnalysis(base) {
		t.Fatalf("colormap change should not need analysis")
	}
	if !base.WithFFTSize(4096).NeedsAnalysis(base) {
		t.Fatalf("fft change should need analysis")
	}
	if !base.WithDBScale(true).NeedsAnalysis(base) {
		t.Fatalf("dB change should need analysis")
	}
}

func TestParseNormalizationFallsBack(t *testing.T) {
	if got := ParseNormalization("MinMax"); got != NormMinMax {
		t.Fatalf("expected minmax, got %s", got)
	}
	if got := ParseNormalization("robust"); got != NormNone {
		t.Fatalf("expected none, got %s", got)
	}
	if got := NextNormalization(NormZScore); got != NormNone {
		t.Fatalf("expected none after zscore, got %s", got)
	}
}

func TestPresets(t *testing.T) {
	presets := Presets()
	if len(presets) != 3 {
		t.Fatalf("expected 3 presets, got %d", len(presets))
	}
	for _, p := range presets {
		if err := p.Settings.Validate(); err != nil {
			t.Fatalf("%s: %v", p.Name, err)
		}
	}
	p, ok := FindPreset(presets, "music-harmonics")
	if !ok || p.Settings.SpectrogramType != Chromagram || p.Settings.FFTSize != 4096 {
		t.Fatalf("unexpected preset %+v", p)
	}
	if p, ok := FindPreset(presets, "speech"); !ok || p.Settings.ColorScheme != "magma" {
		t.Fatalf("expected prefix match on speech, got %+v", p)
	}
	if _, ok := FindPreset(presets, "podcast"); ok {
		t.Fatalf("unexpected match")
	}
}
