package viz

import (
	"fmt"
	"math"
	"strings"
)

type SpectrogramType string

const (
	Magnitude  SpectrogramType = "magnitude"
	Mel        SpectrogramType = "mel"
	Chromagram SpectrogramType = "chromagram"
	CQT        SpectrogramType = "cqt"
)

var spectrogramTypes = []SpectrogramType{Magnitude, Mel, Chromagram, CQT}

// SpectrogramTypes lists the analysis types the service accepts.
func SpectrogramTypes() []SpectrogramType {
	out := make([]SpectrogramType, len(spectrogramTypes))
	copy(out, spectrogramTypes)
	return out
}

func ParseSpectrogramType(s string) (SpectrogramType, error) {
	t := SpectrogramType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range spectrogramTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown spectrogram type %q", ErrInvalidSettings, s)
}

// Normalization tells the renderer whether values still need scaling.
type Normalization string

const (
	NormNone   Normalization = "none"
	NormMinMax Normalization = "minmax"
	NormZScore Normalization = "zscore"
)

var normalizations = []Normalization{NormNone, NormMinMax, NormZScore}

// ParseNormalization never fails: unknown names mean NormNone.
func ParseNormalization(s string) Normalization {
	n := Normalization(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range normalizations {
		if n == known {
			return n
		}
	}
	return NormNone
}

// NextNormalization cycles none -> minmax -> zscore.
func NextNormalization(n Normalization) Normalization {
	n = ParseNormalization(string(n))
	for i, known := range normalizations {
		if known == n {
			return normalizations[(i+1)%len(normalizations)]
		}
	}
	return NormNone
}

// RenderSettings is an immutable snapshot of analysis and rendering
// parameters. The With* methods return modified copies.
type RenderSettings struct {
	SpectrogramType SpectrogramType `json:"spectrogramType"`
	ColorScheme     string          `json:"colorScheme"`
	FFTSize         int             `json:"fftSize"`
	WindowSize      int             `json:"windowSize"`
	HopLength       int             `json:"hopLength"`
	Overlap         int             `json:"overlap"`
	DBScale         bool            `json:"dbScale"`
	FMin            float64         `json:"fmin"`
	FMax            float64         `json:"fmax"`
	Normalization   Normalization   `json:"normalization"`
}

func DefaultSettings() RenderSettings {
	return RenderSettings{
		SpectrogramType: Magnitude,
		ColorScheme:     DefaultColormap,
		FFTSize:         2048,
		WindowSize:      1024,
		HopLength:       512,
		Overlap:         50,
		DBScale:         false,
		FMin:            50,
		FMax:            8000,
		Normalization:   NormNone,
	}
}

func (s RenderSettings) WithSpectrogramType(t SpectrogramType) RenderSettings {
	s.SpectrogramType = t
	return s
}

func (s RenderSettings) WithColorScheme(name string) RenderSettings {
	s.ColorScheme = strings.ToLower(strings.TrimSpace(name))
	return s
}

func (s RenderSettings) WithFFTSize(n int) RenderSettings {
	s.FFTSize = n
	return s
}

func (s RenderSettings) WithWindowSize(n int) RenderSettings {
	s.WindowSize = n
	return s
}

func (s RenderSettings) WithHopLength(n int) RenderSettings {
	s.HopLength = n
	return s
}

func (s RenderSettings) WithOverlap(pct int) RenderSettings {
	s.Overlap = pct
	return s
}

func (s RenderSettings) WithDBScale(on bool) RenderSettings {
	s.DBScale = on
	return s
}

func (s RenderSettings) WithFrequencyRange(fmin, fmax float64) RenderSettings {
	s.FMin, s.FMax = fmin, fmax
	return s
}

func (s RenderSettings) WithNormalization(n Normalization) RenderSettings {
	s.Normalization = ParseNormalization(string(n))
	return s
}

// Validate checks the constraints the analysis service relies on.
func (s RenderSettings) Validate() error {
	if _, err := ParseSpectrogramType(string(s.SpectrogramType)); err != nil {
		return err
	}
	if !finite(s.FMin) || !finite(s.FMax) {
		return fmt.Errorf("%w: frequency range must be finite (got %g-%g)", ErrInvalidSettings, s.FMin, s.FMax)
	}
	if s.FMin < 0 {
		return fmt.Errorf("%w: fmin must not be negative (got %g)", ErrInvalidSettings, s.FMin)
	}
	if s.FMin >= s.FMax {
		return fmt.Errorf("%w: fmin (%g) must be below fmax (%g)", ErrInvalidSettings, s.FMin, s.FMax)
	}
	if s.HopLength <= 0 {
		return fmt.Errorf("%w: hop length must be positive (got %d)", ErrInvalidSettings, s.HopLength)
	}
	if s.Overlap < 0 || s.Overlap > 90 {
		return fmt.Errorf("%w: overlap must be within 0..90 (got %d)", ErrInvalidSettings, s.Overlap)
	}
	if s.FFTSize <= 0 || s.WindowSize <= 0 {
		return fmt.Errorf("%w: fft and window sizes must be positive", ErrInvalidSettings)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NeedsAnalysis reports whether moving from prev to s requires a new
// analysis request. Only colormap changes can be re-rendered locally.
func (s RenderSettings) NeedsAnalysis(prev RenderSettings) bool {
	s.ColorScheme = prev.ColorScheme
	return s != prev
}

func (s RenderSettings) String() string {
	db := "off"
	if s.DBScale {
		db = "on"
	}
	return fmt.Sprintf("%s | FFT %d | win %d | hop %d | overlap %d%% | %g-%g Hz | dB %s | norm %s | %s",
		s.SpectrogramType, s.FFTSize, s.WindowSize, s.HopLength, s.Overlap,
		s.FMin, s.FMax, db, s.Normalization, s.ColorScheme)
}

// Preset is a named RenderSettings snapshot.
type Preset struct {
	Name     string
	Settings RenderSettings
}

// Presets returns the built-in presets.
func Presets() []Preset {
	return []Preset{
		{Name: "Speech Analysis", Settings: RenderSettings{
			SpectrogramType: Mel, FFTSize: 2048, WindowSize: 1024, HopLength: 512,
			DBScale: true, FMin: 50, FMax: 8000, Overlap: 75,
			Normalization: NormMinMax, ColorScheme: "magma",
		}},
		{Name: "Music Harmonics", Settings: RenderSettings{
			SpectrogramType: Chromagram, FFTSize: 4096, WindowSize: 2048, HopLength: 1024,
			DBScale: true, FMin: 20, FMax: 16000, Overlap: 75,
			Normalization: NormMinMax, ColorScheme: "plasma",
		}},
		{Name: "Low Latency", Settings: RenderSettings{
			SpectrogramType: Magnitude, FFTSize: 512, WindowSize: 256, HopLength: 128,
			DBScale: true, FMin: 20, FMax: 20000, Overlap: 50,
			Normalization: NormNone, ColorScheme: "viridis",
		}},
	}
}

// FindPreset matches a preset by case-insensitive name, ignoring spaces,
// so "speech", "speech-analysis" and "Speech Analysis" all work.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	key := presetKey(name)
	if key == "" {
		return Preset{}, false
	}
	for _, p := range presets {
		if presetKey(p.Name) == key {
			return p, true
		}
	}
	for _, p := range presets {
		if strings.HasPrefix(presetKey(p.Name), key) {
			return p, true
		}
	}
	return Preset{}, false
}

func presetKey(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
