package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColormap is used whenever a colormap name is not recognised.
const DefaultColormap = "viridis"

// Stop is one colormap entry with channels in [0,1].
type Stop struct {
	R, G, B float64
}

// Colormap is a named, ordered list of color stops. Lookups pick the
// nearest lower stop; there is no interpolation between stops.
type Colormap struct {
	Name  string
	Stops []Stop
}

var colormapOrder = []string{"viridis", "magma", "inferno", "plasma", "cividis"}

var colormaps = map[string]Colormap{
	"viridis": {Name: "viridis", Stops: []Stop{
		{0.267, 0.005, 0.329},
		{0.283, 0.141, 0.458},
		{0.259, 0.260, 0.536},
		{0.206, 0.371, 0.553},
		{0.153, 0.475, 0.530},
		{0.125, 0.575, 0.480},
		{0.164, 0.671, 0.380},
		{0.291, 0.761, 0.233},
		{0.493, 0.834, 0.082},
		{0.749, 0.875, 0.066},
	}},
	"magma": {Name: "magma", Stops: []Stop{
		{0.001, 0.000, 0.013},
		{0.088, 0.061, 0.221},
		{0.281, 0.080, 0.418},
		{0.480, 0.088, 0.474},
		{0.659, 0.143, 0.452},
		{0.820, 0.243, 0.390},
		{0.935, 0.378, 0.299},
		{0.990, 0.559, 0.235},
		{0.996, 0.759, 0.316},
		{0.988, 0.966, 0.678},
	}},
	"inferno": {Name: "inferno", Stops: []Stop{
		{0.001, 0.000, 0.014},
		{0.122, 0.047, 0.212},
		{0.324, 0.063, 0.365},
		{0.531, 0.093, 0.366},
		{0.721, 0.155, 0.288},
		{0.866, 0.251, 0.195},
		{0.957, 0.390, 0.123},
		{0.988, 0.575, 0.144},
		{0.961, 0.790, 0.325},
		{0.835, 0.980, 0.650},
	}},
	"plasma": {Name: "plasma", Stops: []Stop{
		{0.050, 0.030, 0.528},
		{0.255, 0.017, 0.586},
		{0.417, 0.005, 0.580},
		{0.568, 0.040, 0.525},
		{0.706, 0.121, 0.425},
		{0.824, 0.226, 0.311},
		{0.910, 0.347, 0.200},
		{0.962, 0.494, 0.093},
		{0.973, 0.662, 0.043},
		{0.941, 0.850, 0.152},
	}},
	"cividis": {Name: "cividis", Stops: []Stop{
		{0.000, 0.135, 0.304},
		{0.080, 0.196, 0.350},
		{0.165, 0.250, 0.375},
		{0.253, 0.305, 0.392},
		{0.345, 0.363, 0.403},
		{0.437, 0.420, 0.410},
		{0.536, 0.480, 0.414},
		{0.640, 0.545, 0.414},
		{0.749, 0.618, 0.415},
		{0.875, 0.705, 0.412},
	}},
}

// Legend gradients are hand-picked and intentionally differ from the stops.
var gradients = map[string][]string{
	"viridis": {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	"magma":   {"#000004", "#3b0f70", "#8c2981", "#de4968", "#fca50a", "#fcfdbf"},
	"inferno": {"#000004", "#420a68", "#932667", "#dd513a", "#fca50a", "#fcffa4"},
	"plasma":  {"#0d0887", "#5b02a3", "#9a179b", "#cb4678", "#ec7853", "#fdb32f", "#f0f921"},
	"cividis": {"#00224e", "#084c8d", "#3d81b2", "#73a9c9", "#a6cee1", "#daded3", "#fafa8c"},
}

// GetColormap returns the named colormap, falling back to viridis.
func GetColormap(name string) Colormap {
	if cm, ok := colormaps[strings.ToLower(strings.TrimSpace(name))]; ok {
		return cm
	}
	return colormaps[DefaultColormap]
}

// IsColormap reports whether name is one of the built-in colormaps.
func IsColormap(name string) bool {
	_, ok := colormaps[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ColormapNames lists the built-in colormaps in presentation order.
func ColormapNames() []string {
	names := make([]string, len(colormapOrder))
	copy(names, colormapOrder)
	return names
}

// NextColormap cycles through ColormapNames in the given direction.
func NextColormap(current string, direction int) string {
	idx := 0
	for i, n := range colormapOrder {
		if n == GetColormap(current).Name {
			idx = i
			break
		}
	}
	n := len(colormapOrder)
	return colormapOrder[((idx+direction)%n+n)%n]
}

// ApplyColormap maps a normalized value to an opaque RGBA color.
// Values are clamped to [0,1]; NaN yields opaque black.
func ApplyColormap(v float64, cm Colormap) color.RGBA {
	if len(cm.Stops) == 0 {
		cm = colormaps[DefaultColormap]
	}
	v = math.Max(0, math.Min(1, v))
	if math.IsNaN(v) {
		return color.RGBA{A: 255}
	}
	s := cm.Stops[int(math.Floor(v*float64(len(cm.Stops)-1)))]
	return color.RGBA{R: channel(s.R), G: channel(s.G), B: channel(s.B), A: 255}
}

// At satisfies the usual colormap lookup shape used by image code.
func (cm Colormap) At(v float64) color.Color {
	return ApplyColormap(v, cm)
}

// Hex returns the stops as "#rrggbb" strings.
func (cm Colormap) Hex() []string {
	out := make([]string, len(cm.Stops))
	for i, s := range cm.Stops {
		out[i] = colorful.Color{R: s.R, G: s.G, B: s.B}.Clamped().Hex()
	}
	return out
}

// ColormapGradient returns the legend gradient for name. Unknown names get
// the viridis gradient.
func ColormapGradient(name string) []string {
	g, ok := gradients[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		g = gradients[DefaultColormap]
	}
	out := make([]string, len(g))
	copy(out, g)
	return out
}

// GradientAt samples the legend gradient at t in [0,1], blending
// neighbouring hex stops in Lab space.
func GradientAt(name string, t float64) colorful.Color {
	stops := ColormapGradient(name)
	t = math.Max(0, math.Min(1, t))
	if math.IsNaN(t) {
		t = 0
	}
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		c, _ := colorful.Hex(stops[len(stops)-1])
		return c
	}
	a, _ := colorful.Hex(stops[i])
	b, _ := colorful.Hex(stops[i+1])
	return a.BlendLab(b, pos-float64(i)).Clamped()
}

// channel converts a [0,1] component to a byte with round-half-to-even,
// matching a clamped byte store.
func channel(c float64) uint8 {
	return uint8(math.RoundToEven(math.Max(0, math.Min(1, c)) * 255))
}
