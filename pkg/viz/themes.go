package viz

import "github.com/charmbracelet/lipgloss"

// Theme holds the chrome colors drawn around the spectrogram.
type Theme struct {
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Marker    lipgloss.Color
}

func DefaultTheme() Theme {
	return Theme{
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#9ca3af"),
		Accent:    lipgloss.Color("#21918c"),
		Highlight: lipgloss.Color("#fde725"),
		Warning:   lipgloss.Color("#ffa500"),
		Error:     lipgloss.Color("#ff5555"),
		Marker:    lipgloss.Color("#ff0000"),
	}
}

// ThemeFor takes its accent colors from the colormap's legend so the
// chrome follows the active palette.
func ThemeFor(colormap string) Theme {
	t := DefaultTheme()
	g := ColormapGradient(colormap)
	t.Accent = lipgloss.Color(g[len(g)/2])
	t.Highlight = lipgloss.Color(g[len(g)-1])
	return t
}
