package commands

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sonoviz/pkg/viz"
)

type settingsFunc func(viz.RenderSettings) viz.RenderSettings

// handleSettingsCommand handles the commands that edit render settings.
// ok is false when cmd is not one of them.
func (c *Commander) handleSettingsCommand(cmd string, args []string) (out string, err error, tc tea.Cmd, ok bool) {
	var fn settingsFunc

	switch cmd {
	case "type", "t":
		if len(args) == 0 {
			return "", fmt.Errorf("usage: type <%s>", joinTypes()), nil, true
		}
		t, perr := viz.ParseSpectrogramType(args[0])
		if perr != nil {
			return "", perr, nil, true
		}
		fn = func(s viz.RenderSettings) viz.RenderSettings { return s.WithSpectrogramType(t) }

	case "cmap", "colormap", "c":
		name := ""
		if len(args) > 0 {
			name = strings.ToLower(args[0])
			if !viz.IsColormap(name) {
				return "", fmt.Errorf("unknown colormap %q (available: %s)", args[0], strings.Join(viz.ColormapNames(), ", ")), nil, true
			}
		}
		fn = func(s viz.RenderSettings) viz.RenderSettings {
			if name == "" {
				return s.WithColorScheme(viz.NextColormap(s.ColorScheme, 1))
			}
			return s.WithColorScheme(name)
		}

	case "norm", "normalization", "n":
		var n viz.Normalization
		if len(args) > 0 {
			n = viz.Normalization(strings.ToLower(args[0]))
			if viz.ParseNormalization(args[0]) != n {
				return "", fmt.Errorf("unknown normalization %q (use none, minmax or zscore)", args[0]), nil, true
			}
		}
		fn = func(s viz.RenderSettings) viz.RenderSettings {
			if n == "" {
				return s.WithNormalization(viz.NextNormalization(s.Normalization))
			}
			return s.WithNormalization(n)
		}

	case "db":
		var on *bool
		if len(args) > 0 {
			v, perr := parseOnOff(args[0])
			if perr != nil {
				return "", perr, nil, true
			}
			on = &v
		}
		fn = func(s viz.RenderSettings) viz.RenderSettings {
			if on == nil {
				return s.WithDBScale(!s.DBScale)
			}
			return s.WithDBScale(*on)
		}

	case "fmin", "fmax":
		if len(args) == 0 {
			return "", fmt.Errorf("usage: %s <hz>", cmd), nil, true
		}
		hz, perr := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(args[0]), "hz"), 64)
		if perr != nil {
			return "", fmt.Errorf("invalid frequency %q", args[0]), nil, true
		}
		fn = func(s viz.RenderSettings) viz.RenderSettings {
			if cmd == "fmin" {
				return s.WithFrequencyRange(hz, s.FMax)
			}
			return s.WithFrequencyRange(s.FMin, hz)
		}

	case "fft", "window", "hop", "overlap":
		if len(args) == 0 {
			return "", fmt.Errorf("usage: %s <n>", cmd), nil, true
		}
		n, perr := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
		if perr != nil {
			return "", fmt.Errorf("invalid %s value %q", cmd, args[0]), nil, true
		}
		fn = intSetting(cmd, n)

	case "preset", "p":
		out, err, tc = c.handlePreset(args)
		return out, err, tc, true

	case "reset":
		c.processor.ResetZoom()
		fn = func(viz.RenderSettings) viz.RenderSettings { return viz.DefaultSettings() }

	default:
		return "", nil, nil, false
	}

	refetch, err := c.processor.ApplySettings(fn)
	if err != nil {
		return "", err, nil, true
	}
	return c.settingsApplied(refetch), nil, nil, true
}

func intSetting(cmd string, n int) settingsFunc {
	return func(s viz.RenderSettings) viz.RenderSettings {
		switch cmd {
		case "fft":
			return s.WithFFTSize(n)
		case "window":
			return s.WithWindowSize(n)
		case "hop":
			return s.WithHopLength(n)
		default:
			return s.WithOverlap(n)
		}
	}
}

func (c *Commander) settingsApplied(refetch bool) string {
	s := c.processor.Settings()
	switch {
	case refetch:
		return "Regenerating spectrogram...\n" + s.String()
	case c.processor.HasData():
		return "Applied locally\n" + s.String()
	default:
		return "Settings updated\n" + s.String()
	}
}

func (c *Commander) handlePreset(args []string) (string, error, tea.Cmd) {
	if len(args) == 0 {
		var sb strings.Builder
		sb.WriteString("Presets:\n")
		for _, p := range c.processor.Presets() {
			fmt.Fprintf(&sb, "  %-18s %s\n", p.Name, p.Settings)
		}
		return sb.String(), nil, nil
	}
	if strings.EqualFold(args[0], "save") {
		if len(args) < 2 {
			return "", fmt.Errorf("usage: preset save <name>"), nil
		}
		p, err := c.processor.SavePreset(strings.Join(args[1:], " "))
		if err != nil {
			return "", err, nil
		}
		return fmt.Sprintf("Saved preset %q", p.Name), nil, nil
	}

	p, refetch, err := c.processor.ApplyPreset(strings.Join(args, " "))
	if err != nil {
		return "", err, nil
	}
	return fmt.Sprintf("Preset %q: %s", p.Name, c.settingsApplied(refetch)), nil, nil
}

func (c *Commander) handleShowSettings() (string, error, tea.Cmd) {
	s := c.processor.Settings()
	view := c.processor.View()
	return fmt.Sprintf("%s\nzoom %.2fx", s, view.Zoom), nil, nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func joinTypes() string {
	var names []string
	for _, t := range viz.SpectrogramTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, "|")
}
