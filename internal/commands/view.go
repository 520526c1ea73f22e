package commands

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sonoviz/pkg/viz"
)

func (c *Commander) handleZoom(args []string) (string, error, tea.Cmd) {
	if len(args) == 0 {
		return fmt.Sprintf("zoom %.2fx", c.processor.View().Zoom), nil, nil
	}

	var z float64
	if dir, ok := viz.ParseZoomDirection(args[0]); ok {
		z = c.processor.Zoom(dir)
	} else if strings.EqualFold(args[0], "reset") {
		z = c.processor.ResetZoom()
	} else {
		level, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(args[0]), "x"), 64)
		if err != nil {
			return "", fmt.Errorf("usage: zoom <in|out|reset|%.2g-%.2g>", viz.MinZoom, viz.MaxZoom), nil
		}
		z = c.processor.SetZoom(level)
	}

	out := fmt.Sprintf("zoom %.2fx", z)
	if f := c.processor.Frame(); f != nil {
		out += fmt.Sprintf(" (%s)", f.Display)
	}
	return out, nil, nil
}

func (c *Commander) handlePick(args []string) (string, error, tea.Cmd) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: pick <seconds> <hz>"), nil
	}
	sec, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "s"), 64)
	if err != nil {
		return "", fmt.Errorf("invalid time %q", args[0]), nil
	}
	hz, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(args[1]), "hz"), 64)
	if err != nil {
		return "", fmt.Errorf("invalid frequency %q", args[1]), nil
	}

	p, ok := c.processor.PickAt(sec, hz)
	if !ok {
		return "", fmt.Errorf("%gs / %g Hz is outside the spectrogram", sec, hz), nil
	}
	return p.String(), nil, nil
}
