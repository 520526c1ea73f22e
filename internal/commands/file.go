package commands

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (c *Commander) handleLoad(args []string) (string, error, tea.Cmd) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: load <path/url>"), nil
	}
	path := expandPath(strings.Join(args, " "))

	if err := c.processor.LoadFile(path); err != nil {
		return "", fmt.Errorf("failed to load file: %w", err), nil
	}
	c.mode = ModeTrack
	return fmt.Sprintf("Loading %s...", path), nil, enterViz
}

func (c *Commander) handleOpen(args []string) (string, error, tea.Cmd) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: open <export.json>"), nil
	}
	path := expandPath(strings.Join(args, " "))

	if err := c.processor.OpenExport(path); err != nil {
		return "", fmt.Errorf("failed to open export: %w", err), nil
	}
	c.mode = ModeTrack
	return fmt.Sprintf("Opened %s", path), nil, enterViz
}

func (c *Commander) handleUnload() (string, error, tea.Cmd) {
	c.processor.Unload()
	c.mode = ModeNormal
	return "Track unloaded. Returning to normal mode.", nil, nil
}
