package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"sonoviz/internal/types"
)

func (c *Commander) handleCommand(cmd string, args []string) (string, error, tea.Cmd) {
	switch cmd {
	case "help", "h", "?":
		if c.mode == ModeTrack {
			return c.handleTrackHelp()
		}
		return c.handleHelp()
	case "load", "l":
		return c.handleLoad(args)
	case "open", "o":
		return c.handleOpen(args)
	case "health":
		return c.handleHealth()
	case "settings", "s":
		return c.handleShowSettings()
	case "quit", "q", "exit":
		c.processor.Close()
		return "Goodbye!", nil, tea.Quit
	}

	if out, err, cmd, ok := c.handleSettingsCommand(cmd, args); ok {
		return out, err, cmd
	}

	if c.mode != ModeTrack {
		switch cmd {
		case "unload", "info", "i", "viz", "v", "zoom", "z", "pick", "clear", "export", "e":
			return "", fmt.Errorf("no spectrogram loaded (use 'load <file>' or 'open <export.json>')"), nil
		}
		return "", fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd), nil
	}

	switch cmd {
	case "unload":
		return c.handleUnload()
	case "info", "i":
		return c.processor.Info(), nil, nil
	case "viz", "v":
		return "", nil, enterViz
	case "zoom", "z":
		return c.handleZoom(args)
	case "pick":
		return c.handlePick(args)
	case "clear":
		c.processor.ClearSelection()
		return "Selection cleared", nil, nil
	case "export", "e":
		return c.handleExport(args)
	default:
		return "", fmt.Errorf("unknown track command: %s (type 'help' for available commands)", cmd), nil
	}
}

func enterViz() tea.Msg {
	return types.EnterVizMsg{}
}
