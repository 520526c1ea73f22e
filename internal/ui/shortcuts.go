package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type shortcut struct {
	key     string
	command string
	help    string
}

// toggle-mode and clear-screen are handled by the model; everything else
// goes through the commander.
var globalShortcuts = []shortcut{
	{"ctrl+v", "viz", "show the spectrogram"},
	{"ctrl+e", "export png", "export the current view as PNG"},
	{"ctrl+s", "settings", "show render settings"},
	{"ctrl+t", "toggle-mode", "switch between full and mini layout"},
	{"ctrl+l", "clear-screen", "clear the output"},
	{"ctrl+q", "quit", "quit"},
}

var vizShortcuts = []shortcut{
	{"+/-", "", "zoom"},
	{"←/→", "", "scroll"},
	{"0", "", "reset zoom"},
	{"c", "", "colormap"},
	{"d", "", "dB"},
	{"n", "", "norm"},
	{"click", "", "pick"},
	{"y", "", "copy"},
	{"x", "", "clear"},
	{"esc/q", "", "back"},
}

func findShortcut(key string) (shortcut, bool) {
	for _, s := range globalShortcuts {
		if s.key == key {
			return s, true
		}
	}
	return shortcut{}, false
}

// handleShortcut runs the command bound to key. ok is false for unbound keys.
func (m *Model) handleShortcut(key string) (string, error, tea.Cmd, bool) {
	s, ok := findShortcut(key)
	if !ok {
		return "", nil, nil, false
	}
	switch s.command {
	case "toggle-mode":
		if m.uiMode == ModeFull {
			m.uiMode = ModeMini
		} else {
			m.uiMode = ModeFull
		}
		return "UI mode toggled", nil, nil, true
	case "clear-screen":
		m.mainOutput = ""
		m.clearTabCompletion()
		return "", nil, nil, true
	default:
		out, err, cmd := m.commander.Execute(s.command)
		return out, err, cmd, true
	}
}

func (m Model) showShortcuts() string {
	var sb strings.Builder
	sb.WriteString("\nKeyboard Shortcuts:\n")
	for _, s := range globalShortcuts {
		sb.WriteString(fmt.Sprintf("%-8s %s\n", s.key, s.help))
	}
	return sb.String()
}

func (m Model) showVisualizationShortcuts() string {
	parts := make([]string, len(vizShortcuts))
	for i, s := range vizShortcuts {
		parts[i] = s.key + " " + s.help
	}
	return strings.Join(parts, " · ")
}
