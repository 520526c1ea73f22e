package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"sonoviz/internal/commands"
)

// TUI wraps the Bubble Tea program.
type TUI struct {
	program *tea.Program
	model   Model
}

func New(commander *commands.Commander, opts Options) *TUI {
	return &TUI{model: NewModel(commander, opts)}
}

// Start runs the TUI main loop with mouse reporting so points can be picked.
func (t *TUI) Start() error {
	t.program = tea.NewProgram(t.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := t.program.Run()
	return err
}
