package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sonoviz/internal/audio"
	"sonoviz/internal/types"
	"sonoviz/pkg/viz"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case statusTickMsg:
		m.syncLoadingStateFromProcessor(m.commander.GetProcessor().Status())
		return m, statusTick()

	case healthTickMsg:
		return m, tea.Batch(m.commander.CheckHealth(), m.healthTick())

	case types.HealthMsg:
		m.healthKnown = true
		m.healthy = msg.OK
		m.healthURL = msg.URL
		if m.awaitHealth {
			m.awaitHealth = false
			m.setOutput(healthText(msg))
		}
		return m, nil

	case types.EnterVizMsg:
		m.uiMode = ModeViz
		m.scroll = 0
		m.applyLayout()
		return m, nil

	case types.ExportDoneMsg:
		if msg.Err != nil {
			m.setOutput(fmt.Sprintf("Error: %s export failed: %v", msg.Kind, msg.Err))
		} else {
			m.setOutput(fmt.Sprintf("Exported %s to %s", msg.Kind, msg.Dest))
		}
		return m, nil

	case resizeMsg:
		if msg.gen == m.resizeGen {
			m.applyLayout()
		}
		return m, nil

	case tea.MouseMsg:
		if m.uiMode == ModeViz {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.uiMode == ModeViz {
			if handled, cmd := m.handleVizKey(msg); handled {
				return m, cmd
			}
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			proc := m.commander.GetProcessor()
			if m.loadingState.IsLoading && m.loadingState.CanCancel {
				proc.CancelProcessing()
				m.loadingState.Reset()
				m.setOutput("Operation cancelled.")
				return m, nil
			}
			if m.exitPrompt {
				proc.Close()
				return m, tea.Quit
			}
			if m.uiMode == ModeViz {
				m.uiMode = ModeFull
				return m, nil
			}
			if m.commander.IsInTrackMode() {
				output, err, cmd := m.commander.Execute("unload")
				m.showResult(output, err)
				return m, cmd
			}
			m.exitPrompt = true
			m.mainOutput = "Press Ctrl+C again to exit or any other key to continue..."
			return m, nil

		case tea.KeyUp:
			if m.historyPos < len(m.history)-1 {
				m.historyPos++
				m.input.SetValue(m.history[len(m.history)-1-m.historyPos])
			}

		case tea.KeyDown:
			if m.historyPos > 0 {
				m.historyPos--
				m.input.SetValue(m.history[len(m.history)-1-m.historyPos])
			} else if m.historyPos == 0 {
				m.historyPos = -1
				m.input.SetValue("")
			}

		case tea.KeyCtrlR:
			if !m.searchMode {
				m.searchMode = true
				m.input.SetValue("")
				m.input.Placeholder = searchPlaceholder
			}

		case tea.KeyTab:
			if m.searchMode {
				return m, nil
			}
			m.handleTabCompletion()
			return m, nil

		case tea.KeyEnter:
			m.exitPrompt = false
			command := strings.TrimSpace(m.input.Value())
			if command == "" {
				break
			}
			if m.searchMode {
				m.searchMode = false
				m.input.Placeholder = inputPlaceholder
				for i := len(m.history) - 1; i >= 0; i-- {
					if strings.Contains(m.history[i], command) {
						m.input.SetValue(m.history[i])
						break
					}
				}
				return m, nil
			}
			if cmd := m.runCommand(command); cmd != nil {
				cmds = append(cmds, cmd)
			}
			m.history = append(m.history, command)
			m.historyPos = -1
			m.clearTabCompletion()
			m.input.SetValue("")
			return m, tea.Batch(cmds...)

		case tea.KeyRunes:
			if len(msg.Runes) == 1 && msg.Runes[0] == '?' && m.input.Value() == "" {
				if m.uiMode == ModeViz {
					m.setOutput(m.showVisualizationShortcuts())
				} else {
					m.mainOutput = m.showShortcuts()
				}
				return m, nil
			}

		case tea.KeyEsc:
			if m.searchMode {
				m.searchMode = false
				m.input.Placeholder = inputPlaceholder
				m.input.SetValue("")
			}
			m.clearTabCompletion()
			m.exitPrompt = false

		case tea.KeyBackspace:
			if len(m.input.Value()) == 0 {
				m.clearTabCompletion()
			}

		default:
			if output, err, cmd, ok := m.handleShortcut(msg.String()); ok {
				m.showResult(output, err)
				if cmd != nil {
					cmds = append(cmds, cmd)
				}
				return m, tea.Batch(cmds...)
			}
			m.exitPrompt = false
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-3)
			m.ready = true
		}
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.progress.Width = max(10, msg.Width-20)
		m.input.Width = max(10, msg.Width-8)

		m.resizeGen++
		if m.resizeDebounce <= 0 {
			m.applyLayout()
			return m, nil
		}
		gen := m.resizeGen
		return m, tea.Tick(m.resizeDebounce, func(time.Time) tea.Msg { return resizeMsg{gen: gen} })
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready && m.uiMode != ModeViz {
		var viewportCmd tea.Cmd
		m.viewport, viewportCmd = m.viewport.Update(msg)
		cmds = append(cmds, viewportCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) runCommand(command string) tea.Cmd {
	if m.uiMode == ModeViz {
		switch command {
		case "q", "quit", "exit":
			m.uiMode = ModeFull
			return nil
		case "help", "h", "?":
			m.setOutput(m.showVisualizationShortcuts())
			return nil
		}
	}
	if fields := strings.Fields(command); len(fields) > 0 && fields[0] == "health" {
		m.awaitHealth = true
	}

	output, err, cmd := m.commander.Execute(command)
	m.showResult(output, err)
	return cmd
}

// handleVizKey interprets spectrogram keys while the command line is empty.
func (m *Model) handleVizKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		m.uiMode = ModeFull
		m.clearTabCompletion()
		return true, nil
	}
	if m.input.Value() != "" {
		return false, nil
	}

	proc := m.commander.GetProcessor()
	switch key {
	case "q":
		m.uiMode = ModeFull
	case "+", "=":
		m.vizStatus = fmt.Sprintf("zoom %.2fx", proc.Zoom(viz.ZoomIn))
	case "-", "_":
		m.vizStatus = fmt.Sprintf("zoom %.2fx", proc.Zoom(viz.ZoomOut))
	case "0":
		m.vizStatus = fmt.Sprintf("zoom %.2fx", proc.ResetZoom())
		m.scroll = 0
	case "left", "h":
		m.scroll = max(0, m.scroll-scrollStep)
	case "right", "l":
		if f := proc.Frame(); f != nil {
			m.scroll = f.Geometry(m.width, m.scroll+scrollStep).Offset
		}
	case "home":
		m.scroll = 0
	case "c":
		m.execQuiet("cmap")
	case "d":
		m.execQuiet("db")
	case "n":
		m.execQuiet("norm")
	case "x":
		proc.ClearSelection()
		m.vizStatus = "Selection cleared"
	case "y":
		m.copySelection()
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) execQuiet(command string) {
	output, err, _ := m.commander.Execute(command)
	m.showResult(output, err)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	proc := m.commander.GetProcessor()
	f := proc.Frame()
	if f == nil {
		return
	}
	g := f.Geometry(m.width, m.scroll)
	px, py, ok := g.CellToDisplay(msg.X, msg.Y-rasterTop)
	if !ok {
		return
	}
	if p, ok := proc.Pick(px, py); ok {
		m.vizStatus = p.String()
	}
}

func (m *Model) copySelection() {
	p := m.commander.GetProcessor().Selection()
	if p == nil {
		m.vizStatus = "Nothing selected"
		return
	}
	if err := clipboard.WriteAll(p.String()); err != nil {
		m.vizStatus = fmt.Sprintf("Error: copy failed: %v", err)
		return
	}
	m.vizStatus = "Copied: " + p.String()
}

// applyLayout hands the terminal size to the processor so the next frame
// fits the screen.
func (m *Model) applyLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.commander.GetProcessor().SetContainer(float64(m.width), viz.TerminalLayout(m.height))
	if f := m.commander.GetProcessor().Frame(); f != nil {
		m.scroll = f.Geometry(m.width, m.scroll).Offset
	}
}

func (m *Model) showResult(output string, err error) {
	if err != nil {
		m.setOutput(fmt.Sprintf("Error: %v", err))
		return
	}
	if output != "" {
		m.setOutput(output)
	}
}

// setOutput writes to the main output, or to the one-line status while the
// spectrogram is on screen.
func (m *Model) setOutput(s string) {
	m.mainOutput = s
	if m.uiMode == ModeViz {
		m.vizStatus = strings.ReplaceAll(strings.TrimSpace(s), "\n", "  ")
	}
}

// syncLoadingStateFromProcessor mirrors the processor status and, when work
// finishes, shows its outcome.
func (m *Model) syncLoadingStateFromProcessor(st audio.ProcessingStatus) {
	finished := m.loadingState.Observe(types.Progress{
		Busy:      st.Busy(),
		Message:   st.Message,
		Fraction:  st.Progress,
		StartTime: st.StartTime,
		Loaded:    st.BytesLoaded,
		Total:     st.TotalBytes,
		CanCancel: st.CanCancel,
	})
	if !finished {
		return
	}
	switch {
	case st.Err != nil:
		m.setOutput(st.Message)
	case m.uiMode == ModeViz:
		m.vizStatus = st.Message
	default:
		if meta := m.commander.GetProcessor().Metadata(); meta != nil {
			m.mainOutput = meta.String()
		}
	}
}

func healthText(msg types.HealthMsg) string {
	if msg.OK {
		return fmt.Sprintf("Analysis service at %s is healthy", msg.URL)
	}
	return fmt.Sprintf("Analysis service at %s is unavailable", msg.URL)
}
