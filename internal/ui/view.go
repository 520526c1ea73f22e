package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

func (m Model) View() string {
	if !m.ready {
		return "\nInitializing..."
	}

	// the spectrogram stays visible while a refetch runs
	if m.loadingState.IsLoading && !(m.uiMode == ModeViz && m.commander.GetProcessor().Frame() != nil) {
		return m.loadingView()
	}

	switch m.uiMode {
	case ModeMini:
		return m.miniView()
	case ModeViz:
		return m.vizView()
	default:
		return m.fullView()
	}
}

func (m Model) loadingView() string {
	var sb strings.Builder
	sb.WriteString(m.banner())
	sb.WriteString(fmt.Sprintf("\n%s %s\n", m.spinner.View(), m.loadingState.Message))

	if m.loadingState.HasBytes() {
		sb.WriteString(m.progress.ViewAs(m.loadingState.Progress))
		if eta := m.loadingState.GetETA(); eta != "" {
			sb.WriteString(fmt.Sprintf("\nETA: %s", eta))
		}
	}

	if m.loadingState.CanCancel {
		sb.WriteString("\n(Press Ctrl+C to cancel)")
	}
	return sb.String()
}

func (m Model) miniView() string {
	var sb strings.Builder
	sb.WriteString(m.banner())

	if track := m.commander.GetCurrentTrack(); track != nil {
		sb.WriteString(fmt.Sprintf("\n%s\n", track))
		sb.WriteString(statusStyle.Render(m.commander.GetProcessor().Settings().String()))
	}

	sb.WriteString(fmt.Sprintf("\n%s%s", m.getPrompt(), m.input.View()))
	return sb.String()
}

func (m Model) fullView() string {
	var sb strings.Builder
	sb.WriteString(m.banner())

	content := m.mainOutput
	if m.tabOutput != "" {
		content += "\n" + m.tabOutput
	}
	m.viewport.SetContent(content)
	sb.WriteString(m.viewport.View())

	sb.WriteString(fmt.Sprintf("\n%s%s", m.getPrompt(), m.input.View()))
	if m.exitPrompt {
		sb.WriteString("\nPress Ctrl+C again to exit or any other key to continue...")
	}
	return sb.String()
}

// vizView keeps exactly one status line above the spectrogram so mouse rows
// map onto raster rows.
func (m Model) vizView() string {
	var sb strings.Builder
	sb.WriteString(m.statusLine() + "\n")
	sb.WriteString(m.commander.GetProcessor().GetVisualization(m.width, m.scroll))
	if m.tabOutput != "" {
		sb.WriteString(m.tabOutput)
	}
	sb.WriteString(fmt.Sprintf("\n%s%s", m.getPrompt(), m.input.View()))
	return sb.String()
}

func (m Model) statusLine() string {
	var line string
	switch {
	case m.healthKnown && !m.healthy:
		line = warningStyle.Render(fmt.Sprintf("⚠ Analysis service unavailable at %s", m.healthURL))
	case m.loadingState.IsLoading:
		line = m.spinner.View() + " " + statusStyle.Render(m.loadingState.Message)
	default:
		line = statusStyle.Render(m.vizStatus)
	}
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}

// banner warns when the analysis service is down; empty otherwise.
func (m Model) banner() string {
	if m.healthKnown && !m.healthy {
		return warningStyle.Render(fmt.Sprintf("⚠ Analysis service unavailable at %s", m.healthURL)) + "\n"
	}
	return ""
}

func (m Model) getPrompt() string {
	if m.searchMode {
		return "search> "
	}
	if m.uiMode == ModeViz {
		return "viz> "
	}
	return "> "
}
