package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sonoviz/pkg/utils"
	"sonoviz/pkg/viz"
)

// CompletionType determines which category of completions we're handling.
type CompletionType int

const (
	CompletionNone CompletionType = iota
	CompletionCommand
	CompletionFile
	CompletionArgument
)

// TabState holds the completions in progress and which one is selected.
type TabState struct {
	Completions   []string
	CurrentIndex  int
	OriginalInput string
	CurrentPath   string
	Command       string
	HasTabbed     bool
	Type          CompletionType
	Applied       string // input value written by the last completion
}

// CompletionDef describes a command, its aliases and how its argument
// completes. Arguments either come from a fixed list or from a function.
type CompletionDef struct {
	Command     string
	Aliases     []string
	Type        CompletionType
	SubCommands []string
	Dynamic     func(m *Model) []string
	Accept      func(path string) bool
	Description string
}

func typeNames() []string {
	var names []string
	for _, t := range viz.SpectrogramTypes() {
		names = append(names, string(t))
	}
	return names
}

var completionDefs = []CompletionDef{
	{Command: "load", Aliases: []string{"l"}, Type: CompletionFile, Accept: utils.IsMusicFile, Description: "Load audio file"},
	{Command: "open", Aliases: []string{"o"}, Type: CompletionFile, Accept: utils.IsExportFile, Description: "Open a JSON export"},
	{Command: "viz", Aliases: []string{"v"}, Type: CompletionCommand, Description: "Show the spectrogram"},
	{Command: "type", Aliases: []string{"t"}, Type: CompletionArgument, SubCommands: typeNames(), Description: "Spectrogram type"},
	{Command: "cmap", Aliases: []string{"c", "colormap"}, Type: CompletionArgument, SubCommands: viz.ColormapNames(), Description: "Colormap"},
	{Command: "norm", Aliases: []string{"n"}, Type: CompletionArgument, SubCommands: []string{"none", "minmax", "zscore"}, Description: "Normalization"},
	{Command: "db", Type: CompletionArgument, SubCommands: []string{"on", "off"}, Description: "dB scaling"},
	{Command: "zoom", Aliases: []string{"z"}, Type: CompletionArgument, SubCommands: []string{"in", "out", "reset"}, Description: "Zoom level"},
	{Command: "export", Aliases: []string{"e"}, Type: CompletionArgument, SubCommands: []string{"png", "json", "parquet"}, Description: "Export the spectrogram"},
	{Command: "preset", Aliases: []string{"p"}, Type: CompletionArgument, Dynamic: presetNames, Description: "List or apply presets"},
	{Command: "fmin", Type: CompletionCommand, Description: "Lowest frequency"},
	{Command: "fmax", Type: CompletionCommand, Description: "Highest frequency"},
	{Command: "fft", Type: CompletionCommand, Description: "FFT size"},
	{Command: "window", Type: CompletionCommand, Description: "Window size"},
	{Command: "hop", Type: CompletionCommand, Description: "Hop length"},
	{Command: "overlap", Type: CompletionCommand, Description: "Window overlap"},
	{Command: "pick", Type: CompletionCommand, Description: "Select a point by time and frequency"},
	{Command: "clear", Type: CompletionCommand, Description: "Clear the selection"},
	{Command: "reset", Type: CompletionCommand, Description: "Restore default settings"},
	{Command: "settings", Aliases: []string{"s"}, Type: CompletionCommand, Description: "Show settings"},
	{Command: "info", Aliases: []string{"i"}, Type: CompletionCommand, Description: "Track details"},
	{Command: "health", Type: CompletionCommand, Description: "Check the analysis service"},
	{Command: "unload", Type: CompletionCommand, Description: "Unload current track"},
	{Command: "help", Aliases: []string{"h"}, Type: CompletionCommand, Description: "Show help"},
	{Command: "quit", Aliases: []string{"q", "exit"}, Type: CompletionCommand, Description: "Exit application"},
}

func presetNames(m *Model) []string {
	var names []string
	for _, p := range m.commander.GetProcessor().Presets() {
		names = append(names, strings.ToLower(strings.ReplaceAll(p.Name, " ", "-")))
	}
	return append(names, "save")
}

func findDef(cmd string) *CompletionDef {
	for i := range completionDefs {
		def := &completionDefs[i]
		if cmd == def.Command || contains(def.Aliases, cmd) {
			return def
		}
	}
	return nil
}

// handleTabCompletion completes the command or its first argument.
func (m *Model) handleTabCompletion() {
	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		m.handleCommandCompletion("")
		return
	}

	if !m.cycling() {
		m.tabState = nil
	} else if m.tabState.Type == CompletionCommand {
		m.handleCommandCompletion(m.tabState.CurrentPath)
		return
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	def := findDef(cmd)
	if def == nil || (len(parts) == 1 && !strings.HasSuffix(input, " ") && def.Type == CompletionCommand) {
		m.handleCommandCompletion(cmd)
		return
	}

	switch def.Type {
	case CompletionFile:
		m.handleFileCompletion(def, parts)
	case CompletionArgument:
		m.handleArgCompletion(def, parts)
	default:
		m.clearTabCompletion()
	}
}

func (m *Model) handleCommandCompletion(partial string) {
	var completions []string
	for _, def := range completionDefs {
		if strings.HasPrefix(def.Command, partial) {
			completions = append(completions, def.Command)
		}
	}
	if len(completions) == 0 {
		m.clearTabCompletion()
		return
	}
	sort.Strings(completions)
	m.updateTabState(completions, CompletionCommand, partial, "")
}

// handleArgCompletion cycles through the known arguments of a command.
func (m *Model) handleArgCompletion(def *CompletionDef, parts []string) {
	var partial string
	if len(parts) > 1 {
		partial = strings.ToLower(parts[1])
	}

	options := def.SubCommands
	if def.Dynamic != nil {
		options = def.Dynamic(m)
	}

	fresh := m.tabState == nil || m.tabState.Command != parts[0] || m.tabState.Type != CompletionArgument
	if !fresh {
		// keep cycling through the list built from the original prefix
		partial = m.tabState.OriginalInput
	}

	var completions []string
	for _, o := range options {
		if strings.HasPrefix(o, partial) {
			completions = append(completions, o)
		}
	}
	if len(completions) == 0 {
		m.clearTabCompletion()
		return
	}

	if fresh {
		m.tabState = &TabState{
			Completions:   completions,
			OriginalInput: partial,
			Command:       parts[0],
			Type:          CompletionArgument,
		}
	} else {
		m.tabState.Completions = completions
		m.tabState.CurrentIndex = (m.tabState.CurrentIndex + 1) % len(completions)
		m.tabState.HasTabbed = true
	}

	m.updateInputWithCompletion()
	m.formatCompletionsDisplay()
}

func (m *Model) handleFileCompletion(def *CompletionDef, parts []string) {
	path := "./"
	if len(parts) > 1 {
		path = strings.Trim(strings.TrimSpace(strings.Join(parts[1:], " ")), `"'`)
	}
	if m.tabState != nil && m.tabState.Type == CompletionFile {
		path = m.tabState.CurrentPath
	}

	expanded := path
	if strings.HasPrefix(expanded, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = strings.Replace(expanded, "~", home, 1)
		}
	}

	completions := utils.GetCompletions(expanded, def.Accept)
	if len(completions) == 0 {
		m.clearTabCompletion()
		return
	}
	m.updateTabState(completions, CompletionFile, path, parts[0])
}

// updateTabState starts a new completion cycle or advances the current one.
func (m *Model) updateTabState(completions []string, compType CompletionType, path, cmd string) {
	fresh := m.tabState == nil ||
		path != m.tabState.CurrentPath ||
		cmd != m.tabState.Command ||
		compType != m.tabState.Type

	if fresh {
		m.tabState = &TabState{
			Completions:   completions,
			OriginalInput: path,
			CurrentPath:   path,
			Command:       cmd,
			Type:          compType,
		}
	} else if m.tabState.HasTabbed {
		m.tabState.Completions = completions
		m.tabState.CurrentIndex = (m.tabState.CurrentIndex + 1) % len(completions)
	}

	m.tabState.HasTabbed = true
	m.updateInputWithCompletion()
	m.formatCompletionsDisplay()
}

func (m *Model) updateInputWithCompletion() {
	if m.tabState == nil || len(m.tabState.Completions) == 0 {
		return
	}
	current := m.tabState.Completions[m.tabState.CurrentIndex]

	switch m.tabState.Type {
	case CompletionCommand:
		m.input.SetValue(current)
	case CompletionFile:
		if strings.Contains(current, " ") {
			current = `"` + current + `"`
		}
		m.input.SetValue(fmt.Sprintf("%s %s", m.tabState.Command, current))
	case CompletionArgument:
		m.input.SetValue(fmt.Sprintf("%s %s", m.tabState.Command, current))
	}
	m.input.CursorEnd()
	m.tabState.Applied = m.input.Value()
}

// cycling reports whether the input still shows the last completion, so
// another Tab should move to the next one.
func (m *Model) cycling() bool {
	return m.tabState != nil && m.input.Value() == m.tabState.Applied
}

// formatCompletionsDisplay lays the completions out in columns.
func (m *Model) formatCompletionsDisplay() {
	if m.tabState == nil || len(m.tabState.Completions) == 0 {
		m.tabOutput = ""
		return
	}

	var sb strings.Builder
	switch m.tabState.Type {
	case CompletionCommand:
		sb.WriteString("\nAvailable Commands:\n")
	case CompletionFile:
		sb.WriteString("\nFiles:\n")
	default:
		sb.WriteString("\nOptions:\n")
	}

	names := make([]string, len(m.tabState.Completions))
	maxWidth := 0
	for i, c := range m.tabState.Completions {
		name := c
		if m.tabState.Type == CompletionFile {
			name = filepath.Base(c)
			if strings.HasSuffix(c, string(os.PathSeparator)) {
				name += "/"
			}
		}
		names[i] = name
		maxWidth = max(maxWidth, len(name))
	}

	itemWidth := maxWidth + 4
	columns := max(1, (m.width-4)/itemWidth)

	for i, name := range names {
		if i == m.tabState.CurrentIndex {
			sb.WriteString("> ")
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(name)

		if m.tabState.Type == CompletionCommand {
			if def := findDef(name); def != nil {
				sb.WriteString(strings.Repeat(" ", maxWidth-len(name)+2) + "- " + def.Description)
			}
			sb.WriteString("\n")
			continue
		}
		if (i+1)%columns != 0 && i < len(names)-1 {
			sb.WriteString(strings.Repeat(" ", itemWidth-len(name)-2))
		} else {
			sb.WriteString("\n")
		}
	}
	m.tabOutput = sb.String()
}

func (m *Model) clearTabCompletion() {
	m.tabState = nil
	m.tabOutput = ""
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
