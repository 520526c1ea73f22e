package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sonoviz/internal/commands"
	"sonoviz/internal/types"
)

type UIMode int

const (
	ModeFull UIMode = iota
	ModeMini
	ModeViz
)

const (
	statusInterval = 100 * time.Millisecond
	scrollStep     = 4
	// lines above the raster in vizView: status line, title, scroll banner
	rasterTop = 3
)

type (
	statusTickMsg time.Time
	healthTickMsg time.Time
	resizeMsg     struct{ gen int }
)

// Options tune the timing of the UI loop.
type Options struct {
	ResizeDebounce time.Duration
	HealthInterval time.Duration
}

type Model struct {
	input        textinput.Model
	viewport     viewport.Model
	commander    *commands.Commander
	progress     progress.Model
	spinner      spinner.Model
	ready        bool
	width        int
	height       int
	mainOutput   string
	tabOutput    string
	vizStatus    string
	history      []string
	historyPos   int
	tabState     *TabState
	searchMode   bool
	exitPrompt   bool
	loadingState *types.LoadingState
	uiMode       UIMode

	scroll         int
	resizeGen      int
	resizeDebounce time.Duration
	healthInterval time.Duration
	healthKnown    bool
	healthy        bool
	healthURL      string
	awaitHealth    bool
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		spinner.Tick,
		statusTick(),
		m.commander.CheckHealth(),
		m.healthTick(),
	)
}

const (
	inputPlaceholder  = "Enter command (type 'help' for list)"
	searchPlaceholder = "Search history..."
	welcome           = "Welcome to sonoviz! Type 'help' for commands.\nPress '?' to show keyboard shortcuts."
)

func NewModel(commander *commands.Commander, opts Options) Model {
	return Model{
		input:          newInput(),
		commander:      commander,
		progress:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		historyPos:     -1,
		mainOutput:     welcome,
		loadingState:   &types.LoadingState{},
		uiMode:         ModeFull,
		resizeDebounce: opts.ResizeDebounce,
		healthInterval: opts.HealthInterval,
	}
}

func newInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Focus()
	input.CharLimit = 256
	input.Width = 80
	return input
}

func statusTick() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

func (m Model) healthTick() tea.Cmd {
	if m.healthInterval <= 0 {
		return nil
	}
	return tea.Tick(m.healthInterval, func(t time.Time) tea.Msg {
		return healthTickMsg(t)
	})
}
