package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"go.uber.org/zap"

	"sonoviz/internal/audio"
	"sonoviz/internal/commands"
	"sonoviz/internal/config"
	"sonoviz/internal/logging"
	"sonoviz/internal/types"
	"sonoviz/internal/ui"
	"sonoviz/pkg/api"
	"sonoviz/pkg/export"
)

type App struct {
	cfg       config.Config
	logger    *zap.Logger
	processor *audio.Processor
	commander *commands.Commander
	ui        *ui.TUI
}

func New(cfg config.Config) (*App, error) {
	logger, path, err := logging.New(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.Info("starting sonoviz", zap.String("log", path), zap.String("api", cfg.APIURL))
	return newApp(cfg, logger), nil
}

func newApp(cfg config.Config, logger *zap.Logger) *App {
	client := api.NewClient(cfg.APIURL, cfg.APITimeout, logger.Named("api"))

	var uploads export.PutObjectAPI
	s3Client, err := export.NewS3Client(context.Background(), export.S3Config{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		logger.Warn("s3 exports disabled", zap.Error(err))
	} else {
		uploads = s3Client
	}

	processor := audio.NewProcessor(client, export.NewExporter(uploads, logger.Named("export")), audio.Options{
		Debounce:  cfg.Debounce,
		Workers:   cfg.RenderWorkers,
		ExportDir: cfg.ExportDir,
		Logger:    logger.Named("processor"),
	})
	commander := commands.NewCommander(processor, client, logger.Named("commands"))

	return &App{
		cfg:       cfg,
		logger:    logger,
		processor: processor,
		commander: commander,
		ui: ui.New(commander, ui.Options{
			ResizeDebounce: cfg.ResizeDebounce,
			HealthInterval: cfg.HealthInterval,
		}),
	}
}

// Run starts the TUI, or executes commands from stdin line by line when it
// is not a terminal.
func (a *App) Run() error {
	defer a.logger.Sync()
	defer a.processor.Close()

	if !term.IsTerminal(os.Stdin.Fd()) {
		return a.RunScript(os.Stdin, os.Stdout)
	}
	return a.ui.Start()
}

// RunScript executes one command per line, waiting for each to settle
// before the next. Blank lines and lines starting with # are skipped.
func (a *App) RunScript(r io.Reader, w io.Writer) error {
	var failed int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		out, err, cmd := a.commander.Execute(line)
		if err != nil {
			failed++
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
		if cmd != nil {
			if quit := a.report(cmd(), w, &failed); quit {
				break
			}
		}
		if err := a.settle(w); err != nil {
			failed++
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d command(s) failed", failed)
	}
	return nil
}

func (a *App) report(msg tea.Msg, w io.Writer, failed *int) (quit bool) {
	switch msg := msg.(type) {
	case types.ExportDoneMsg:
		if msg.Err != nil {
			*failed++
			fmt.Fprintf(w, "Error: %s export failed: %v\n", msg.Kind, msg.Err)
		} else {
			fmt.Fprintf(w, "Exported %s to %s\n", msg.Kind, msg.Dest)
		}
	case types.HealthMsg:
		if msg.OK {
			fmt.Fprintf(w, "Analysis service at %s is healthy\n", msg.URL)
		} else {
			fmt.Fprintf(w, "Analysis service at %s is unavailable\n", msg.URL)
		}
	case tea.QuitMsg:
		return true
	}
	return false
}

// settle waits for loading, analysis and rendering to finish and reports
// a failure left in the processor status.
func (a *App) settle(w io.Writer) error {
	deadline := time.Now().Add(a.cfg.APITimeout + a.cfg.Debounce + 30*time.Second)
	before := a.processor.Status()
	for !a.processor.Idle() {
		if time.Now().After(deadline) {
			return errors.New("timed out waiting for the spectrogram")
		}
		time.Sleep(20 * time.Millisecond)
	}
	st := a.processor.Status()
	if st.Err != nil && st.Err != before.Err {
		return errors.New(st.Message)
	}
	return nil
}
