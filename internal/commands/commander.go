package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sonoviz/internal/audio"
)

// HealthChecker reports whether the analysis service is reachable.
type HealthChecker interface {
	Health(ctx context.Context) bool
	BaseURL() string
}

type Commander struct {
	processor *audio.Processor
	health    HealthChecker
	logger    *zap.Logger
	mode      Mode
}

func NewCommander(processor *audio.Processor, health HealthChecker, logger *zap.Logger) *Commander {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Commander{
		processor: processor,
		health:    health,
		logger:    logger,
		mode:      ModeNormal,
	}
}

func (c *Commander) IsInTrackMode() bool {
	return c.mode == ModeTrack
}

func (c *Commander) GetProcessor() *audio.Processor {
	return c.processor
}

func (c *Commander) GetCurrentTrack() *Track {
	if c.mode != ModeTrack {
		return nil
	}
	track := &Track{Title: c.processor.Title(), Artist: "Unknown Artist"}
	if meta := c.processor.Metadata(); meta != nil {
		track.Artist = meta.Artist
		track.Album = meta.Album
	}
	if f := c.processor.Frame(); f != nil {
		track.Duration = time.Duration(f.Spectrogram.DurationSeconds() * float64(time.Second))
	}
	return track
}

// CheckHealth returns a command that probes the analysis service.
func (c *Commander) CheckHealth() tea.Cmd {
	if c.health == nil {
		return nil
	}
	return checkHealth(c.health)
}

// Execute runs one command line. Bare paths load a file.
func (c *Commander) Execute(input string) (string, error, tea.Cmd) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, ":")

	if strings.HasPrefix(input, "/") || strings.HasPrefix(input, "./") || strings.HasPrefix(input, "~/") {
		return c.handleLoad([]string{input})
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", fmt.Errorf("empty command"), nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	c.logger.Debug("command", zap.String("cmd", cmd), zap.Strings("args", args))
	return c.handleCommand(cmd, args)
}

func expandPath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if strings.Contains(path, "://") {
		return path
	}
	return filepath.Clean(path)
}
