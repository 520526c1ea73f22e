package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sonoviz/internal/types"
	"sonoviz/pkg/export"
)

const exportTimeout = 2 * time.Minute

// handleExport parses "export <png|json|parquet> [dest] [--axes] [--display]"
// and runs the export in the background.
func (c *Commander) handleExport(args []string) (string, error, tea.Cmd) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: export <png|json|parquet> [dest] [--axes] [--display]"), nil
	}
	kind, err := export.ParseKind(args[0])
	if err != nil {
		return "", err, nil
	}

	var dest string
	var opts export.PNGOptions
	for _, a := range args[1:] {
		switch a {
		case "--axes":
			opts.Axes = true
		case "--display":
			if f := c.processor.Frame(); f != nil {
				opts.Width = f.Display.Width
			}
		default:
			if strings.HasPrefix(a, "--") {
				return "", fmt.Errorf("unknown export flag %s", a), nil
			}
			dest = expandPath(a)
		}
	}
	if kind != export.KindPNG && (opts.Axes || opts.Width > 0) {
		return "", fmt.Errorf("--axes and --display only apply to png exports"), nil
	}
	if c.processor.Frame() == nil {
		return "", fmt.Errorf("no rendered spectrogram to export yet"), nil
	}

	p, logger := c.processor, c.logger
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		written, err := p.Export(ctx, kind, dest, opts)
		if err != nil {
			logger.Warn("export command failed", zap.String("kind", string(kind)), zap.Error(err))
		}
		return types.ExportDoneMsg{Kind: string(kind), Dest: written, Err: err}
	}
	return fmt.Sprintf("Exporting %s...", kind), nil, run
}
