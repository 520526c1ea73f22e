package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sonoviz/internal/types"
)

func (c *Commander) handleHealth() (string, error, tea.Cmd) {
	if c.health == nil {
		return "", fmt.Errorf("no analysis service configured"), nil
	}
	return fmt.Sprintf("Checking %s...", c.health.BaseURL()), nil, checkHealth(c.health)
}

func checkHealth(h HealthChecker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return types.HealthMsg{URL: h.BaseURL(), OK: h.Health(ctx)}
	}
}
