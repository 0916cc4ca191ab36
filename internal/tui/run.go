package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the chat and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, advisor Asker, source Source, opts ...Option) error {
	if advisor == nil {
		return fmt.Errorf("advisor is required")
	}

	p := tea.NewProgram(
		New(ctx, advisor, source, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("chat failed: %w", err)
	}
	return nil
}
