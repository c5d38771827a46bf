package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/acrelens/acrelens/internal/api"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/service"
	"github.com/acrelens/acrelens/internal/tui/themes"
)

// Config carries everything the watch view needs.
type Config struct {
	Client       api.ValuationAPI
	Storage      service.Storage
	Theme        themes.Theme
	Input        model.PropertyInput
	ValuationID  string
	PollInterval time.Duration
	Estimate     time.Duration
}

// Run starts the interactive watch view and blocks until the run
// reaches a terminal status or the user quits. It returns the last
// valuation snapshot seen.
func Run(ctx context.Context, config Config) (*model.Valuation, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("tui: client is required")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}

	p := tea.NewProgram(NewModel(ctx, config), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running watch view: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.Err() != nil {
		return m.Valuation(), m.Err()
	}
	return m.Valuation(), nil
}
