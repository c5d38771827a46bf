package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/acrelens/acrelens/internal/api"
)

// animTick schedules the next animation frame.
func animTick() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg {
		return animTickMsg{at: t}
	})
}

// pollTick schedules the next backend poll.
func pollTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollTickMsg{at: t}
	})
}

// createValuation submits a new valuation request.
func createValuation(ctx context.Context, config Config) tea.Cmd {
	return func() tea.Msg {
		v, err := config.Client.CreateValuation(ctx, config.Input)
		return valuationCreatedMsg{err: err, valuation: v}
	}
}

// fetchValuation polls the backend for the latest snapshot.
func fetchValuation(ctx context.Context, client api.ValuationAPI, id string) tea.Cmd {
	return func() tea.Msg {
		v, err := client.GetValuation(ctx, id)
		return valuationLoadedMsg{err: err, valuation: v}
	}
}
