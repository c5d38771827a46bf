package tui

import (
	"time"

	"github.com/acrelens/acrelens/internal/model"
)

// valuationLoadedMsg carries the result of a poll against the backend.
type valuationLoadedMsg struct {
	err       error
	valuation *model.Valuation
}

// valuationCreatedMsg carries the result of submitting a new request.
type valuationCreatedMsg struct {
	err       error
	valuation *model.Valuation
}

// animTickMsg drives the phrase, dot and clock animations.
type animTickMsg struct {
	at time.Time
}

// pollTickMsg triggers the next backend poll.
type pollTickMsg struct {
	at time.Time
}
