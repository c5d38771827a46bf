package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrelens/acrelens/internal/api"
	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/tui/themes"
)

func testConfig(client api.ValuationAPI) Config {
	return Config{
		Client:       client,
		Theme:        themes.Default,
		ValuationID:  "val-1",
		PollInterval: 10 * time.Millisecond,
	}
}

func snapshot(status pipeline.Status, step pipeline.Stage) *model.Valuation {
	return &model.Valuation{
		ID:          "val-1",
		Status:      status,
		CurrentStep: step,
		Property: model.PropertyInput{
			Address: "1200 County Road 5, Story County, IA",
			Acres:   160,
		},
		CreatedAt: time.Now(),
	}
}

func TestModelStartsWatchingWithExistingID(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))
	assert.Equal(t, StateWatching, m.CurrentState())

	cmd := m.Init()
	require.NotNil(t, cmd)
}

func TestModelProcessingSnapshotKeepsPolling(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))

	next, cmd := m.Update(valuationLoadedMsg{
		valuation: snapshot(pipeline.StatusProcessing, pipeline.StageAnalysis),
	})

	got := next.(Model)
	assert.Equal(t, StateWatching, got.CurrentState())
	require.NotNil(t, cmd, "processing snapshot should schedule another poll")
	require.NotNil(t, got.Valuation())
	assert.Equal(t, "val-1", got.Valuation().ID)
}

func TestModelCompletedSnapshotQuits(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))

	next, cmd := m.Update(valuationLoadedMsg{
		valuation: snapshot(pipeline.StatusCompleted, pipeline.StageReport),
	})

	got := next.(Model)
	assert.Equal(t, StateDone, got.CurrentState())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelFailedSnapshotQuits(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))

	next, cmd := m.Update(valuationLoadedMsg{
		valuation: snapshot(pipeline.StatusFailed, pipeline.StageResearch),
	})

	got := next.(Model)
	assert.Equal(t, StateFailed, got.CurrentState())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelRetryablePollErrorKeepsPolling(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))

	next, cmd := m.Update(valuationLoadedMsg{
		err: &common.RetryableError{Err: common.ErrAPIConnection, Retryable: true},
	})

	got := next.(Model)
	assert.Equal(t, StateWatching, got.CurrentState())
	assert.NoError(t, got.Err())
	require.NotNil(t, cmd, "retryable error should schedule another poll")
}

func TestModelHardPollErrorFails(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))

	next, cmd := m.Update(valuationLoadedMsg{err: common.ErrValuationNotFound})

	got := next.(Model)
	assert.Equal(t, StateFailed, got.CurrentState())
	assert.ErrorIs(t, got.Err(), common.ErrValuationNotFound)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelCreatedMsgMovesToWatching(t *testing.T) {
	config := testConfig(api.NewMockClient())
	config.ValuationID = ""
	config.Input = model.PropertyInput{Address: "somewhere", Acres: 80}

	m := NewModel(context.Background(), config)
	assert.Equal(t, StateSubmitting, m.CurrentState())

	next, cmd := m.Update(valuationCreatedMsg{
		valuation: snapshot(pipeline.StatusProcessing, pipeline.StageInput),
	})

	got := next.(Model)
	assert.Equal(t, StateWatching, got.CurrentState())
	require.NotNil(t, cmd)
}

func TestModelCreateFailureQuits(t *testing.T) {
	config := testConfig(api.NewMockClient())
	config.ValuationID = ""

	m := NewModel(context.Background(), config)
	next, cmd := m.Update(valuationCreatedMsg{err: common.ErrAPIAuth})

	got := next.(Model)
	assert.Equal(t, StateFailed, got.CurrentState())
	assert.ErrorIs(t, got.Err(), common.ErrAPIAuth)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelAnimTickStopsAfterTerminal(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))

	next, _ := m.Update(valuationLoadedMsg{
		valuation: snapshot(pipeline.StatusCompleted, pipeline.StageReport),
	})
	done := next.(Model)

	_, cmd := done.Update(animTickMsg{at: time.Now()})
	assert.Nil(t, cmd, "animation should stop rescheduling once terminal")
}

func TestModelQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := NewModel(context.Background(), testConfig(api.NewMockClient()))

			msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			switch key {
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}

			_, cmd := m.Update(msg)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestModelViewShowsStages(t *testing.T) {
	m := NewModel(context.Background(), testConfig(api.NewMockClient()))

	next, _ := m.Update(valuationLoadedMsg{
		valuation: snapshot(pipeline.StatusProcessing, pipeline.StageVector),
	})
	got := next.(Model)

	view := got.View()
	assert.Contains(t, view, "Property Details")
	assert.Contains(t, view, "Comparable Lookup")
	assert.Contains(t, view, "Valuation Report")
}
