// Package tui provides the interactive terminal view that watches a
// valuation run through the pipeline.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/tui/components"
	"github.com/acrelens/acrelens/internal/tui/themes"
)

// State represents the lifecycle of the watch view.
type State int

const (
	StateSubmitting State = iota
	StateWatching
	StateDone
	StateFailed
)

const animInterval = 500 * time.Millisecond

// Model is the top-level bubbletea model for the watch view.
type Model struct {
	ctx       context.Context
	config    Config
	theme     themes.Theme
	tracker   *pipeline.Tracker
	pipe      components.PipelineModel
	valuation *model.Valuation
	err       error
	state     State
	width     int
	height    int
	quitting  bool
}

// NewModel creates the watch model. When config.ValuationID is set the
// model attaches to an existing run, otherwise it submits config.Input
// first.
func NewModel(ctx context.Context, config Config) Model {
	theme := config.Theme
	opts := []pipeline.TrackerOption{}
	if config.Estimate > 0 {
		opts = append(opts, pipeline.WithEstimate(config.Estimate))
	}

	state := StateSubmitting
	if config.ValuationID != "" {
		state = StateWatching
	}

	return Model{
		ctx:     ctx,
		config:  config,
		theme:   theme,
		tracker: pipeline.NewTracker(opts...),
		pipe:    components.NewPipelineModel(theme),
		state:   state,
		width:   80,
		height:  24,
	}
}

// Init kicks off either the create or the first poll, plus the
// animation clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.pipe.Init(), animTick()}
	if m.state == StateSubmitting {
		cmds = append(cmds, createValuation(m.ctx, m.config))
	} else {
		cmds = append(cmds, fetchValuation(m.ctx, m.config.Client, m.config.ValuationID))
	}
	return tea.Batch(cmds...)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pipe.Resize(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case valuationCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = StateFailed
			return m, tea.Quit
		}
		m.valuation = msg.valuation
		m.state = StateWatching
		m.tracker.Observe(msg.valuation.Status, msg.valuation.CurrentStep)
		m.pipe.SetView(m.tracker.View())
		return m, pollTick(m.config.PollInterval)

	case valuationLoadedMsg:
		return m.handleLoaded(msg)

	case pollTickMsg:
		if m.state != StateWatching {
			return m, nil
		}
		id := m.config.ValuationID
		if m.valuation != nil {
			id = m.valuation.ID
		}
		return m, fetchValuation(m.ctx, m.config.Client, id)

	case animTickMsg:
		m.pipe.SetView(m.tracker.View())
		if m.state == StateWatching || m.state == StateSubmitting {
			return m, animTick()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pipe, cmd = m.pipe.Update(msg)
	return m, cmd
}

// handleLoaded folds a poll result into the tracker and decides whether
// the run is over.
func (m Model) handleLoaded(msg valuationLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Transient failures keep polling, hard failures end the run.
		if common.IsRetryable(msg.err) {
			return m, pollTick(m.config.PollInterval)
		}
		m.err = msg.err
		m.state = StateFailed
		return m, tea.Quit
	}

	m.valuation = msg.valuation
	m.tracker.Observe(msg.valuation.Status, msg.valuation.CurrentStep)
	m.pipe.SetView(m.tracker.View())

	m.persist(msg.valuation)

	switch m.tracker.Status() {
	case pipeline.StatusCompleted:
		m.state = StateDone
		return m, tea.Quit
	case pipeline.StatusFailed:
		m.state = StateFailed
		return m, tea.Quit
	}
	return m, pollTick(m.config.PollInterval)
}

// persist writes the latest snapshot to local history. Failures are
// not fatal to the watch.
func (m Model) persist(v *model.Valuation) {
	if m.config.Storage == nil || v == nil {
		return
	}
	_ = m.config.Storage.SaveValuation(m.ctx, *v)
}

// View renders the full screen.
func (m Model) View() string {
	if m.quitting && m.state != StateDone && m.state != StateFailed {
		return ""
	}

	var b strings.Builder

	title := "🌾 AcreLens Valuation"
	if m.valuation != nil && m.valuation.Property.Address != "" {
		title = fmt.Sprintf("🌾 %s", m.valuation.Property.Address)
	}
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n\n")

	switch m.state {
	case StateSubmitting:
		b.WriteString(m.theme.Subtitle.Render("Submitting valuation request..."))
		b.WriteString("\n")
	case StateFailed:
		b.WriteString(m.pipe.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(m.theme.StatusError.Render("Error: " + m.err.Error()))
		} else {
			b.WriteString(m.theme.StatusError.Render("Valuation failed."))
		}
		b.WriteString("\n")
	case StateDone:
		b.WriteString(m.pipe.View())
		b.WriteString("\n")
		b.WriteString(m.theme.StatusSuccess.Render("Valuation complete."))
		b.WriteString("\n")
	default:
		b.WriteString(m.pipe.View())
		b.WriteString("\n")
		b.WriteString(m.theme.Subtitle.Render("Press q to stop watching."))
		b.WriteString("\n")
	}

	return m.theme.Box.Width(min(m.width-2, 78)).Render(b.String())
}

// Valuation returns the last snapshot seen, for the caller to render a
// final summary once the program exits.
func (m Model) Valuation() *model.Valuation { return m.valuation }

// Err returns the terminal error, if any.
func (m Model) Err() error { return m.err }

// CurrentState returns the lifecycle state the model ended in.
func (m Model) CurrentState() State { return m.state }
