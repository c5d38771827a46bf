// Package components contains the TUI widgets for the valuation watch view.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/tui/themes"
)

// PipelineModel renders the five-stage valuation pipeline.
type PipelineModel struct {
	theme   themes.Theme
	view    pipeline.View
	spinner spinner.Model
	width   int
}

// NewPipelineModel creates the pipeline view component.
func NewPipelineModel(theme themes.Theme) PipelineModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return PipelineModel{
		theme:   theme,
		spinner: s,
		width:   80,
	}
}

// Init starts the spinner.
func (m PipelineModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetView replaces the derived pipeline view being rendered.
func (m *PipelineModel) SetView(view pipeline.View) {
	m.view = view
}

// Resize adjusts the component width.
func (m *PipelineModel) Resize(width int) {
	if width > 0 {
		m.width = width
	}
}

// Update handles spinner ticks.
func (m PipelineModel) Update(msg tea.Msg) (PipelineModel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		// Once the pipeline is terminal there is nothing left to animate.
		if m.view.Done() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the stage list, progress bar and elapsed time.
func (m PipelineModel) View() string {
	var b strings.Builder

	for _, sv := range m.view.Stages {
		b.WriteString(m.renderStage(sv))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	return b.String()
}

// renderStage renders one stage row with an icon, title and subtitle.
func (m PipelineModel) renderStage(sv pipeline.StageView) string {
	var icon, title, subtitle string

	switch sv.Status {
	case pipeline.StageCompleted:
		icon = m.theme.StatusSuccess.Render("✓")
		title = m.theme.StatusSuccess.Render(sv.Title)
		subtitle = m.theme.Subtitle.Render(sv.Subtitle)
	case pipeline.StageProcessing:
		icon = m.spinner.View()
		title = m.theme.StatusActive.Render(sv.Title)
		subtitle = m.theme.StatusActive.Render(sv.Subtitle)
	case pipeline.StageFailed:
		icon = m.theme.StatusError.Render("✗")
		title = m.theme.StatusError.Render(sv.Title)
		subtitle = m.theme.StatusError.Render(sv.Subtitle)
	default:
		icon = m.theme.StatusPending.Render("○")
		title = m.theme.StatusPending.Render(sv.Title)
		subtitle = m.theme.StatusPending.Render(sv.Subtitle)
	}

	return fmt.Sprintf("%s %-40s %s", icon, title, subtitle)
}

// renderProgress renders the coarse progress bar with the elapsed clock.
func (m PipelineModel) renderProgress() string {
	barWidth := m.width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}

	filled := int(m.view.Progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := m.theme.ProgressFull.Render(strings.Repeat("█", filled)) +
		m.theme.ProgressEmpty.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%s %3.0f%%  %s", bar, m.view.Progress*100,
		m.theme.Subtitle.Render(m.view.ElapsedText))
}
