package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/tui/themes"
)

func trackedView(t *testing.T, status pipeline.Status, step pipeline.Stage) pipeline.View {
	t.Helper()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tracker := pipeline.NewTracker(pipeline.WithClock(func() time.Time { return now }))
	tracker.Observe(status, step)
	return tracker.View()
}

func TestPipelineViewShowsAllStages(t *testing.T) {
	m := NewPipelineModel(themes.Default)
	m.SetView(trackedView(t, pipeline.StatusProcessing, pipeline.StageAnalysis))

	out := m.View()
	for _, stage := range pipeline.Stages() {
		assert.Contains(t, out, stage.Title())
	}
}

func TestPipelineViewMarksCompletedAndPending(t *testing.T) {
	m := NewPipelineModel(themes.Default)
	m.SetView(trackedView(t, pipeline.StatusProcessing, pipeline.StageResearch))

	out := m.View()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "○")
}

func TestPipelineViewFailedShowsCross(t *testing.T) {
	m := NewPipelineModel(themes.Default)
	m.SetView(trackedView(t, pipeline.StatusFailed, pipeline.StageVector))

	out := m.View()
	assert.Contains(t, out, "✗")
}

func TestPipelineViewShowsElapsed(t *testing.T) {
	m := NewPipelineModel(themes.Default)
	m.SetView(trackedView(t, pipeline.StatusProcessing, pipeline.StageInput))

	assert.Contains(t, m.View(), "0s")
}

func TestPipelineProgressBarClampsToWidth(t *testing.T) {
	m := NewPipelineModel(themes.Default)
	m.Resize(24)
	m.SetView(trackedView(t, pipeline.StatusCompleted, pipeline.StageReport))

	// Completed runs render a fully filled bar without panicking.
	assert.Contains(t, m.View(), "█")
}
