package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/acrelens/acrelens/internal/pipeline"
)

// ProgressRenderer is a plain-terminal progress sink for watching a
// valuation without the full-screen TUI. It renders a single progress bar
// whose description follows the active pipeline stage.
type ProgressRenderer struct {
	writer    io.Writer
	bar       *progressbar.ProgressBar
	lastStage pipeline.Stage
	started   bool
	finished  bool
}

// NewProgressRenderer creates a renderer writing to w.
func NewProgressRenderer(w io.Writer) *ProgressRenderer {
	return &ProgressRenderer{writer: w, lastStage: -1}
}

// Update implements the engine's ProgressSink interface.
func (p *ProgressRenderer) Update(view pipeline.View) {
	if p.finished {
		return
	}

	if !p.started {
		p.started = true
		p.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(describe(view)),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}

	// Leave a scrollback line per stage so finished stages stay visible
	// above the bar.
	if active := view.Active(); active != nil && active.Stage != p.lastStage {
		if p.lastStage >= 0 {
			fmt.Fprintln(p.writer, FormatSuccess(p.lastStage.Title()))
		}
		p.lastStage = active.Stage
	}
	p.bar.Describe(describe(view))

	if err := p.bar.Set(int(view.Progress * 100)); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}

	if view.Done() {
		p.finished = true
		_ = p.bar.Finish()

		switch view.Overall {
		case pipeline.StatusCompleted:
			fmt.Fprintln(p.writer, FormatSuccess("Valuation complete in "+view.ElapsedText))
		case pipeline.StatusFailed:
			fmt.Fprintln(p.writer, FormatError("Valuation failed after "+view.ElapsedText))
		}
	}
}

// describe builds the bar description from the active stage.
func describe(view pipeline.View) string {
	if active := view.Active(); active != nil {
		return fmt.Sprintf("[cyan][bold]%s[reset] %s (%s)", active.Title, active.Subtitle, view.ElapsedText)
	}
	switch view.Overall {
	case pipeline.StatusCompleted:
		return "[green]Complete[reset]"
	case pipeline.StatusFailed:
		return "[red]Failed[reset]"
	default:
		return "Waiting for the valuation pipeline to start"
	}
}
