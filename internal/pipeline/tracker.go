package pipeline

import (
	"fmt"
	"time"
)

// DefaultEstimate is the nominal total pipeline duration used to size the
// progress bar. It is a display heuristic, not a promise from the backend,
// which is why it is configurable.
const DefaultEstimate = 45 * time.Second

// progressCeiling caps the derived progress fraction so the bar never
// implies completion before the resource itself reports it.
const progressCeiling = 0.95

// Progress returns the coarse progress fraction for the elapsed runtime
// against the nominal total-duration estimate, clamped below 1.0.
func Progress(elapsed, estimate time.Duration) float64 {
	if estimate <= 0 {
		estimate = DefaultEstimate
	}
	if elapsed <= 0 {
		return 0
	}
	frac := float64(elapsed) / float64(estimate)
	if frac > progressCeiling {
		return progressCeiling
	}
	return frac
}

// FormatElapsed renders an elapsed duration as "Xs" under a minute and
// "Xm Ys" from a minute up.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// View is the full derived display state for one tracked valuation. It is a
// pure function of the last observed (status, step) pair and the clock;
// rendering layers hold no further state.
type View struct {
	ElapsedText string
	Stages      [StageCount]StageView
	Elapsed     time.Duration
	Progress    float64
	Current     Stage
	Overall     Status
}

// Done reports whether the tracked valuation reached a terminal status.
func (v View) Done() bool {
	return v.Overall.Terminal()
}

// Active returns the view of the currently processing stage, or nil when
// nothing is running.
func (v View) Active() *StageView {
	for i := range v.Stages {
		if v.Stages[i].Status == StageProcessing {
			return &v.Stages[i]
		}
	}
	return nil
}

// Tracker turns polled valuation snapshots into the five-stage progress
// view. All timing is cosmetic: the tracker never schedules anything itself,
// it only reads the clock when asked for a view, so callers own timer
// lifecycles and tests can drive it with a fake clock.
type Tracker struct {
	now          func() time.Time
	mounted      time.Time
	stageStarted time.Time
	frozen       time.Duration
	estimate     time.Duration
	status       Status
	current      Stage
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithEstimate overrides the nominal total-duration estimate used for the
// progress fraction.
func WithEstimate(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.estimate = d
		}
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates a tracker mounted at the current clock time, with the
// valuation assumed pending on its first stage until observed otherwise.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		now:      time.Now,
		estimate: DefaultEstimate,
		status:   StatusPending,
		current:  StageInput,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.mounted = t.now()
	t.stageStarted = t.mounted
	return t
}

// Observe feeds one polled snapshot into the tracker. Re-observing an
// unchanged pair is a no-op, so polling faster than the backend moves does
// not disturb the animation state.
func (t *Tracker) Observe(status Status, current Stage) {
	if t.status.Terminal() {
		return
	}
	if current != t.current {
		t.current = current
		t.stageStarted = t.now()
	}
	if status != t.status {
		prev := t.status
		t.status = status
		// A run leaving the queue starts its stage clock fresh even when
		// the reported step never moved off the first stage.
		if status == StatusProcessing && prev != StatusProcessing {
			t.stageStarted = t.now()
		}
		if status.Terminal() {
			t.frozen = t.now().Sub(t.mounted)
		}
	}
}

// ObserveRaw parses and feeds raw API status and step strings, coercing
// unknown values to their safe defaults.
func (t *Tracker) ObserveRaw(status, currentStep string) {
	t.Observe(ParseStatus(status), ParseStage(currentStep))
}

// Status returns the last observed overall status.
func (t *Tracker) Status() Status { return t.status }

// View derives the current display state. The elapsed clock freezes at the
// moment a terminal status was observed.
func (t *Tracker) View() View {
	elapsed := t.now().Sub(t.mounted)
	if t.status.Terminal() {
		elapsed = t.frozen
	}

	v := View{
		Overall:     t.status,
		Current:     t.current,
		Elapsed:     elapsed,
		ElapsedText: FormatElapsed(elapsed),
		Stages:      DeriveStages(t.current, t.status),
	}
	switch t.status {
	case StatusCompleted:
		v.Progress = 1
	case StatusProcessing, StatusFailed:
		// Failed runs hold the bar where the frozen clock left it.
		v.Progress = Progress(elapsed, t.estimate)
	}

	sinceStage := t.now().Sub(t.stageStarted)
	for i := range v.Stages {
		if v.Stages[i].Status == StageProcessing {
			v.Stages[i].Subtitle = Phrase(v.Stages[i].Stage, sinceStage) + Dots(elapsed)
		} else {
			v.Stages[i].Subtitle = StaticSubtitle(v.Stages[i].Status)
		}
	}
	return v
}
