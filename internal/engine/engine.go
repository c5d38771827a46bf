// Package engine polls the valuation API and drives the pipeline progress
// view until the valuation goes terminal.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/acrelens/acrelens/internal/api"
	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/service"
)

// ProgressSink receives derived pipeline views while a valuation runs. Update
// is called from a single goroutine and must not block; heavyweight sinks
// should hand the view off and return.
type ProgressSink interface {
	Update(view pipeline.View)
}

// SinkFunc adapts a function to the ProgressSink interface.
type SinkFunc func(view pipeline.View)

// Update implements ProgressSink.
func (f SinkFunc) Update(view pipeline.View) { f(view) }

// WatchEngine orchestrates one watched valuation: poll, derive, display,
// persist.
type WatchEngine struct {
	client  api.ValuationAPI
	storage service.Storage
	sink    ProgressSink
	config  Config
}

// Config holds configuration options for the watch engine.
type Config struct {
	// PollInterval is how often the valuation API is polled.
	PollInterval time.Duration
	// DisplayInterval is how often the sink receives a fresh view between
	// polls, driving the cosmetic animation.
	DisplayInterval time.Duration
	// Estimate is the nominal total pipeline duration for the progress bar.
	Estimate time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:    2 * time.Second,
		DisplayInterval: 500 * time.Millisecond,
		Estimate:        pipeline.DefaultEstimate,
	}
}

// New creates a new watch engine with the given dependencies. Storage may be
// nil, in which case finished valuations are not recorded locally.
func New(client api.ValuationAPI, storage service.Storage, sink ProgressSink) *WatchEngine {
	return NewWithConfig(client, storage, sink, DefaultConfig())
}

// NewWithConfig creates a new watch engine with custom configuration.
func NewWithConfig(client api.ValuationAPI, storage service.Storage, sink ProgressSink, config Config) *WatchEngine {
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}
	if config.DisplayInterval <= 0 {
		config.DisplayInterval = 500 * time.Millisecond
	}
	return &WatchEngine{
		client:  client,
		storage: storage,
		sink:    sink,
		config:  config,
	}
}

// Run submits a new valuation request and watches it to completion.
func (e *WatchEngine) Run(ctx context.Context, input model.PropertyInput) (*model.Valuation, error) {
	v, err := e.client.CreateValuation(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create valuation: %w", err)
	}

	e.persist(ctx, v)
	return e.watch(ctx, v)
}

// Watch attaches to an existing valuation and follows it to completion.
func (e *WatchEngine) Watch(ctx context.Context, id string) (*model.Valuation, error) {
	v, err := e.client.GetValuation(ctx, id)
	if err != nil {
		return nil, err
	}

	e.persist(ctx, v)
	return e.watch(ctx, v)
}

// watch runs the poll/display loop. Both tickers live exactly as long as the
// valuation is non-terminal; once it completes or fails they are stopped and
// no further sink updates happen.
func (e *WatchEngine) watch(ctx context.Context, v *model.Valuation) (*model.Valuation, error) {
	tracker := pipeline.NewTracker(pipeline.WithEstimate(e.config.Estimate))
	tracker.Observe(v.Status, v.CurrentStep)
	e.emit(tracker)

	if v.Status.Terminal() {
		return v, nil
	}

	common.LogInfo("Watching valuation", common.Fields{
		"id":            v.ID,
		"status":        v.Status.String(),
		"poll_interval": e.config.PollInterval,
	})

	pollTicker := time.NewTicker(e.config.PollInterval)
	defer pollTicker.Stop()
	displayTicker := time.NewTicker(e.config.DisplayInterval)
	defer displayTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return v, ctx.Err()

		case <-displayTicker.C:
			e.emit(tracker)

		case <-pollTicker.C:
			latest, err := e.client.GetValuation(ctx, v.ID)
			if err != nil {
				// The client already retried transient failures; a poll
				// that still fails ends the watch.
				common.LogError(err, "Valuation poll failed", common.Fields{"id": v.ID})
				return v, fmt.Errorf("failed to poll valuation %s: %w", v.ID, err)
			}
			v = latest

			common.LogDebug("Observed valuation snapshot", common.Fields{
				"id":     v.ID,
				"status": v.Status.String(),
				"step":   v.CurrentStep.String(),
			})
			tracker.Observe(v.Status, v.CurrentStep)
			e.persist(ctx, v)
			e.emit(tracker)

			if v.Status.Terminal() {
				common.LogInfo("Valuation finished", common.Fields{
					"id":      v.ID,
					"status":  v.Status.String(),
					"elapsed": tracker.View().ElapsedText,
				})
				return v, nil
			}
		}
	}
}

// emit pushes the current derived view to the sink, if any.
func (e *WatchEngine) emit(tracker *pipeline.Tracker) {
	if e.sink == nil {
		return
	}
	e.sink.Update(tracker.View())
}

// persist records the valuation snapshot locally, best effort.
func (e *WatchEngine) persist(ctx context.Context, v *model.Valuation) {
	if e.storage == nil || v == nil {
		return
	}
	if err := e.storage.SaveValuation(ctx, *v); err != nil {
		slog.Warn("Failed to record valuation locally", "id", v.ID, "error", err)
	}
}
