package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acrelens/acrelens/internal/engine"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/tui"
	"github.com/acrelens/acrelens/internal/tui/themes"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <valuation-id>",
		Short: "Attach to an in-flight valuation",
		Long: `Attach to a valuation that is already running and follow it through
the pipeline. Attaching to a finished run just shows its final state.`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().Bool("plain", false, "Plain progress output instead of the interactive view")
	_ = viper.BindPFlag("watch.plain", cmd.Flags().Lookup("plain"))

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	id := args[0]

	client, err := newAPIClient()
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	store, err := openStorage()
	if err != nil {
		return fmt.Errorf("opening local history: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close storage", "error", closeErr)
		}
	}()

	ctx := cmd.Context()

	var final *model.Valuation
	if viper.GetBool("watch.plain") {
		final, err = runPlain(client, store, func(e *engine.WatchEngine) (*model.Valuation, error) {
			return e.Watch(ctx, id)
		})
	} else {
		final, err = tui.Run(ctx, tui.Config{
			Client:       client,
			Storage:      store,
			Theme:        themes.Default,
			ValuationID:  id,
			PollInterval: pollInterval(),
			Estimate:     pipelineEstimate(),
		})
	}

	return reportOutcome(final, err)
}
