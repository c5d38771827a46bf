package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/acrelens/acrelens/internal/cli"
	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/model"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <valuation-id>",
		Short: "Show a single valuation report",
		Long: `Show the full report for one valuation. Local history is checked
first; use --remote to fetch the latest snapshot from the backend.`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().Bool("remote", false, "Fetch from the backend instead of local history")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]
	remote, _ := cmd.Flags().GetBool("remote")
	ctx := cmd.Context()

	if remote {
		client, err := newAPIClient()
		if err != nil {
			return fmt.Errorf("creating API client: %w", err)
		}
		v, err := client.GetValuation(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching valuation %s: %w", id, err)
		}
		printValuation(v)
		return nil
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

	v, err := store.GetValuation(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError(
				fmt.Sprintf("no valuation %q in local history (try --remote)", id), err)
		}
		return fmt.Errorf("loading valuation %s: %w", id, err)
	}

	printValuation(v)
	return nil
}

// printValuation renders the summary box plus the run's wall-clock time,
// live for in-flight valuations and final for finished ones.
func printValuation(v *model.Valuation) {
	fmt.Println(cli.RenderValuationSummary(v))
	fmt.Println(cli.FormatInfo("Runtime: " + cli.FormatRuntime(v, time.Now())))
}
