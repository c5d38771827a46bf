package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/acrelens/acrelens/internal/cli"
	"github.com/acrelens/acrelens/internal/service"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past valuations from local history",
		RunE:  runList,
	}

	cmd.Flags().String("county", "", "Only show valuations in this county")
	cmd.Flags().Int("limit", 20, "Maximum number of rows")
	cmd.Flags().Int("days", 0, "Only show valuations from the last N days")
	cmd.Flags().Bool("remote", false, "List from the backend instead of local history")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	county, _ := cmd.Flags().GetString("county")
	limit, _ := cmd.Flags().GetInt("limit")
	days, _ := cmd.Flags().GetInt("days")
	remote, _ := cmd.Flags().GetBool("remote")

	ctx := cmd.Context()

	if remote {
		client, err := newAPIClient()
		if err != nil {
			return fmt.Errorf("creating API client: %w", err)
		}
		valuations, err := client.ListValuations(ctx, limit)
		if err != nil {
			return fmt.Errorf("listing valuations: %w", err)
		}
		fmt.Println(cli.RenderValuationTable(valuations))
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

	filter := service.ValuationFilter{
		County: county,
		Limit:  limit,
	}
	if days > 0 {
		since := time.Now().AddDate(0, 0, -days)
		filter.Since = &since
	}

	valuations, err := store.ListValuations(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing valuations: %w", err)
	}

	if len(valuations) == 0 {
		fmt.Println(cli.FormatInfo("No valuations yet. Run 'acrelens value' to request one."))
		return nil
	}

	fmt.Println(cli.RenderValuationTable(valuations))
	return nil
}
