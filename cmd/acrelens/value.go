package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acrelens/acrelens/internal/api"
	"github.com/acrelens/acrelens/internal/cli"
	"github.com/acrelens/acrelens/internal/common"
	"github.com/acrelens/acrelens/internal/engine"
	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
	"github.com/acrelens/acrelens/internal/service"
	"github.com/acrelens/acrelens/internal/tui"
	"github.com/acrelens/acrelens/internal/tui/themes"
)

func valueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Request a farmland valuation and watch it run",
		Long: `Submit a property to the valuation backend and follow the run through
the pipeline until the report is ready.

By default an interactive view is shown. Use --plain for a simple
progress bar suitable for scripts and CI.`,
		RunE: runValue,
	}

	// Flags
	cmd.Flags().StringP("address", "a", "", "Property address")
	cmd.Flags().String("county", "", "County name")
	cmd.Flags().String("state", "IA", "Two-letter state code")
	cmd.Flags().String("parcel", "", "Parcel ID (alternative to address)")
	cmd.Flags().Float64("acres", 0, "Total acres")
	cmd.Flags().Float64("csr2", 0, "CSR2 soil productivity rating (0-100)")
	cmd.Flags().Float64("tillable", 0, "Tillable acres")
	cmd.Flags().String("notes", "", "Free-form notes passed to the analysis")
	cmd.Flags().String("retry", "", "Re-submit the property from a previous valuation ID")
	cmd.Flags().Bool("plain", false, "Plain progress output instead of the interactive view")

	// Bind to viper
	_ = viper.BindPFlag("value.plain", cmd.Flags().Lookup("plain"))

	return cmd
}

func runValue(cmd *cobra.Command, _ []string) error {
	input, err := propertyInputFromFlags(cmd)
	if err != nil {
		return err
	}

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

	if retryID, _ := cmd.Flags().GetString("retry"); retryID != "" {
		if cmd.Flags().Changed("address") || cmd.Flags().Changed("parcel") {
			slog.Warn(cli.FormatWarning("Property flags are ignored with --retry"))
		}
		input, err = inputFromHistory(ctx, store, retryID)
		if err != nil {
			return err
		}
	}

	if err := input.Validate(); err != nil {
		return common.NewUserError("invalid property input", err)
	}

	slog.Info(cli.FormatTitle("Requesting farmland valuation..."))

	var final *model.Valuation
	if viper.GetBool("value.plain") {
		final, err = runPlain(client, store, func(e *engine.WatchEngine) (*model.Valuation, error) {
			return e.Run(ctx, input)
		})
	} else {
		final, err = tui.Run(ctx, tui.Config{
			Client:       client,
			Storage:      store,
			Theme:        themes.Default,
			Input:        input,
			PollInterval: pollInterval(),
			Estimate:     pipelineEstimate(),
		})
	}

	return reportOutcome(final, err)
}

// propertyInputFromFlags assembles the property from the command line.
func propertyInputFromFlags(cmd *cobra.Command) (model.PropertyInput, error) {
	var input model.PropertyInput
	var err error

	if input.Address, err = cmd.Flags().GetString("address"); err != nil {
		return input, err
	}
	input.County, _ = cmd.Flags().GetString("county")
	input.State, _ = cmd.Flags().GetString("state")
	input.ParcelID, _ = cmd.Flags().GetString("parcel")
	input.Acres, _ = cmd.Flags().GetFloat64("acres")
	input.CSR2, _ = cmd.Flags().GetFloat64("csr2")
	input.Tillable, _ = cmd.Flags().GetFloat64("tillable")
	input.Notes, _ = cmd.Flags().GetString("notes")

	return input, nil
}

// inputFromHistory recovers the property from an earlier run so it can
// be submitted again as a fresh request.
func inputFromHistory(ctx context.Context, store service.Storage, id string) (model.PropertyInput, error) {
	prev, err := store.GetValuation(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.PropertyInput{}, common.NewUserError(
				fmt.Sprintf("no valuation %q in local history", id), err)
		}
		return model.PropertyInput{}, fmt.Errorf("loading valuation %s: %w", id, err)
	}
	slog.Info("Re-submitting property from previous run", "id", id)
	return prev.Property, nil
}

// runPlain drives the watch engine with the line-oriented progress bar.
func runPlain(client api.ValuationAPI, store service.Storage, run func(*engine.WatchEngine) (*model.Valuation, error)) (*model.Valuation, error) {
	renderer := cli.NewProgressRenderer(os.Stdout)
	config := engine.DefaultConfig()
	config.PollInterval = pollInterval()
	config.Estimate = pipelineEstimate()

	e := engine.NewWithConfig(client, store, renderer, config)
	return run(e)
}

// reportOutcome prints the final summary and converts a failed run into
// a command error.
func reportOutcome(v *model.Valuation, err error) error {
	if v != nil {
		fmt.Println(cli.RenderValuationSummary(v))
	}
	if err != nil {
		return err
	}
	if v != nil && v.Status == pipeline.StatusFailed {
		return common.NewUserError("valuation failed", common.ErrValuationFailed)
	}
	return nil
}
