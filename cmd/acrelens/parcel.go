package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acrelens/acrelens/internal/cli"
)

func parcelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parcel <parcel-id>",
		Short: "Look up a parcel by ID",
		Long: `Fetch parcel details from the backend. Useful for checking acreage
and soil rating before requesting a valuation.`,
		Args: cobra.ExactArgs(1),
		RunE: runParcel,
	}
}

func runParcel(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	parcel, err := client.GetParcel(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching parcel %s: %w", args[0], err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Address:  %s\n", parcel.Address)
	fmt.Fprintf(&b, "County:   %s, %s\n", parcel.County, parcel.State)
	fmt.Fprintf(&b, "Acres:    %s\n", cli.FormatAcres(parcel.Acres))
	fmt.Fprintf(&b, "CSR2:     %.1f", parcel.CSR2)

	fmt.Println(cli.RenderBox(fmt.Sprintf("Parcel %s", parcel.ID), b.String()))
	return nil
}
