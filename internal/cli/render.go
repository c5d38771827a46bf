package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/acrelens/acrelens/internal/model"
	"github.com/acrelens/acrelens/internal/pipeline"
)

// FormatMoney renders a dollar amount with thousands separators.
func FormatMoney(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := cents / 100
	frac := cents % 100

	sign := ""
	if amount < 0 && cents > 0 {
		sign = "-"
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("%s$%s.%02d", sign, strings.Join(groups, ","), frac)
}

// FormatAcres renders an acreage, dropping a trailing zero fraction.
func FormatAcres(acres float64) string {
	if acres == float64(int64(acres)) {
		return fmt.Sprintf("%d ac", int64(acres))
	}
	return fmt.Sprintf("%.1f ac", acres)
}

// RenderValuationSummary renders a finished valuation as a titled box.
func RenderValuationSummary(v *model.Valuation) string {
	location := v.Property.Address
	if location == "" {
		location = "Parcel " + v.Property.ParcelID
	}
	if v.Property.County != "" {
		location += fmt.Sprintf(" (%s County, %s)", v.Property.County, v.Property.State)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", location)
	fmt.Fprintf(&b, "%s", FormatAcres(v.Property.Acres))
	if v.Property.CSR2 > 0 {
		fmt.Fprintf(&b, ", CSR2 %.1f", v.Property.CSR2)
	}
	b.WriteString("\n\n")

	switch v.Status {
	case pipeline.StatusCompleted:
		fmt.Fprintf(&b, "Estimated value: %s\n", FormatMoney(v.EstimatedValue))
		fmt.Fprintf(&b, "Per acre:        %s\n", FormatMoney(v.PerAcreValue))
		fmt.Fprintf(&b, "Confidence:      %.0f%%\n", v.Confidence*100)
		if v.ReportSummary != "" {
			fmt.Fprintf(&b, "\n%s\n", v.ReportSummary)
		}
	case pipeline.StatusFailed:
		b.WriteString("The valuation pipeline failed. Re-run with --retry to issue a new request.\n")
	default:
		fmt.Fprintf(&b, "Status: %s (%s)\n", v.Status, v.CurrentStep.Title())
	}

	return RenderBox("Valuation "+v.ID, strings.TrimRight(b.String(), "\n"))
}

// RenderValuationTable renders valuation history rows for the list command.
func RenderValuationTable(valuations []model.Valuation) string {
	if len(valuations) == 0 {
		return SubtleStyle.Render("No valuations recorded yet. Run 'acrelens value' to create one.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-14s %-28s %-10s %-12s %-14s %s",
		"ID", "LOCATION", "ACRES", "STATUS", "VALUE", "CREATED")))
	b.WriteString("\n")

	for _, v := range valuations {
		location := v.Property.Address
		if location == "" {
			location = v.Property.ParcelID
		}
		if len(location) > 26 {
			location = location[:23] + "..."
		}

		value := "-"
		if v.Status == pipeline.StatusCompleted {
			value = FormatMoney(v.EstimatedValue)
		}

		row := fmt.Sprintf("%-14s %-28s %-10s %-12s %-14s %s",
			v.ID, location, FormatAcres(v.Property.Acres),
			v.Status.String(), value, v.CreatedAt.Local().Format("2006-01-02 15:04"))

		switch v.Status {
		case pipeline.StatusFailed:
			b.WriteString(ErrorStyle.Render(row))
		case pipeline.StatusProcessing:
			b.WriteString(InfoStyle.Render(row))
		default:
			b.WriteString(TableCellStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRuntime renders how long a valuation has been running.
func FormatRuntime(v *model.Valuation, now time.Time) string {
	return pipeline.FormatElapsed(v.Duration(now))
}
