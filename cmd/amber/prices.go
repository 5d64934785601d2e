package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/watthour/amber-tools/internal/summary"
)

func pricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices [start-date] [end-date]",
		Short: "Print historical spot prices as a CSV report",
		Long: `Print the settled per-kWh price of every interval as a CSV report on
stdout, one row per date and channel type and one column per NEM time of
day.

Dates are specified as YYYY-MM-DD. The start date defaults to one calendar
month ago and the end date defaults to yesterday.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runPrices,
	}
}

func runPrices(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	start, end, err := parseDateRange(args, oneMonthAgo())
	if err != nil {
		return err
	}

	client, err := newAmberClient()
	if err != nil {
		return err
	}
	site, err := resolveSite(ctx, client)
	if err != nil {
		return err
	}

	intervals, err := client.FetchPrices(ctx, site.ID, start, end)
	if err != nil {
		return err
	}

	return summary.WritePricesCSV(os.Stdout, intervals)
}

func oneMonthAgo() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
}
