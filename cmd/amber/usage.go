package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/watthour/amber-tools/internal/summary"
)

func usageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage [start-date] [end-date]",
		Short: "Print daily usage summaries as a CSV report",
		Long: `Print daily summaries of metered usage per channel as a CSV report on
stdout, one column per date.

Dates are specified as YYYY-MM-DD. The start date defaults to 12 full
calendar months ago and the end date defaults to yesterday.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runUsage,
	}

	cmd.Flags().BoolP("include-cost", "c", false, "also report the daily cost of usage in each channel")
	_ = viper.BindPFlag("usage.include_cost", cmd.Flags().Lookup("include-cost"))

	return cmd
}

func runUsage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	start, end, err := parseDateRange(args, twelveMonthsAgo())
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

	records, err := fetchUsageCached(ctx, client, site.ID, start, end)
	if err != nil {
		return err
	}

	summaries := summary.SummarizeUsage(records)
	return summary.WriteUsageCSV(os.Stdout, summaries, viper.GetBool("usage.include_cost"))
}

// parseDateRange parses optional [start-date] [end-date] arguments with the
// given default start. The end date defaults to yesterday.
func parseDateRange(args []string, defaultStart time.Time) (start, end time.Time, err error) {
	start = defaultStart
	end = yesterday()
	if len(args) > 0 {
		if start, err = parseDate(args[0]); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if len(args) > 1 {
		if end, err = parseDate(args[1]); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("the end date cannot be before the start date")
	}
	return start, end, nil
}

// twelveMonthsAgo returns the first day of the month 12 full calendar months
// before the current one.
func twelveMonthsAgo() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year()-1, now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
