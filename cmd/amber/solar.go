package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/summary"
)

func solarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solar [start-month] [end-month]",
		Short: "Print monthly solar export summaries as a CSV report",
		Long: `Print monthly summaries of solar export from the feed-in channel as a CSV
report on stdout, one column per month.

Months are specified as YYYY-MM. The start month defaults to 12 months ago
and the end month defaults to the last full calendar month.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runSolar,
	}
}

func runSolar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	endMonth := model.LastYearMonth(time.Now())
	startMonth := endMonth.MinusYears(1)
	var err error
	if len(args) > 0 {
		if startMonth, err = model.ParseYearMonth(args[0]); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		if endMonth, err = model.ParseYearMonth(args[1]); err != nil {
			return err
		}
	}
	if endMonth.Before(startMonth) {
		return fmt.Errorf("the end month cannot be before the start month")
	}

	client, err := newAmberClient()
	if err != nil {
		return err
	}
	site, err := resolveSite(ctx, client)
	if err != nil {
		return err
	}

	records, err := fetchUsageCached(ctx, client, site.ID, startMonth.FirstDate(), endMonth.LastDate())
	if err != nil {
		return err
	}

	daily := summary.SummarizeSolarDaily(records)
	monthly := summary.SummarizeSolarMonthly(daily)
	return summary.WriteSolarCSV(os.Stdout, monthly)
}
