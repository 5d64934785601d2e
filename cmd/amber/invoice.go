package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/watthour/amber-tools/internal/billing"
	"github.com/watthour/amber-tools/internal/cli"
	"github.com/watthour/amber-tools/internal/config"
	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/tariff"
)

func invoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoice <account-config-file> [month ...]",
		Short: "Estimate monthly invoices under a configured tariff",
		Long: `Estimate what a monthly Amber Electric invoice would cost under the tariff
described by the given account configuration file.

Months are specified as YYYY-MM and default to the last full calendar month.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInvoice,
	}
}

func runInvoice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	months, err := parseMonths(args[1:])
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

	feedInActive := site.HasFeedIn()
	slog.Info("Loading config", "feed_in_active", feedInActive)

	loaded, err := config.LoadAccount(config.ExpandPath(args[0]), feedInActive)
	if err != nil {
		return err
	}

	assembler, err := billing.NewAssembler(loaded.Account, loaded.Tariffs, tariff.NewSlogTrace())
	if err != nil {
		return err
	}

	for _, month := range months {
		usages, err := fetchUsageCached(ctx, client, site.ID, month.FirstDate(), month.LastDate())
		if err != nil {
			return err
		}
		invoice := assembler.Assemble(month, usages)
		if err := cli.RenderInvoice(os.Stdout, invoice); err != nil {
			return err
		}
	}
	return nil
}

// parseMonths parses YYYY-MM arguments, sorted ascending. No arguments means
// the last full calendar month.
func parseMonths(args []string) ([]model.YearMonth, error) {
	if len(args) == 0 {
		return []model.YearMonth{model.LastYearMonth(time.Now())}, nil
	}
	months := make([]model.YearMonth, 0, len(args))
	for _, arg := range args {
		month, err := model.ParseYearMonth(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: %w", arg, err)
		}
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months, nil
}
