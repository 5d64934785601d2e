// Package billing assembles monthly invoice estimates from metered usage and
// tariff definitions.
package billing

import (
	"fmt"
	"math"

	"github.com/watthour/amber-tools/internal/model"
	"github.com/watthour/amber-tools/internal/tariff"
)

// Tariffs holds the three tariffs an invoice draws on: the general-usage
// tariff, the controlled-load tariff, and the market/other-charges tariff
// shared across channels.
type Tariffs struct {
	General        *tariff.Tariff
	ControlledLoad *tariff.Tariff
	OtherCharges   *tariff.Tariff
}

// Assembler turns one month of usage records into an invoice estimate. It is
// stateless; months are computed independently.
type Assembler struct {
	account *tariff.Account
	tariffs Tariffs
	trace   tariff.Trace
}

// NewAssembler validates that all three tariffs are present and returns an
// assembler. trace may be nil.
func NewAssembler(account *tariff.Account, tariffs Tariffs, trace tariff.Trace) (*Assembler, error) {
	if account == nil {
		return nil, fmt.Errorf("account config is required")
	}
	if tariffs.General == nil || tariffs.ControlledLoad == nil || tariffs.OtherCharges == nil {
		return nil, fmt.Errorf("general, controlled load, and other-charges tariffs are all required")
	}
	return &Assembler{account: account, tariffs: tariffs, trace: trace}, nil
}

// Assemble computes the invoice estimate for one billing month from the
// month's usage records.
func (a *Assembler) Assemble(month model.YearMonth, usages []model.UsageRecord) model.Invoice {
	var general, controlled, feedIn []model.UsageRecord
	for _, u := range usages {
		switch u.ChannelType {
		case model.ChannelGeneral:
			general = append(general, u)
		case model.ChannelControlledLoad:
			controlled = append(controlled, u)
		case model.ChannelFeedIn:
			feedIn = append(feedIn, u)
		}
	}
	nonFeedIn := make([]model.UsageRecord, 0, len(general)+len(controlled))
	nonFeedIn = append(nonFeedIn, general...)
	nonFeedIn = append(nonFeedIn, controlled...)

	inv := model.Invoice{Month: month}

	var usageFees []model.LineItem
	if len(general) > 0 {
		usageFees = append(usageFees,
			a.tariffs.General.WholesaleLine(general, "General Usage Wholesale", tariff.WholesaleOptions{RemoveGST: true}))
	}
	if len(controlled) > 0 {
		usageFees = append(usageFees,
			a.tariffs.ControlledLoad.WholesaleLine(controlled, "Controlled Load Wholesale", tariff.WholesaleOptions{RemoveGST: true}))
	}
	usageFees = append(usageFees, a.tariffs.General.FeeLines(month, general, tariff.PricedPerKwh, a.trace)...)
	usageFees = append(usageFees, a.tariffs.ControlledLoad.FeeLines(month, controlled, tariff.PricedPerKwh, a.trace)...)
	usageFees = append(usageFees, a.tariffs.OtherCharges.FeeLines(month, nonFeedIn, tariff.PricedPerKwh, a.trace)...)
	inv.Sections = append(inv.Sections, model.Section{Name: model.SectionUsageFees, Items: usageFees})

	if len(general) > 0 && a.tariffs.General.HasPeakDemand() {
		inv.Sections = append(inv.Sections, model.Section{
			Name:  model.SectionPeakDemand,
			Items: a.tariffs.General.FeeLines(month, general, tariff.PricedPerPeakDemand, a.trace),
		})
	}

	var dailyFees []model.LineItem
	dailyFees = append(dailyFees, a.tariffs.General.FeeLines(month, general, tariff.PricedPerDay, a.trace)...)
	dailyFees = append(dailyFees, a.tariffs.ControlledLoad.FeeLines(month, controlled, tariff.PricedPerDay, a.trace)...)
	inv.Sections = append(inv.Sections, model.Section{Name: model.SectionDailySupply, Items: dailyFees})

	inv.Sections = append(inv.Sections, model.Section{
		Name:  model.SectionAmberFees,
		Items: []model.LineItem{a.monthlyFeeLine(month)},
	})

	if len(feedIn) > 0 {
		// Feed-in specific market charges fold into the one export line
		// before the total is negated.
		var solarCharges float64
		for _, line := range a.tariffs.OtherCharges.FeeLines(month, feedIn, tariff.PricedPerKwh, a.trace) {
			solarCharges += float64(line.TotalCostCents)
		}
		inv.Sections = append(inv.Sections, model.Section{
			Name: model.SectionExportCredits,
			Items: []model.LineItem{
				a.tariffs.General.WholesaleLine(feedIn, "Solar Exports", tariff.WholesaleOptions{
					ExtraChargesCents: solarCharges,
					InvertLossFactor:  true,
					RemoveGST:         false,
					NegateTotal:       true,
				}),
			},
		})
	}

	return inv
}

// monthlyFeeLine spreads the flat monthly subscription fee, GST stripped,
// evenly across the days of the month.
func (a *Assembler) monthlyFeeLine(month model.YearMonth) model.LineItem {
	feeExGSTCents := math.Round(a.account.MonthlyFeeDollarsIncGST * 100 / 1.1)
	days := month.Days()
	return model.LineItem{
		Label:          fmt.Sprintf("Amber - $%.2f per month", a.account.MonthlyFeeDollarsIncGST),
		Quantity:       float64(days),
		UnitPriceCents: feeExGSTCents / float64(days),
		TotalCostCents: int64(feeExGSTCents),
	}
}
