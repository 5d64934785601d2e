package tariff

import (
	"fmt"
	"math"

	"github.com/watthour/amber-tools/internal/model"
)

// PricingMode selects how a component prices its quantity. Exactly one mode
// is set per component, validated at construction.
type PricingMode int

// Pricing modes.
const (
	PerKwh PricingMode = iota + 1
	PerDay
	PerPeakDemandKw
)

func (m PricingMode) String() string {
	switch m {
	case PerKwh:
		return "centsPerKwh"
	case PerDay:
		return "centsPerDay"
	case PerPeakDemandKw:
		return "centsPerPeakDemandKwPerDay"
	}
	return fmt.Sprintf("PricingMode(%d)", int(m))
}

// Pricing is a component's single pricing mode and rate.
type Pricing struct {
	Mode  PricingMode
	Cents float64
}

// Component is one priced rule within a tariff: a set of usage filters,
// optional account-level gates, and one pricing mode. Immutable after
// construction.
type Component struct {
	account *Account

	AmberLabel string
	DNSPLabel  string
	Pricing    Pricing

	filters []Filter

	// Account-level gates; nil means unconstrained.
	greenPower map[bool]bool
	feedIn     map[bool]bool
	months     map[int]bool
}

// Label returns the network's name for the component when configured,
// otherwise the provider's.
func (c *Component) Label() string {
	if c.DNSPLabel != "" {
		return c.DNSPLabel
	}
	return c.AmberLabel
}

// ComputeLine evaluates the component for one billing month over the given
// usage records and returns the resulting line item, or nil when the
// component does not apply or would bill zero. The caller pre-partitions
// usage by channel; trace may be nil.
func (c *Component) ComputeLine(month model.YearMonth, usages []model.UsageRecord, trace Trace) *model.LineItem {
	if c.greenPower != nil && !c.greenPower[c.account.GreenPowerActive] {
		c.skip(trace, fmt.Sprintf("greenpower active is %t", c.account.GreenPowerActive))
		return nil
	}
	if c.feedIn != nil && !c.feedIn[c.account.FeedInActive] {
		c.skip(trace, fmt.Sprintf("feed-in active is %t", c.account.FeedInActive))
		return nil
	}
	if c.months != nil && !c.months[month.Month] {
		c.skip(trace, fmt.Sprintf("month is %d", month.Month))
		return nil
	}

	var quantity, unitPrice float64
	switch c.Pricing.Mode {
	case PerDay:
		quantity = float64(month.Days())
		unitPrice = c.Pricing.Cents
	case PerKwh:
		filtered := c.filterUsages(usages, trace)
		for _, u := range filtered {
			quantity += u.KWH
		}
		unitPrice = c.Pricing.Cents
	case PerPeakDemandKw:
		filtered := c.filterUsages(usages, trace)
		if len(filtered) == 0 {
			c.skip(trace, "no usage matched the peak demand filters")
			return nil
		}
		// First maximum wins on ties.
		peak := filtered[0]
		for _, u := range filtered[1:] {
			if u.KWH > peak.KWH {
				peak = u
			}
		}
		quantity = float64(month.Days())
		unitPrice = c.Pricing.Cents * peak.PeakKW()
	}

	totalCents := int64(math.Round(quantity * unitPrice))
	if totalCents == 0 {
		return nil
	}
	return &model.LineItem{
		Label:          c.AmberLabel,
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
		TotalCostCents: totalCents,
	}
}

func (c *Component) filterUsages(usages []model.UsageRecord, trace Trace) []model.UsageRecord {
	filtered := usages
	for _, f := range c.filters {
		before := len(filtered)
		var kept []model.UsageRecord
		for _, u := range filtered {
			if f.Matches(c.account, u) {
				kept = append(kept, u)
			}
		}
		filtered = kept
		if trace != nil {
			trace.FilterApplied(c.Label(), f.Name(), before, len(filtered))
		}
	}
	return filtered
}

func (c *Component) skip(trace Trace, reason string) {
	if trace != nil {
		trace.ComponentSkipped(c.Label(), reason)
	}
}
