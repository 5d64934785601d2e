package tariff

import (
	"math"

	"github.com/watthour/amber-tools/internal/model"
)

// Tariff is an ordered collection of priced components plus the network's
// distribution loss factor.
type Tariff struct {
	account *Account

	DistributionLossFactor float64
	Components             []*Component
}

// WholesaleOptions adjust the wholesale fee computation.
type WholesaleOptions struct {
	// ExtraChargesCents is added to the total before rounding.
	ExtraChargesCents float64

	// InvertLossFactor divides by the combined loss factor instead of
	// multiplying; losses work in the opposite direction for energy flowing
	// out to the grid.
	InvertLossFactor bool

	// RemoveGST strips the 10% GST embedded in spot prices.
	RemoveGST bool

	// NegateTotal flips the sign of the final total. Export credits are
	// computed as positive magnitudes and surfaced as negative line items.
	NegateTotal bool
}

// WholesaleLine computes a single line item covering the wholesale energy
// cost of the given usage records: the loss-factor-adjusted sum of
// kWh x spot price, with optional GST stripping and extra charges. The unit
// price reported is the average cost per kWh.
func (t *Tariff) WholesaleLine(usages []model.UsageRecord, label string, opts WholesaleOptions) model.LineItem {
	lossFactor := t.DistributionLossFactor * t.account.MarginalLossFactor
	if opts.InvertLossFactor {
		lossFactor = 1 / lossFactor
	}

	var totalFees, totalKWH float64
	for _, u := range usages {
		totalFees += u.KWH * u.SpotPerKWH
		totalKWH += u.KWH
	}
	totalFees *= lossFactor
	if opts.RemoveGST {
		totalFees /= 1.1
	}
	totalFees += opts.ExtraChargesCents
	totalCents := int64(math.Round(totalFees))

	var perKWHAverage float64
	if totalKWH != 0 {
		perKWHAverage = float64(totalCents) / totalKWH
	}

	if opts.NegateTotal {
		totalCents = -totalCents
	}
	return model.LineItem{
		Label:          label,
		Quantity:       totalKWH,
		UnitPriceCents: perKWHAverage,
		TotalCostCents: totalCents,
	}
}

// FeeLines evaluates every component matching the selector against the
// given usage records, in declaration order, dropping suppressed lines.
// An empty usage set short-circuits to no lines at all.
func (t *Tariff) FeeLines(month model.YearMonth, usages []model.UsageRecord, selector func(*Component) bool, trace Trace) []model.LineItem {
	if len(usages) == 0 {
		return nil
	}
	var lines []model.LineItem
	for _, c := range t.Components {
		if !selector(c) {
			continue
		}
		if line := c.ComputeLine(month, usages, trace); line != nil {
			lines = append(lines, *line)
		}
	}
	return lines
}

// HasPeakDemand reports whether any component bills on peak demand.
func (t *Tariff) HasPeakDemand() bool {
	for _, c := range t.Components {
		if c.Pricing.Mode == PerPeakDemandKw {
			return true
		}
	}
	return false
}

// Component selectors for FeeLines.

// PricedPerKwh selects components billing per kilowatt-hour.
func PricedPerKwh(c *Component) bool { return c.Pricing.Mode == PerKwh }

// PricedPerDay selects components billing per calendar day.
func PricedPerDay(c *Component) bool { return c.Pricing.Mode == PerDay }

// PricedPerPeakDemand selects components billing on peak demand.
func PricedPerPeakDemand(c *Component) bool { return c.Pricing.Mode == PerPeakDemandKw }
