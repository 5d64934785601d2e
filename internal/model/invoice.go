package model

import "math"

// Invoice section names, in the order they appear on a rendered invoice.
const (
	SectionUsageFees     = "Usage Fees"
	SectionPeakDemand    = "Peak Demand Fees"
	SectionDailySupply   = "Daily Supply Fees"
	SectionAmberFees     = "Amber Fees"
	SectionExportCredits = "Your Export Credits"
)

// LineItem is one billable line on an invoice. TotalCostCents is always a
// whole number of cents; a computation that would produce a zero total emits
// no line item at all.
type LineItem struct {
	Label          string
	Quantity       float64
	UnitPriceCents float64
	TotalCostCents int64
}

// Section is a named, ordered group of line items.
type Section struct {
	Name  string
	Items []LineItem
}

// Invoice is the estimate for one billing month: an ordered sequence of
// named sections. It is assembled once and never mutated afterwards.
type Invoice struct {
	Month    YearMonth
	Sections []Section
}

// Section returns the items of the named section, if present.
func (inv Invoice) Section(name string) ([]LineItem, bool) {
	for _, s := range inv.Sections {
		if s.Name == name {
			return s.Items, true
		}
	}
	return nil, false
}

// SubtotalCents is the sum of every line item across all sections,
// before GST.
func (inv Invoice) SubtotalCents() int64 {
	var total int64
	for _, s := range inv.Sections {
		for _, item := range s.Items {
			total += item.TotalCostCents
		}
	}
	return total
}

// ExportCreditCents is the magnitude of the export credits section. Export
// credit line items carry negative totals, so the magnitude is the negated
// sum.
func (inv Invoice) ExportCreditCents() int64 {
	items, ok := inv.Section(SectionExportCredits)
	if !ok {
		return 0
	}
	var total int64
	for _, item := range items {
		total += item.TotalCostCents
	}
	return -total
}

// GSTCents is the 10% GST payable. Export credits are GST-free, so their
// magnitude is subtracted from the GST base (net-basis, matching the
// provider's treatment).
func (inv Invoice) GSTCents() int64 {
	return int64(math.Round(float64(inv.SubtotalCents()-inv.ExportCreditCents()) * 0.1))
}

// TotalCents is the final invoice total including GST.
func (inv Invoice) TotalCents() int64 {
	return inv.SubtotalCents() + inv.GSTCents()
}
