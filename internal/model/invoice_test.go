package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testInvoice() Invoice {
	return Invoice{
		Month: YearMonth{Year: 2025, Month: 3},
		Sections: []Section{
			{Name: SectionUsageFees, Items: []LineItem{
				{Label: "General Usage Wholesale", TotalCostCents: 4000},
				{Label: "Peak Usage", TotalCostCents: 2000},
			}},
			{Name: SectionDailySupply, Items: []LineItem{
				{Label: "Supply Charge", TotalCostCents: 1500},
			}},
			{Name: SectionExportCredits, Items: []LineItem{
				{Label: "Solar Exports", TotalCostCents: -500},
			}},
		},
	}
}

func TestInvoiceSubtotal(t *testing.T) {
	inv := testInvoice()
	assert.Equal(t, int64(7000), inv.SubtotalCents())
}

func TestInvoiceExportCredits(t *testing.T) {
	inv := testInvoice()
	assert.Equal(t, int64(500), inv.ExportCreditCents())

	noExports := Invoice{Sections: []Section{
		{Name: SectionUsageFees, Items: []LineItem{{TotalCostCents: 1000}}},
	}}
	assert.Equal(t, int64(0), noExports.ExportCreditCents())
}

func TestInvoiceGST(t *testing.T) {
	// Exports are GST free: the base is the subtotal less the credit
	// magnitude, so 7000 - 500 = 6500 and GST is 650.
	inv := testInvoice()
	assert.Equal(t, int64(650), inv.GSTCents())
	assert.Equal(t, int64(7650), inv.TotalCents())
}

func TestInvoiceGSTRounding(t *testing.T) {
	inv := Invoice{Sections: []Section{
		{Name: SectionUsageFees, Items: []LineItem{{TotalCostCents: 5}}},
	}}
	// 10% of 5 cents rounds half away from zero to 1 cent.
	assert.Equal(t, int64(1), inv.GSTCents())
	assert.Equal(t, int64(6), inv.TotalCents())
}

func TestInvoiceSectionLookup(t *testing.T) {
	inv := testInvoice()

	items, ok := inv.Section(SectionDailySupply)
	assert.True(t, ok)
	assert.Len(t, items, 1)

	_, ok = inv.Section(SectionPeakDemand)
	assert.False(t, ok)
}
