package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/watthour/amber-tools/internal/model"
)

// RenderInvoice writes one month's invoice estimate to w: a divider, the
// month heading, each section with its line items, and the GST-inclusive
// total. Unit prices are shown in cents.
func RenderInvoice(w io.Writer, inv model.Invoice) error {
	if _, err := fmt.Fprintln(w, "\n"+SubtleStyle.Render(strings.Repeat("-", 80))); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, FormatTitle(fmt.Sprintf("Month: %s", inv.Month))); err != nil {
		return err
	}

	for _, section := range inv.Sections {
		if _, err := fmt.Fprintf(w, "\n   %s:\n", SectionStyle.Render(section.Name)); err != nil {
			return err
		}
		for _, item := range section.Items {
			line := fmt.Sprintf("      %-35s   %6.1f   %6.2f   $%7.2f",
				item.Label, item.Quantity, item.UnitPriceCents, float64(item.TotalCostCents)/100)
			if item.TotalCostCents < 0 {
				line = CreditStyle.Render(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	total := fmt.Sprintf("   TOTAL (incl. GST): $%7.2f", float64(inv.TotalCents())/100)
	if _, err := fmt.Fprintf(w, "\n%s\n\n", TotalStyle.Render(total)); err != nil {
		return err
	}
	return nil
}

// RenderInvoices renders each invoice in order.
func RenderInvoices(w io.Writer, invoices []model.Invoice) error {
	for _, inv := range invoices {
		if err := RenderInvoice(w, inv); err != nil {
			return err
		}
	}
	return nil
}
