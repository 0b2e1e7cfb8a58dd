// Package invoices derives invoices from paid orders and keeps them
// under the "invoices" kv key. Status only ever moves Unpaid -> Paid.
package invoices

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"undangan/internal/core"

	"github.com/google/uuid"
)

// Uninvoiced filters out orders already referenced by any invoice line,
// matching under both the legacy "id" and the current "orderId" field.
func Uninvoiced(orders []core.Order, invoices []core.Invoice) []core.Order {
	billed := make(map[string]struct{})
	for _, inv := range invoices {
		for _, line := range inv.Lines {
			if line.OrderID != "" {
				billed[line.OrderID] = struct{}{}
			}
			if line.LegacyID != "" {
				billed[line.LegacyID] = struct{}{}
			}
		}
	}
	var out []core.Order
	for _, o := range orders {
		if _, ok := billed[o.ID]; !ok {
			out = append(out, o)
		}
	}
	return out
}

// Number builds an invoice number from the vendor code and issue date:
// INV-<CODE>-<YYMM>-<NNN>. Without a vendor code it falls back to the
// date-stamped variant INV-<YYYYMMDD>-<NNNN>. The random suffix alone is
// only probabilistically unique; Store.Add retries against existing
// numbers.
func Number(vendorCode string, issued time.Time) string {
	code := strings.ToUpper(strings.TrimSpace(vendorCode))
	if code != "" {
		return fmt.Sprintf("INV-%s-%s-%03d", code, issued.Format("0601"), rand.IntN(1000))
	}
	return fmt.Sprintf("INV-%s-%04d", issued.Format("20060102"), rand.IntN(10000))
}

// Generate builds an invoice from a vendor's orders. The caller is
// responsible for pre-filtering to that vendor's unbilled paid orders;
// the total is always the recomputed sum of the line amounts.
func Generate(vendorID, vendorName, vendorCode string, orders []core.Order, issued, due time.Time) core.Invoice {
	lines := make([]core.InvoiceLine, 0, len(orders))
	var total int64
	for _, o := range orders {
		lines = append(lines, core.InvoiceLine{
			OrderID:    o.ID,
			ClientName: o.ClientName,
			OrderDate:  o.OrderDate,
			Amount:     o.PaymentAmount,
		})
		total += o.PaymentAmount.Rupiah
	}
	return core.Invoice{
		ID:          uuid.NewString(),
		Number:      Number(vendorCode, issued),
		VendorID:    vendorID,
		VendorName:  vendorName,
		IssueDate:   core.Date{Time: issued},
		DueDate:     core.Date{Time: due},
		Status:      core.InvoiceUnpaid,
		Lines:       lines,
		TotalAmount: core.Money{Rupiah: total},
	}
}
