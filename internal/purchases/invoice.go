package purchases

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
)

// Indonesian VAT (PPN) applied on invoices.
var taxRate = decimal.NewFromFloat(0.11)

// Invoice is the customer-facing breakdown of a completed purchase.
type Invoice struct {
	Number     string        `json:"number"`
	IssuedAt   time.Time     `json:"issued_at"`
	Lines      []InvoiceLine `json:"lines"`
	Subtotal   string        `json:"subtotal"`
	Tax        string        `json:"tax"`
	GrandTotal string        `json:"grand_total"`
}

// InvoiceLine is one priced row on an invoice.
type InvoiceLine struct {
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	DiscountAmount string `json:"discount_amount"`
	LineTotal      string `json:"line_total"`
}

// BuildInvoice renders an invoice for a stored purchase. The subtotal is the
// sum of discounted line totals; PPN is added on top and rounded to whole
// rupiah.
func BuildInvoice(purchase *models.Purchase) (*Invoice, error) {
	if purchase == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase is required")
	}

	subtotal := decimal.Zero
	lines := make([]InvoiceLine, 0, len(purchase.LineItems))
	for _, item := range purchase.LineItems {
		unitPrice := decimal.NewFromInt(int64(item.UnitPrice))
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		lines = append(lines, InvoiceLine{
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPrice:      unitPrice.StringFixed(0),
			DiscountAmount: decimal.NewFromInt(int64(item.DiscountAmount)).StringFixed(0),
			LineTotal:      lineTotal.StringFixed(0),
		})
	}

	tax := subtotal.Mul(taxRate).Round(0)
	grandTotal := subtotal.Add(tax)

	return &Invoice{
		Number:     invoiceNumber(purchase),
		IssuedAt:   purchase.PurchasedAt,
		Lines:      lines,
		Subtotal:   subtotal.StringFixed(0),
		Tax:        tax.StringFixed(0),
		GrandTotal: grandTotal.StringFixed(0),
	}, nil
}

func invoiceNumber(purchase *models.Purchase) string {
	short := purchase.ID.String()[:8]
	return fmt.Sprintf("INV-%s-%s", purchase.PurchasedAt.UTC().Format("20060102"), short)
}
