package domain

import (
	"fmt"
	"strings"

	catalog "bistroDesk/internal/modules/catalog/domain"
)

const defaultReceiptFooter = "Thank you for visiting!"

// RenderReceipt produces the shareable receipt text for an order. The output
// depends only on the record and the profile, so a receipt re-rendered from
// history is byte-identical to the one produced at checkout.
//
// Five sections separated by "--------" lines, except sections 1 and 2 which
// run together: greeting, header text, invoice details, items with total,
// footer text.
func RenderReceipt(order OrderRecord, profile catalog.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hlo 👋 %s\n\n", order.CustomerName)

	header := profile.ReceiptHeader
	if header == "" {
		header = profile.Name
	}
	b.WriteString(header)
	b.WriteString("\n--------\n")

	fmt.Fprintf(&b, "Invoice No: %s\n", order.ID)
	fmt.Fprintf(&b, "Date: %s\n", order.Timestamp)
	fmt.Fprintf(&b, "Payment Mode: %s\n", order.PaymentMethod)
	b.WriteString("--------\n")

	b.WriteString("Ordered Items:\n")
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "%s (%s) x%d - ₹%.2f\n", line.Name, line.SelectedSize, line.Quantity, line.Subtotal())
	}
	fmt.Fprintf(&b, "\nTotal Amount: ₹%.2f\n", order.Total)
	b.WriteString("--------\n")

	footer := profile.ReceiptFooter
	if footer == "" {
		footer = defaultReceiptFooter
	}
	b.WriteString(footer)
	b.WriteString("\n")

	return b.String()
}
