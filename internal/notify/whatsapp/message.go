package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/pricing"
	"github.com/shopspring/decimal"
)

// BuildOwnerMessage renders the plain-text order alert sent to the shop
// owner's WhatsApp.
func BuildOwnerMessage(order *domain.Order, locale, code string) string {
	format := func(amount decimal.Decimal) string {
		return pricing.FormatCurrency(amount, locale, code)
	}

	var b strings.Builder

	b.WriteString("🛒 *New Order Received*\n\n")
	fmt.Fprintf(&b, "📋 *Order Number:* %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "📅 *Date:* %s\n\n", order.CreatedAt.Format("02 Jan 2006 15:04"))

	b.WriteString("👤 *Customer Details:*\n")
	fmt.Fprintf(&b, "• Name: %s\n", order.Customer.FullName)
	fmt.Fprintf(&b, "• Email: %s\n", order.Customer.Email)
	fmt.Fprintf(&b, "• Phone: %s\n", order.Customer.Phone)
	fmt.Fprintf(&b, "• Address: %s, %s, %s\n\n", order.Customer.Address, order.Customer.City, order.Customer.PostalCode)

	b.WriteString("🛍️ *Order Items:*\n")
	for _, item := range order.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "• %s\n  Qty: %d × %s = %s\n",
			item.ProductName, item.Quantity, format(item.UnitPrice), format(lineTotal))
	}

	b.WriteString("\n💰 *Order Summary:*\n")
	fmt.Fprintf(&b, "• Subtotal: %s\n", format(order.Subtotal))
	if order.Shipping.IsZero() {
		b.WriteString("• Shipping: Free\n")
	} else {
		fmt.Fprintf(&b, "• Shipping: %s\n", format(order.Shipping))
	}
	fmt.Fprintf(&b, "• GST: %s\n", format(order.Tax))
	fmt.Fprintf(&b, "• *Total: %s*\n\n", format(order.Total))

	notes := order.Notes
	if notes == "" {
		notes = "No additional notes"
	}
	fmt.Fprintf(&b, "📝 *Notes:* %s\n\n", notes)

	b.WriteString("Please confirm this order and provide payment instructions.")

	return b.String()
}

// Link builds a wa.me deep link with the message pre-filled.
func Link(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}
