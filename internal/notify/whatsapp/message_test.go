package whatsapp

import (
	"strings"
	"testing"
	"time"

	checkout "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		OrderNumber: "ORD-1700000000-AB12",
		Customer: checkout.CustomerInfo{
			FullName:   "Asha Verma",
			Email:      "asha@example.com",
			Phone:      "9876543210",
			Address:    "12 MG Road",
			City:       "Pune",
			PostalCode: "411001",
		},
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "AirTune Buds 3", UnitPrice: decimal.NewFromInt(1999), Quantity: 2},
		},
		Subtotal:  decimal.NewFromInt(3998),
		Tax:       decimal.RequireFromString("719.64"),
		Shipping:  decimal.Zero,
		Total:     decimal.RequireFromString("4717.64"),
		CreatedAt: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestBuildOwnerMessage(t *testing.T) {
	msg := BuildOwnerMessage(sampleOrder(), "en-IN", "INR")

	assert.Contains(t, msg, "*Order Number:* ORD-1700000000-AB12")
	assert.Contains(t, msg, "• Name: Asha Verma")
	assert.Contains(t, msg, "AirTune Buds 3")
	assert.Contains(t, msg, "Qty: 2 ×")
	assert.Contains(t, msg, "• Shipping: Free")
	assert.Contains(t, msg, "₹")
	assert.Contains(t, msg, "No additional notes")
}

func TestBuildOwnerMessage_PaidShippingAndNotes(t *testing.T) {
	order := sampleOrder()
	order.Shipping = decimal.NewFromInt(50)
	order.Notes = "Deliver after 6pm"

	msg := BuildOwnerMessage(order, "en-IN", "INR")

	assert.NotContains(t, msg, "Shipping: Free")
	assert.Contains(t, msg, "• Shipping: ₹50")
	assert.Contains(t, msg, "Deliver after 6pm")
}

func TestLink_EncodesMessage(t *testing.T) {
	link := Link("919876543210", "New Order: ₹581")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="))
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "₹")
}
