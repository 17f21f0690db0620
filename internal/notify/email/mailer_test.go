package email

import (
	"net/smtp"
	"testing"

	checkout "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to   []string
	body string
}

func testConfig() Config {
	return Config{
		Host:         "smtp.example.com",
		Port:         587,
		Username:     "shop@example.com",
		Password:     "app-password",
		From:         "shop@example.com",
		OwnerEmail:   "owner@example.com",
		ShopName:     "ElectroStore",
		Locale:       "en-IN",
		CurrencyCode: "INR",
	}
}

func testOrder() *domain.Order {
	return &domain.Order{
		OrderNumber: "ORD-1700000000-AB12",
		Customer: checkout.CustomerInfo{
			FullName:   "Asha Verma",
			Email:      "asha@example.com",
			Phone:      "9876543210",
			Address:    "12 MG Road",
			City:       "Pune",
			State:      "Maharashtra",
			PostalCode: "411001",
			Country:    "India",
		},
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "AirTune Buds 3", UnitPrice: decimal.NewFromInt(1999), Quantity: 2},
		},
		Subtotal: decimal.NewFromInt(3998),
		Tax:      decimal.RequireFromString("719.64"),
		Shipping: decimal.Zero,
		Total:    decimal.RequireFromString("4717.64"),
		Status:   domain.OrderStatusPending,
	}
}

func newTestMailer(t *testing.T, sent *[]sentMail) *Mailer {
	mailer, err := NewMailer(testConfig())
	require.NoError(t, err)

	mailer.send = func(_ string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		*sent = append(*sent, sentMail{to: to, body: string(msg)})
		return nil
	}
	return mailer
}

func TestSendOrderNotifications_SendsCustomerAndOwnerMail(t *testing.T) {
	var sent []sentMail
	mailer := newTestMailer(t, &sent)

	require.NoError(t, mailer.SendOrderNotifications(testOrder()))

	require.Len(t, sent, 2)
	assert.Equal(t, []string{"asha@example.com"}, sent[0].to)
	assert.Equal(t, []string{"owner@example.com"}, sent[1].to)

	assert.Contains(t, sent[0].body, "Order Confirmation - Order #ORD-1700000000-AB12")
	assert.Contains(t, sent[1].body, "New Order Received - Order #ORD-1700000000-AB12")
}

func TestRender_OwnerVariantDiffersFromCustomer(t *testing.T) {
	var sent []sentMail
	mailer := newTestMailer(t, &sent)
	order := testOrder()

	customer, err := mailer.render(order, false)
	require.NoError(t, err)
	owner, err := mailer.render(order, true)
	require.NoError(t, err)

	assert.Contains(t, owner, "New Order Received")
	assert.NotContains(t, customer, "New Order Received")
	assert.Contains(t, customer, "We appreciate your order!")
	assert.NotContains(t, owner, "We appreciate your order!")
}

func TestRender_FormatsAmountsForLocale(t *testing.T) {
	var sent []sentMail
	mailer := newTestMailer(t, &sent)

	body, err := mailer.render(testOrder(), false)
	require.NoError(t, err)

	assert.Contains(t, body, "AirTune Buds 3")
	assert.Contains(t, body, "₹")
	assert.Contains(t, body, "ORD-1700000000-AB12")
	assert.Contains(t, body, "Asha Verma")
	assert.Contains(t, body, "12 MG Road, Pune, Maharashtra 411001, India")
}
