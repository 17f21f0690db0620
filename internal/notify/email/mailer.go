package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/pricing"
	"github.com/shopspring/decimal"
)

type Config struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	OwnerEmail   string
	ShopName     string
	Locale       string
	CurrencyCode string
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Mailer renders and sends order confirmation emails: one to the customer,
// one to the shop owner.
type Mailer struct {
	cfg  Config
	tmpl *template.Template
	send sendFunc
}

func NewMailer(cfg Config) (*Mailer, error) {
	tmpl, err := template.New("order").Parse(orderTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order template: %w", err)
	}

	return &Mailer{
		cfg:  cfg,
		tmpl: tmpl,
		send: smtp.SendMail,
	}, nil
}

type itemView struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type orderView struct {
	ShopName    string
	OrderNumber string
	IsOwner     bool
	Customer    customerView
	Items       []itemView
	Subtotal    string
	Tax         string
	Shipping    string
	Total       string
}

type customerView struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// SendOrderNotifications sends both confirmation emails. The first failure
// is returned; callers treat it as a warning, not an order failure.
func (m *Mailer) SendOrderNotifications(order *domain.Order) error {
	customerBody, err := m.render(order, false)
	if err != nil {
		return err
	}
	ownerBody, err := m.render(order, true)
	if err != nil {
		return err
	}

	customerSubject := fmt.Sprintf("Order Confirmation - Order #%s", order.OrderNumber)
	if err := m.sendTo(order.Customer.Email, customerSubject, customerBody); err != nil {
		return fmt.Errorf("failed to email customer: %w", err)
	}

	ownerSubject := fmt.Sprintf("New Order Received - Order #%s", order.OrderNumber)
	if err := m.sendTo(m.cfg.OwnerEmail, ownerSubject, ownerBody); err != nil {
		return fmt.Errorf("failed to email owner: %w", err)
	}

	return nil
}

func (m *Mailer) render(order *domain.Order, isOwner bool) (string, error) {
	view := orderView{
		ShopName:    m.cfg.ShopName,
		OrderNumber: order.OrderNumber,
		IsOwner:     isOwner,
		Customer: customerView{
			Name:  order.Customer.FullName,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
			Address: fmt.Sprintf("%s, %s, %s %s, %s",
				order.Customer.Address, order.Customer.City, order.Customer.State,
				order.Customer.PostalCode, order.Customer.Country),
		},
		Subtotal: pricing.FormatCurrency(order.Subtotal, m.cfg.Locale, m.cfg.CurrencyCode),
		Tax:      pricing.FormatCurrency(order.Tax, m.cfg.Locale, m.cfg.CurrencyCode),
		Shipping: pricing.FormatCurrency(order.Shipping, m.cfg.Locale, m.cfg.CurrencyCode),
		Total:    pricing.FormatCurrency(order.Total, m.cfg.Locale, m.cfg.CurrencyCode),
	}

	for _, item := range order.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, itemView{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: pricing.FormatCurrency(item.UnitPrice, m.cfg.Locale, m.cfg.CurrencyCode),
			LineTotal: pricing.FormatCurrency(lineTotal, m.cfg.Locale, m.cfg.CurrencyCode),
		})
	}

	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render order email: %w", err)
	}
	return buf.String(), nil
}

func (m *Mailer) sendTo(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return m.send(addr, auth, m.cfg.From, []string{to}, msg.Bytes())
}
