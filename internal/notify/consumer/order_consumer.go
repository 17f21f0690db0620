package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/VISCOUS-ASH/ElectroStore/internal/notify/toast"
	"github.com/VISCOUS-ASH/ElectroStore/internal/notify/whatsapp"
	orderdomain "github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/order/publisher"
	"github.com/segmentio/kafka-go"
)

// OrderGetter loads the full order record behind an event.
type OrderGetter interface {
	GetOrderByNumber(ctx context.Context, orderNumber string) (*orderdomain.Order, error)
}

// OrderMailer sends the confirmation emails for an order.
type OrderMailer interface {
	SendOrderNotifications(order *orderdomain.Order) error
}

// OwnerContact drives the owner-facing WhatsApp alert. An empty phone
// disables it.
type OwnerContact struct {
	Phone    string
	Locale   string
	Currency string
}

// Consumer reads order-created events and fans them out to the notification
// surfaces. Notification failures never block the stream.
type Consumer struct {
	orders OrderGetter
	mailer OrderMailer
	toasts *toast.Queue
	owner  OwnerContact
	reader *kafka.Reader
}

func NewConsumer(orders OrderGetter, mailer OrderMailer, toasts *toast.Queue, owner OwnerContact, topic string, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "notify-worker",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{orders, mailer, toasts, owner, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	var event publisher.OrderCreatedEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}

	order, err := c.orders.GetOrderByNumber(ctx, event.OrderNumber)
	if err != nil {
		log.Printf("order %s from event not found: %v", event.OrderNumber, err)
		return
	}

	if c.mailer != nil {
		if err := c.mailer.SendOrderNotifications(order); err != nil {
			log.Printf("failed to send order emails for %s: %v", order.OrderNumber, err)
		}
	}

	if c.owner.Phone != "" {
		msg := whatsapp.BuildOwnerMessage(order, c.owner.Locale, c.owner.Currency)
		log.Printf("owner WhatsApp alert for %s: %s", order.OrderNumber, whatsapp.Link(c.owner.Phone, msg))
	}

	if c.toasts != nil {
		c.toasts.Push("Order "+order.OrderNumber+" placed successfully! 🎉", toast.LevelSuccess, toast.DefaultDuration)
	}

	log.Printf("notifications dispatched for order %s", order.OrderNumber)
}
