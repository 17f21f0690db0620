package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/segmentio/kafka-go"
)

// OrderCreatedEvent is the payload emitted after an order is persisted.
// Downstream consumers (notification worker) key off the order number.
type OrderCreatedEvent struct {
	OrderNumber   string    `json:"order_number"`
	OwnerID       string    `json:"owner_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ItemCount     int       `json:"item_count"`
	Total         string    `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}

	event := OrderCreatedEvent{
		OrderNumber:   order.OrderNumber,
		OwnerID:       order.OwnerID,
		CustomerName:  order.Customer.FullName,
		CustomerEmail: order.Customer.Email,
		ItemCount:     itemCount,
		Total:         order.Total.String(),
		CreatedAt:     order.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.OrderNumber), // order number for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order-created")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}
