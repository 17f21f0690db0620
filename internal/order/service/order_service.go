package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	checkout "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/order/repository"
	"github.com/google/uuid"
)

// EventPublisher announces persisted orders to interested consumers.
// Publishing is best effort; the order record is the source of truth.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, submission *checkout.OrderSubmission) (*domain.Order, error)
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListRecentOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error
}

type OrderServiceImpl struct {
	repo      repository.OrderRepository
	publisher EventPublisher
}

func NewOrderService(repo repository.OrderRepository, publisher EventPublisher) *OrderServiceImpl {
	return &OrderServiceImpl{repo: repo, publisher: publisher}
}

// CreateOrder persists the submission under a server-assigned order number.
// The client-proposed number is kept only as a correlation note in logs.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, submission *checkout.OrderSubmission) (*domain.Order, error) {
	if len(submission.Items) == 0 {
		return nil, fmt.Errorf("submission has no items")
	}

	order := submissionToOrder(submission)

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if submission.OrderNumber != "" && submission.OrderNumber != order.OrderNumber {
		log.Printf("order %v created, client correlation number was %v", order.OrderNumber, submission.OrderNumber)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			log.Printf("failed to publish order-created event for %v: %v", order.OrderNumber, err)
		}
	}

	return order, nil
}

func (s *OrderServiceImpl) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *OrderServiceImpl) ListRecentOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.ListRecentOrders(ctx, 100)
}

func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("unknown order status %q", status)
	}

	current, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("cannot move order %s from %s to %s", orderNumber, current.Status, status)
	}

	return s.repo.UpdateStatus(ctx, orderNumber, status)
}

func submissionToOrder(submission *checkout.OrderSubmission) *domain.Order {
	items := make([]domain.OrderItem, 0, len(submission.Items))
	for _, item := range submission.Items {
		items = append(items, domain.OrderItem{
			ProductID:   item.ItemID,
			ProductName: item.Name,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	return &domain.Order{
		ID:          uuid.New(),
		OrderNumber: generateOrderNumber(),
		OwnerID:     submission.OwnerID,
		Customer:    submission.Customer,
		Items:       items,
		Subtotal:    submission.Pricing.Subtotal,
		Tax:         submission.Pricing.Tax,
		Shipping:    submission.Pricing.Shipping,
		Total:       submission.Pricing.Total,
		Status:      domain.OrderStatusPending,
		Notes:       submission.Customer.Notes,
	}
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), suffix)
}
