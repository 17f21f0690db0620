package repository

import (
	"context"
	"errors"

	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListRecentOrders(ctx context.Context, limit int64) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error
}
