package repository

import (
	"context"
	"errors"

	"github.com/VISCOUS-ASH/ElectroStore/internal/cart/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository is the durable, owner-scoped cart store. Writes replace the
// whole document (replace-on-write), which is what keeps a mutation atomic
// from the shopper's point of view.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, ownerID string) error
}
