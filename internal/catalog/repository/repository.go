package repository

import (
	"context"
	"errors"

	"github.com/VISCOUS-ASH/ElectroStore/internal/catalog/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ListFilter narrows ListProducts; zero values mean no filtering.
type ListFilter struct {
	Category domain.Category
	Featured bool
}

type ProductRepository interface {
	ListProducts(ctx context.Context, filter ListFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	Close() error
	RunMigrations(migrationsPath string) error
}
