package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/VISCOUS-ASH/ElectroStore/internal/cart/cache"
	"github.com/VISCOUS-ASH/ElectroStore/internal/cart/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/cart/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CartService owns all cart reads and writes. Cache trouble is logged and
// swallowed so the shopping experience is never interrupted by it; the
// repository stays authoritative.
type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

// GetCart returns the owner's cart, or a fresh empty cart when none exists
// yet. A missing cart is never an error.
func (s *CartService) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(ownerID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, ownerID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, ownerID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			return &domain.Cart{
				OwnerID:   ownerID,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			errSet := s.cache.Set(context.Background(), ownerID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem merges the line into the cart by item ID and persists the result.
func (s *CartService) AddItem(ctx context.Context, ownerID string, line domain.CartLine) (*domain.Cart, error) {
	return s.mutate(ctx, ownerID, func(cart *domain.Cart) {
		line.AddedAt = time.Now()
		cart.AddLine(line)
	})
}

// SetQuantity overwrites a line's quantity; zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, ownerID, itemID string, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, ownerID, func(cart *domain.Cart) {
		cart.SetQuantity(itemID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, ownerID, itemID string) (*domain.Cart, error) {
	return s.mutate(ctx, ownerID, func(cart *domain.Cart) {
		cart.RemoveLine(itemID)
	})
}

// ClearCart empties and deletes the stored cart. Called after a confirmed
// order submission, or by an explicit clear action.
func (s *CartService) ClearCart(ctx context.Context, ownerID string) error {
	errDelete := s.repo.DeleteCart(ctx, ownerID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", errDelete)
		return errDelete
	}

	s.invalidateCache(ownerID)
	return nil
}

// Subtotal is a derived read over the current cart state.
func (s *CartService) Subtotal(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	cart, err := s.GetCart(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Subtotal(), nil
}

// mutate loads the cart, applies the domain mutation and writes the whole
// cart back. The replace-on-write upsert keeps each mutation atomic.
func (s *CartService) mutate(ctx context.Context, ownerID string, fn func(*domain.Cart)) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	fn(cart)

	if errUpsert := s.repo.UpsertCart(ctx, cart); errUpsert != nil {
		log.Printf("repo upsert cart error: %v", errUpsert)
		return nil, errUpsert
	}

	s.invalidateCache(ownerID)
	return cart, nil
}

func (s *CartService) invalidateCache(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, ownerID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
