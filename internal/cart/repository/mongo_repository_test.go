package repository

import (
	"context"
	"testing"

	"github.com/VISCOUS-ASH/ElectroStore/internal/cart/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	conn "github.com/VISCOUS-ASH/ElectroStore/pkg/mongodb"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := conn.Connect(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)

	mongoRepo := repo.(*mongoRepository)
	err = mongoRepo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	cart, err := repo.GetCart(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestUpsertCart_RoundTripsPricesExactly(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cart := &domain.Cart{OwnerID: "owner-1"}
	cart.AddLine(domain.CartLine{
		ItemID:    "p1",
		Name:      "Noise Buds",
		UnitPrice: decimal.RequireFromString("1299.50"),
		Quantity:  2,
	})

	require.NoError(t, repo.UpsertCart(ctx, cart))

	got, err := repo.GetCart(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, decimal.RequireFromString("1299.50").Equal(got.Lines[0].UnitPrice))
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUpsertCart_ReplacesOnWrite(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cart := &domain.Cart{OwnerID: "owner-1"}
	cart.AddLine(domain.CartLine{ItemID: "p1", UnitPrice: decimal.NewFromInt(100), Quantity: 1})
	cart.AddLine(domain.CartLine{ItemID: "p2", UnitPrice: decimal.NewFromInt(200), Quantity: 1})
	require.NoError(t, repo.UpsertCart(ctx, cart))

	cart.RemoveLine("p1")
	require.NoError(t, repo.UpsertCart(ctx, cart))

	got, err := repo.GetCart(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "p2", got.Lines[0].ItemID)
}

func TestDeleteCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	cart := &domain.Cart{OwnerID: "owner-1"}
	cart.AddLine(domain.CartLine{ItemID: "p1", UnitPrice: decimal.NewFromInt(100), Quantity: 1})
	require.NoError(t, repo.UpsertCart(ctx, cart))

	require.NoError(t, repo.DeleteCart(ctx, "owner-1"))

	_, err := repo.GetCart(ctx, "owner-1")
	assert.ErrorIs(t, err, ErrCartNotFound)

	assert.ErrorIs(t, repo.DeleteCart(ctx, "owner-1"), ErrCartNotFound)
}
