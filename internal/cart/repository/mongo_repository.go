package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VISCOUS-ASH/ElectroStore/internal/cart/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}

// cartDoc is the storage shape. Prices are kept as strings so decimal
// amounts round-trip without float drift.
type cartDoc struct {
	ID        string    `bson:"_id,omitempty"`
	OwnerID   string    `bson:"owner_id"`
	Lines     []lineDoc `bson:"lines"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type lineDoc struct {
	ItemID    string    `bson:"item_id"`
	Name      string    `bson:"name"`
	UnitPrice string    `bson:"unit_price"`
	ImageRef  string    `bson:"image_ref,omitempty"`
	Quantity  int       `bson:"quantity"`
	AddedAt   time.Time `bson:"added_at"`
}

func (m *mongoRepository) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	var doc cartDoc

	filter := bson.M{"owner_id": ownerID}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return docToCart(&doc)
}

func (m *mongoRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	doc := cartToDoc(cart)

	filter := bson.M{"owner_id": cart.OwnerID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

func (m *mongoRepository) DeleteCart(ctx context.Context, ownerID string) error {
	filter := bson.M{"owner_id": ownerID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

// EnsureIndexes creates the cart collection indexes. Called once at seed or
// deploy time.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	repo := &mongoRepository{collection: db.Collection("carts")}
	return repo.CreateIndexes(ctx)
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func cartToDoc(cart *domain.Cart) *cartDoc {
	doc := &cartDoc{
		OwnerID:   cart.OwnerID,
		Lines:     make([]lineDoc, 0, len(cart.Lines)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, line := range cart.Lines {
		doc.Lines = append(doc.Lines, lineDoc{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.String(),
			ImageRef:  line.ImageRef,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt,
		})
	}
	return doc
}

func docToCart(doc *cartDoc) (*domain.Cart, error) {
	cart := &domain.Cart{
		ID:        doc.ID,
		OwnerID:   doc.OwnerID,
		Lines:     make([]domain.CartLine, 0, len(doc.Lines)),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, line := range doc.Lines {
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("corrupt unit price %q for item %s: %w", line.UnitPrice, line.ItemID, err)
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: price,
			ImageRef:  line.ImageRef,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt,
		})
	}
	return cart, nil
}
