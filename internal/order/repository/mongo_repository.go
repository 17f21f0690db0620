package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	checkout "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	"github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) OrderRepository {
	return &mongoRepository{
		collection: db.Collection("orders"),
	}
}

// orderDoc is the storage shape. Amounts are kept as strings so decimal
// values round-trip without float drift.
type orderDoc struct {
	ID          string         `bson:"_id"`
	OrderNumber string         `bson:"order_number"`
	OwnerID     string         `bson:"owner_id"`
	Customer    customerDoc    `bson:"customer"`
	Items       []orderItemDoc `bson:"items"`
	Subtotal    string         `bson:"subtotal"`
	Tax         string         `bson:"tax"`
	Shipping    string         `bson:"shipping"`
	Total       string         `bson:"total"`
	Status      string         `bson:"status"`
	Notes       string         `bson:"notes,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at"`
}

type customerDoc struct {
	FullName   string `bson:"full_name"`
	Email      string `bson:"email"`
	Phone      string `bson:"phone"`
	Address    string `bson:"address"`
	City       string `bson:"city"`
	State      string `bson:"state"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
	Notes      string `bson:"notes,omitempty"`
}

type orderItemDoc struct {
	ProductID   string `bson:"product_id"`
	ProductName string `bson:"product_name"`
	UnitPrice   string `bson:"unit_price"`
	Quantity    int    `bson:"quantity"`
}

func (m *mongoRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := m.collection.InsertOne(ctx, orderToDoc(order))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (m *mongoRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var doc orderDoc

	filter := bson.M{"order_number": orderNumber}
	err := m.collection.FindOne(ctx, filter).Decode(&doc)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return docToOrder(&doc)
}

func (m *mongoRepository) ListRecentOrders(ctx context.Context, limit int64) ([]*domain.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	for cursor.Next(ctx) {
		var doc orderDoc
		if errDecode := cursor.Decode(&doc); errDecode != nil {
			return nil, fmt.Errorf("failed to decode order: %w", errDecode)
		}
		order, errConv := docToOrder(&doc)
		if errConv != nil {
			return nil, errConv
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while listing orders: %w", err)
	}

	return orders, nil
}

func (m *mongoRepository) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	filter := bson.M{"order_number": orderNumber}
	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now(),
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// EnsureIndexes creates the order collection indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	repo := &mongoRepository{collection: db.Collection("orders")}
	return repo.CreateIndexes(ctx)
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func orderToDoc(order *domain.Order) *orderDoc {
	doc := &orderDoc{
		ID:          order.ID.String(),
		OrderNumber: order.OrderNumber,
		OwnerID:     order.OwnerID,
		Customer: customerDoc{
			FullName:   order.Customer.FullName,
			Email:      order.Customer.Email,
			Phone:      order.Customer.Phone,
			Address:    order.Customer.Address,
			City:       order.Customer.City,
			State:      order.Customer.State,
			PostalCode: order.Customer.PostalCode,
			Country:    order.Customer.Country,
			Notes:      order.Customer.Notes,
		},
		Items:     make([]orderItemDoc, 0, len(order.Items)),
		Subtotal:  order.Subtotal.String(),
		Tax:       order.Tax.String(),
		Shipping:  order.Shipping.String(),
		Total:     order.Total.String(),
		Status:    string(order.Status),
		Notes:     order.Notes,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	for _, item := range order.Items {
		doc.Items = append(doc.Items, orderItemDoc{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.String(),
			Quantity:    item.Quantity,
		})
	}
	return doc
}

func docToOrder(doc *orderDoc) (*domain.Order, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt order id %q: %w", doc.ID, err)
	}

	amounts := make([]decimal.Decimal, 4)
	for i, raw := range []string{doc.Subtotal, doc.Tax, doc.Shipping, doc.Total} {
		amounts[i], err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount %q in order %s: %w", raw, doc.OrderNumber, err)
		}
	}

	order := &domain.Order{
		ID:          id,
		OrderNumber: doc.OrderNumber,
		OwnerID:     doc.OwnerID,
		Customer: checkout.CustomerInfo{
			FullName:   doc.Customer.FullName,
			Email:      doc.Customer.Email,
			Phone:      doc.Customer.Phone,
			Address:    doc.Customer.Address,
			City:       doc.Customer.City,
			State:      doc.Customer.State,
			PostalCode: doc.Customer.PostalCode,
			Country:    doc.Customer.Country,
			Notes:      doc.Customer.Notes,
		},
		Items:     make([]domain.OrderItem, 0, len(doc.Items)),
		Subtotal:  amounts[0],
		Tax:       amounts[1],
		Shipping:  amounts[2],
		Total:     amounts[3],
		Status:    domain.OrderStatus(doc.Status),
		Notes:     doc.Notes,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, item := range doc.Items {
		price, errPrice := decimal.NewFromString(item.UnitPrice)
		if errPrice != nil {
			return nil, fmt.Errorf("corrupt unit price %q in order %s: %w", item.UnitPrice, doc.OrderNumber, errPrice)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   price,
			Quantity:    item.Quantity,
		})
	}
	return order, nil
}
