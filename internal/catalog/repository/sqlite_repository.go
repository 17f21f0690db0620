package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VISCOUS-ASH/ElectroStore/internal/catalog/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `
	id, name, brand, price, original_price, category, description,
	specs, image_url, rating, review_count, in_stock, featured,
	created_at, updated_at
`

func (r *Repository) ListProducts(ctx context.Context, filter ListFilter) ([]*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	var args []interface{}

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.Featured {
		query += " AND featured = 1"
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, errScan := scanProduct(rows)
		if errScan != nil {
			return nil, errScan
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = ?"

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var product *domain.Product
	for rows.Next() {
		product, err = scanProduct(rows)
		if err != nil {
			return nil, err
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *domain.Product) error {
	specsJSON, err := marshalSpecs(product.Specs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
		INSERT INTO products (
			name, brand, price, original_price, category, description,
			specs, image_url, rating, review_count, in_stock, featured,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Brand,
		product.Price.String(),
		product.OriginalPrice.String(),
		string(product.Category),
		product.Description,
		specsJSON,
		product.ImageURL,
		product.Rating,
		product.ReviewCount,
		boolToInt(product.InStock),
		boolToInt(product.Featured),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	product.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}

	return nil
}

func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	specsJSON, err := marshalSpecs(product.Specs)
	if err != nil {
		return err
	}

	product.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products SET
			name = ?, brand = ?, price = ?, original_price = ?, category = ?,
			description = ?, specs = ?, image_url = ?, rating = ?,
			review_count = ?, in_stock = ?, featured = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Brand,
		product.Price.String(),
		product.OriginalPrice.String(),
		string(product.Category),
		product.Description,
		specsJSON,
		product.ImageURL,
		product.Rating,
		product.ReviewCount,
		boolToInt(product.InStock),
		boolToInt(product.Featured),
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return checkAffected(result)
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return checkAffected(result)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalSpecs(specs map[string]string) (string, error) {
	if len(specs) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(specs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal specs: %w", err)
	}
	return string(raw), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p                 domain.Product
		price, original   string
		category, specsJS string
		inStock, featured int
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&price,
		&original,
		&category,
		&p.Description,
		&specsJS,
		&p.ImageURL,
		&p.Rating,
		&p.ReviewCount,
		&inStock,
		&featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("corrupt price %q for product %d: %w", price, p.ID, err)
	}
	p.OriginalPrice, err = decimal.NewFromString(original)
	if err != nil {
		return nil, fmt.Errorf("corrupt original price %q for product %d: %w", original, p.ID, err)
	}

	if specsJS != "" {
		if err := json.Unmarshal([]byte(specsJS), &p.Specs); err != nil {
			return nil, fmt.Errorf("corrupt specs for product %d: %w", p.ID, err)
		}
	}

	p.Category = domain.Category(category)
	p.InStock = inStock != 0
	p.Featured = featured != 0

	return &p, nil
}
