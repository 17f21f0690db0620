package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

var (
	ErrIdempotencyKeyNotFound  = errors.New("idempotency key not found")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrSessionNotFound         = errors.New("checkout session not found")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// CheckoutSession records one pipeline invocation so duplicate submissions
// (double clicks, client retries) can be answered from the recorded outcome.
type CheckoutSession struct {
	ID             uuid.UUID
	OwnerID        string
	IdempotencyKey string
	Status         d.CheckoutStatus
	CartSnapshot   []byte
	OrderNumber    *string
	FailureReason  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SessionRepository interface {
	GetSessionByIdempotencyKey(ctx context.Context, key string) (*CheckoutSession, error)
	CreateSession(ctx context.Context, session *CheckoutSession) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status d.CheckoutStatus) error
	CompleteSession(ctx context.Context, id uuid.UUID, orderNumber string) error
	FailSession(ctx context.Context, id uuid.UUID, reason string) error
	Close() error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "checkout_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) GetSessionByIdempotencyKey(ctx context.Context, key string) (*CheckoutSession, error) {
	query := `SELECT id, owner_id, idempotency_key, status, cart_snapshot, order_number, failure_reason, created_at, updated_at
	          FROM checkout_sessions WHERE idempotency_key = $1`

	var session CheckoutSession
	var status string
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&session.ID,
		&session.OwnerID,
		&session.IdempotencyKey,
		&status,
		&session.CartSnapshot,
		&session.OrderNumber,
		&session.FailureReason,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIdempotencyKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session by idempotency key: %w", err)
	}

	session.Status = d.CheckoutStatus(status)
	return &session, nil
}

func (r *Repository) CreateSession(ctx context.Context, session *CheckoutSession) error {
	query := `INSERT INTO checkout_sessions (id, owner_id, idempotency_key, status, cart_snapshot, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		session.ID,
		session.OwnerID,
		session.IdempotencyKey,
		session.Status.String(),
		session.CartSnapshot)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("insert checkout session: %w", insertErr)
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status d.CheckoutStatus) error {
	query := `UPDATE checkout_sessions SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status.String())
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return checkAffected(result)
}

func (r *Repository) CompleteSession(ctx context.Context, id uuid.UUID, orderNumber string) error {
	query := `UPDATE checkout_sessions SET status = $2, order_number = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, d.CheckoutStatusCompleted.String(), orderNumber)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return checkAffected(result)
}

func (r *Repository) FailSession(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE checkout_sessions SET status = $2, failure_reason = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, d.CheckoutStatusFailed.String(), reason)
	if err != nil {
		return fmt.Errorf("fail session: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
