package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../../migrations/checkout",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %s", err)
		}
	}

	return repo, cleanup
}

func newSession(key string) *CheckoutSession {
	snapshot, _ := json.Marshal(map[string]string{"owner_id": "owner-1"})
	return &CheckoutSession{
		ID:             uuid.New(),
		OwnerID:        "owner-1",
		IdempotencyKey: key,
		Status:         d.CheckoutStatusInitiated,
		CartSnapshot:   snapshot,
	}
}

func TestCreateSession_AndGetByIdempotencyKey(t *testing.T) {
	repo, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	session := newSession("key-1")
	require.NoError(t, repo.CreateSession(ctx, session))

	got, err := repo.GetSessionByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, d.CheckoutStatusInitiated, got.Status)
	assert.JSONEq(t, string(session.CartSnapshot), string(got.CartSnapshot))
}

func TestGetSessionByIdempotencyKey_NotFound(t *testing.T) {
	repo, cleanup := setupPostgres(t)
	defer cleanup()

	_, err := repo.GetSessionByIdempotencyKey(context.Background(), "key-missing")
	assert.ErrorIs(t, err, ErrIdempotencyKeyNotFound)
}

func TestCreateSession_DuplicateKeyRejected(t *testing.T) {
	repo, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, newSession("key-dup")))

	err := repo.CreateSession(ctx, newSession("key-dup"))
	assert.ErrorIs(t, err, ErrDuplicateIdempotencyKey)
}

func TestSessionLifecycle_CompleteAndFail(t *testing.T) {
	repo, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	completed := newSession("key-complete")
	require.NoError(t, repo.CreateSession(ctx, completed))
	require.NoError(t, repo.UpdateStatus(ctx, completed.ID, d.CheckoutStatusSubmitting))
	require.NoError(t, repo.CompleteSession(ctx, completed.ID, "ORD-1700000000-AB12"))

	got, err := repo.GetSessionByIdempotencyKey(ctx, "key-complete")
	require.NoError(t, err)
	assert.Equal(t, d.CheckoutStatusCompleted, got.Status)
	require.NotNil(t, got.OrderNumber)
	assert.Equal(t, "ORD-1700000000-AB12", *got.OrderNumber)

	failed := newSession("key-fail")
	require.NoError(t, repo.CreateSession(ctx, failed))
	require.NoError(t, repo.FailSession(ctx, failed.ID, "connection refused"))

	got, err = repo.GetSessionByIdempotencyKey(ctx, "key-fail")
	require.NoError(t, err)
	assert.Equal(t, d.CheckoutStatusFailed, got.Status)
	require.NotNil(t, got.FailureReason)
	assert.Equal(t, "connection refused", *got.FailureReason)
}

func TestUpdateStatus_MissingSession(t *testing.T) {
	repo, cleanup := setupPostgres(t)
	defer cleanup()

	err := repo.UpdateStatus(context.Background(), uuid.New(), d.CheckoutStatusSubmitting)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
