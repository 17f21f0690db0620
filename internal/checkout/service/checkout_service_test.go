package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	cartdomain "github.com/VISCOUS-ASH/ElectroStore/internal/cart/domain"
	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	r "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSessions implements r.SessionRepository in memory.
type mockSessions struct {
	m         sync.Mutex
	byKey     map[string]*r.CheckoutSession
	createErr error
}

func newMockSessions() *mockSessions {
	return &mockSessions{byKey: map[string]*r.CheckoutSession{}}
}

func (m *mockSessions) GetSessionByIdempotencyKey(_ context.Context, key string) (*r.CheckoutSession, error) {
	m.m.Lock()
	defer m.m.Unlock()
	session, ok := m.byKey[key]
	if !ok {
		return nil, r.ErrIdempotencyKeyNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *mockSessions) CreateSession(_ context.Context, session *r.CheckoutSession) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byKey[session.IdempotencyKey]; ok {
		return r.ErrDuplicateIdempotencyKey
	}
	copied := *session
	m.byKey[session.IdempotencyKey] = &copied
	return nil
}

func (m *mockSessions) UpdateStatus(_ context.Context, id uuid.UUID, status d.CheckoutStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	for _, session := range m.byKey {
		if session.ID == id {
			session.Status = status
			return nil
		}
	}
	return r.ErrSessionNotFound
}

func (m *mockSessions) CompleteSession(_ context.Context, id uuid.UUID, orderNumber string) error {
	m.m.Lock()
	defer m.m.Unlock()
	for _, session := range m.byKey {
		if session.ID == id {
			session.Status = d.CheckoutStatusCompleted
			session.OrderNumber = &orderNumber
			return nil
		}
	}
	return r.ErrSessionNotFound
}

func (m *mockSessions) FailSession(_ context.Context, id uuid.UUID, reason string) error {
	m.m.Lock()
	defer m.m.Unlock()
	for _, session := range m.byKey {
		if session.ID == id {
			session.Status = d.CheckoutStatusFailed
			session.FailureReason = &reason
			return nil
		}
	}
	return r.ErrSessionNotFound
}

func (m *mockSessions) Close() error { return nil }

// mockCart implements CartReader over a single in-memory cart.
type mockCart struct {
	m       sync.Mutex
	cart    *cartdomain.Cart
	cleared bool
	getErr  error
}

func (m *mockCart) GetCart(_ context.Context, _ string) (*cartdomain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	copied := *m.cart
	copied.Lines = m.cart.Snapshot()
	return &copied, nil
}

func (m *mockCart) ClearCart(_ context.Context, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart.Clear()
	m.cleared = true
	return nil
}

func (m *mockCart) lines() []cartdomain.CartLine {
	m.m.Lock()
	defer m.m.Unlock()
	return m.cart.Snapshot()
}

// submitFunc adapts a function to the Submitter interface.
type submitFunc func(ctx context.Context, submission *d.OrderSubmission) (*d.SubmissionResult, error)

func (f submitFunc) Submit(ctx context.Context, submission *d.OrderSubmission) (*d.SubmissionResult, error) {
	return f(ctx, submission)
}

func testPricing() PricingConfig {
	return PricingConfig{
		TaxRate:               decimal.RequireFromString("0.18"),
		FreeShippingThreshold: decimal.NewFromInt(500),
		FlatShippingRate:      decimal.NewFromInt(50),
	}
}

func validCustomer() d.CustomerInfo {
	return d.CustomerInfo{
		FullName:   "Asha Verma",
		Email:      "asha@example.com",
		Phone:      "9876543210",
		Address:    "12 MG Road",
		City:       "Pune",
		State:      "Maharashtra",
		PostalCode: "411001",
		Country:    "India",
	}
}

func filledCart() *mockCart {
	cart := &cartdomain.Cart{OwnerID: "s1"}
	cart.AddLine(cartdomain.CartLine{ItemID: "A", Name: "item A", UnitPrice: decimal.NewFromInt(100), Quantity: 2})
	cart.AddLine(cartdomain.CartLine{ItemID: "B", Name: "item B", UnitPrice: decimal.NewFromInt(250), Quantity: 1})
	return &mockCart{cart: cart}
}

func request(key string) *CheckoutRequest {
	return &CheckoutRequest{
		OwnerID:        "s1",
		IdempotencyKey: key,
		Customer:       validCustomer(),
	}
}

func TestCheckout_Success_ClearsCartAndKeepsServerOrderNumber(t *testing.T) {
	cart := filledCart()
	var captured *d.OrderSubmission
	submitter := submitFunc(func(_ context.Context, submission *d.OrderSubmission) (*d.SubmissionResult, error) {
		captured = submission
		return &d.SubmissionResult{Success: true, OrderNumber: "ORD-SERVER-1"}, nil
	})
	sessions := newMockSessions()
	svc := NewCheckoutService(sessions, cart, submitter, testPricing(), time.Minute)

	resp, err := svc.Checkout(context.Background(), request("key-1"))

	require.NoError(t, err)
	assert.Equal(t, "ORD-SERVER-1", resp.OrderNumber)
	assert.Equal(t, d.CheckoutStatusCompleted, resp.Status)
	assert.True(t, cart.cleared)

	// Pricing was computed once from the snapshot: 450 + 81 tax + 50 shipping.
	require.NotNil(t, captured)
	assert.True(t, decimal.NewFromInt(450).Equal(captured.Pricing.Subtotal))
	assert.True(t, decimal.NewFromInt(81).Equal(captured.Pricing.Tax))
	assert.True(t, decimal.NewFromInt(50).Equal(captured.Pricing.Shipping))
	assert.True(t, decimal.NewFromInt(581).Equal(captured.Pricing.Total))

	stored, err := sessions.GetSessionByIdempotencyKey(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, d.CheckoutStatusCompleted, stored.Status)
}

func TestCheckout_MissingServerNumberFallsBackToGenerated(t *testing.T) {
	cart := filledCart()
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		return &d.SubmissionResult{Success: true}, nil
	})
	svc := NewCheckoutService(newMockSessions(), cart, submitter, testPricing(), time.Minute)

	resp, err := svc.Checkout(context.Background(), request("key-1"))

	require.NoError(t, err)
	assert.NotEmpty(t, resp.OrderNumber)
	assert.Contains(t, resp.OrderNumber, "ORD-")
}

func TestCheckout_ValidationFailure_NoNetworkNoSession(t *testing.T) {
	cart := filledCart()
	submitCalls := 0
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		submitCalls++
		return &d.SubmissionResult{Success: true}, nil
	})
	sessions := newMockSessions()
	svc := NewCheckoutService(sessions, cart, submitter, testPricing(), time.Minute)

	req := request("key-1")
	req.Customer.Email = "not-an-email"
	req.Customer.City = "  "

	resp, err := svc.Checkout(context.Background(), req)

	assert.Nil(t, resp)
	var verr *d.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "required", verr.Fields["city"])

	assert.Zero(t, submitCalls)
	assert.False(t, cart.cleared)
	_, err = sessions.GetSessionByIdempotencyKey(context.Background(), "key-1")
	assert.ErrorIs(t, err, r.ErrIdempotencyKeyNotFound)
}

func TestCheckout_EmptyCart(t *testing.T) {
	cart := &mockCart{cart: &cartdomain.Cart{OwnerID: "s1"}}
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		t.Fatal("submit must not be called for an empty cart")
		return nil, nil
	})
	svc := NewCheckoutService(newMockSessions(), cart, submitter, testPricing(), time.Minute)

	resp, err := svc.Checkout(context.Background(), request("key-1"))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, d.ErrEmptyCart)
}

func TestCheckout_SubmitterError_PreservesCart(t *testing.T) {
	cart := filledCart()
	before := cart.lines()
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		return nil, errors.New("connection refused")
	})
	sessions := newMockSessions()
	svc := NewCheckoutService(sessions, cart, submitter, testPricing(), time.Minute)

	resp, err := svc.Checkout(context.Background(), request("key-1"))

	assert.Nil(t, resp)
	var serr *d.SubmissionError
	require.ErrorAs(t, err, &serr)

	after := cart.lines()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ItemID, after[i].ItemID)
		assert.Equal(t, before[i].Quantity, after[i].Quantity)
	}

	stored, errGet := sessions.GetSessionByIdempotencyKey(context.Background(), "key-1")
	require.NoError(t, errGet)
	assert.Equal(t, d.CheckoutStatusFailed, stored.Status)
}

func TestCheckout_CollaboratorRejection_PreservesCart(t *testing.T) {
	cart := filledCart()
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		return &d.SubmissionResult{Success: false, Error: "order store unavailable"}, nil
	})
	svc := NewCheckoutService(newMockSessions(), cart, submitter, testPricing(), time.Minute)

	resp, err := svc.Checkout(context.Background(), request("key-1"))

	assert.Nil(t, resp)
	var serr *d.SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "order store unavailable")
	assert.False(t, cart.cleared)
}

func TestCheckout_SnapshotUnaffectedByMidFlightMutation(t *testing.T) {
	cart := filledCart()
	var captured *d.OrderSubmission
	submitter := submitFunc(func(_ context.Context, submission *d.OrderSubmission) (*d.SubmissionResult, error) {
		// Shopper edits the cart while the request is in flight.
		cart.m.Lock()
		cart.cart.SetQuantity("A", 99)
		cart.m.Unlock()
		captured = submission
		return &d.SubmissionResult{Success: true, OrderNumber: "ORD-X"}, nil
	})
	svc := NewCheckoutService(newMockSessions(), cart, submitter, testPricing(), time.Minute)

	_, err := svc.Checkout(context.Background(), request("key-1"))

	require.NoError(t, err)
	require.Len(t, captured.Items, 2)
	assert.Equal(t, 2, captured.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(450).Equal(captured.Pricing.Subtotal))
}

func TestCheckout_DuplicateKey_ReplaysCompletedOutcome(t *testing.T) {
	cart := filledCart()
	submitCalls := 0
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		submitCalls++
		return &d.SubmissionResult{Success: true, OrderNumber: "ORD-FIRST"}, nil
	})
	sessions := newMockSessions()
	svc := NewCheckoutService(sessions, cart, submitter, testPricing(), time.Minute)
	ctx := context.Background()

	first, err := svc.Checkout(ctx, request("key-dup"))
	require.NoError(t, err)

	// Refill so an accidental resubmission would have something to send.
	cart.m.Lock()
	cart.cart.AddLine(cartdomain.CartLine{ItemID: "C", UnitPrice: decimal.NewFromInt(10), Quantity: 1})
	cart.cleared = false
	cart.m.Unlock()

	second, err := svc.Checkout(ctx, request("key-dup"))
	require.NoError(t, err)

	assert.Equal(t, 1, submitCalls)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.False(t, cart.cleared, "replay must not clear the cart again")
}

func TestCheckout_DuplicateKey_ReplaysFailure(t *testing.T) {
	cart := filledCart()
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		return nil, errors.New("timeout")
	})
	sessions := newMockSessions()
	svc := NewCheckoutService(sessions, cart, submitter, testPricing(), time.Minute)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, request("key-dup"))
	require.Error(t, err)

	_, err = svc.Checkout(ctx, request("key-dup"))
	var serr *d.SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "timeout")
}

func TestCheckout_CallerDisconnectDoesNotAbortSubmission(t *testing.T) {
	cart := filledCart()
	var (
		m           sync.Mutex
		submitCalls int
	)
	entered := make(chan struct{})
	release := make(chan struct{})
	submitter := submitFunc(func(ctx context.Context, _ *d.OrderSubmission) (*d.SubmissionResult, error) {
		m.Lock()
		submitCalls++
		m.Unlock()
		close(entered)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return &d.SubmissionResult{Success: true, OrderNumber: "ORD-LATE"}, nil
		}
	})
	sessions := newMockSessions()
	svc := NewCheckoutService(sessions, cart, submitter, testPricing(), time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	var wg sync.WaitGroup
	results := make([]*CheckoutResponse, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.Checkout(ctxA, request("key-gone"))
	}()
	<-entered

	// Second click lands while the first is in flight and still holding a
	// live context.
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = svc.Checkout(context.Background(), request("key-gone"))
	}()
	time.Sleep(10 * time.Millisecond)

	// Shopper navigates away mid-flight; the submission keeps going and the
	// outcome is still applied.
	cancelA()
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, submitCalls)
	assert.Equal(t, "ORD-LATE", results[0].OrderNumber)
	assert.Equal(t, "ORD-LATE", results[1].OrderNumber)
	assert.True(t, cart.cleared)

	stored, err := sessions.GetSessionByIdempotencyKey(context.Background(), "key-gone")
	require.NoError(t, err)
	assert.Equal(t, d.CheckoutStatusCompleted, stored.Status)
}

func TestCheckout_ConcurrentDoubleClick_SingleSubmission(t *testing.T) {
	cart := filledCart()
	var (
		m           sync.Mutex
		submitCalls int
	)
	entered := make(chan struct{})
	release := make(chan struct{})
	submitter := submitFunc(func(context.Context, *d.OrderSubmission) (*d.SubmissionResult, error) {
		m.Lock()
		submitCalls++
		m.Unlock()
		close(entered)
		<-release
		return &d.SubmissionResult{Success: true, OrderNumber: "ORD-ONE"}, nil
	})
	svc := NewCheckoutService(newMockSessions(), cart, submitter, testPricing(), time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*CheckoutResponse, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Checkout(ctx, request("key-click"))
		}(i)
		if i == 0 {
			<-entered // first call is in flight before the double click lands
		}
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, submitCalls)
	assert.Equal(t, results[0].OrderNumber, results[1].OrderNumber)
}
