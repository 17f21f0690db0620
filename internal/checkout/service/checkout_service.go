package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	cartdomain "github.com/VISCOUS-ASH/ElectroStore/internal/cart/domain"
	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	r "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/repository"
	"github.com/VISCOUS-ASH/ElectroStore/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CartReader is the slice of the cart service the pipeline needs. The cart
// is only ever cleared after the collaborator confirms success.
type CartReader interface {
	GetCart(ctx context.Context, ownerID string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, ownerID string) error
}

// Submitter is the external order-persistence collaborator boundary.
type Submitter interface {
	Submit(ctx context.Context, submission *d.OrderSubmission) (*d.SubmissionResult, error)
}

// PricingConfig carries the deployment's pricing knobs into the pipeline.
type PricingConfig struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingRate      decimal.Decimal
}

type CheckoutRequest struct {
	OwnerID        string
	IdempotencyKey string
	Customer       d.CustomerInfo
}

type CheckoutResponse struct {
	CheckoutID  uuid.UUID
	OrderNumber string
	Status      d.CheckoutStatus
}

type CheckoutService interface {
	Checkout(ctx context.Context, request *CheckoutRequest) (*CheckoutResponse, error)
}

type CheckoutServiceImpl struct {
	repo       r.SessionRepository
	cart       CartReader
	submitter  Submitter
	cfg        PricingConfig
	sfg        singleflight.Group // one in-flight submission per owner
	runTimeout time.Duration
}

func NewCheckoutService(repo r.SessionRepository, cart CartReader, submitter Submitter, cfg PricingConfig, runTimeout time.Duration) *CheckoutServiceImpl {
	if runTimeout <= 0 {
		runTimeout = 30 * time.Second
	}
	return &CheckoutServiceImpl{
		repo:       repo,
		cart:       cart,
		submitter:  submitter,
		cfg:        cfg,
		runTimeout: runTimeout,
	}
}

// Checkout runs the full pipeline: validate the form, freeze a cart
// snapshot, price it once, submit it, and clear the cart if and only if the
// collaborator reports success. Duplicate invocations are answered from the
// recorded session (idempotency key) or coalesced while in flight
// (single-flight per owner).
func (s *CheckoutServiceImpl) Checkout(ctx context.Context, request *CheckoutRequest) (*CheckoutResponse, error) {
	v, err, _ := s.sfg.Do(request.OwnerID, func() (interface{}, error) {
		// The pipeline runs detached from the caller: a shopper
		// navigating away must not abort an in-flight submission, and
		// coalesced callers must not inherit the first caller's
		// cancellation. If the collaborator commits the order, the cart
		// is cleared and the session completed regardless of whether
		// anyone is still waiting for the response.
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.runTimeout)
		defer cancel()
		return s.checkout(runCtx, request)
	})
	if err != nil {
		return nil, err
	}
	return v.(*CheckoutResponse), nil
}

func (s *CheckoutServiceImpl) checkout(ctx context.Context, request *CheckoutRequest) (*CheckoutResponse, error) {
	existing, err := s.repo.GetSessionByIdempotencyKey(ctx, request.IdempotencyKey)
	if err != nil && !errors.Is(err, r.ErrIdempotencyKeyNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		log.Printf("duplicate checkout detected idempotency_key = %v checkout_id = %v status = %v",
			request.IdempotencyKey, existing.ID, existing.Status)
		return replaySession(existing)
	}

	// Validation resolves entirely locally; invalid forms never create a
	// session or burn the idempotency key.
	if verr := validateCustomer(request.Customer); verr != nil {
		log.Printf("checkout rejected in %v for owner %v: %v", d.CheckoutStatusValidating, request.OwnerID, verr)
		return nil, verr
	}

	cart, err := s.cart.GetCart(ctx, request.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, d.ErrEmptyCart
	}

	submission := buildSubmission(request.OwnerID, cart.Snapshot(), request.Customer, s.cfg)

	session, err := s.createSession(ctx, request, submission)
	if err != nil {
		return s.recoverDuplicate(ctx, request.IdempotencyKey, err)
	}

	if errStatus := s.repo.UpdateStatus(ctx, session.ID, d.CheckoutStatusSubmitting); errStatus != nil {
		log.Printf("failed to mark session %v as %v: %v", session.ID, d.CheckoutStatusSubmitting, errStatus)
	}

	result, errSubmit := s.submitter.Submit(ctx, submission)
	if errSubmit != nil {
		s.failSession(ctx, session.ID, errSubmit.Error())
		return nil, &d.SubmissionError{Cause: errSubmit}
	}
	if !result.Success {
		s.failSession(ctx, session.ID, result.Error)
		return nil, &d.SubmissionError{Cause: fmt.Errorf("collaborator rejected order: %s", result.Error)}
	}

	// Server-assigned order number wins; the pre-generated one is only a
	// correlation fallback.
	orderNumber := result.OrderNumber
	if orderNumber == "" {
		orderNumber = submission.OrderNumber
	}

	if errClear := s.cart.ClearCart(ctx, request.OwnerID); errClear != nil {
		// Order exists; the leftover cart is an annoyance, not a failure.
		log.Printf("order %v confirmed but cart clear failed for owner %v: %v", orderNumber, request.OwnerID, errClear)
	}

	if errComplete := s.repo.CompleteSession(ctx, session.ID, orderNumber); errComplete != nil {
		log.Printf("failed to mark session %v as %v: %v", session.ID, d.CheckoutStatusCompleted, errComplete)
	}

	return &CheckoutResponse{
		CheckoutID:  session.ID,
		OrderNumber: orderNumber,
		Status:      d.CheckoutStatusCompleted,
	}, nil
}

func (s *CheckoutServiceImpl) createSession(ctx context.Context, request *CheckoutRequest, submission *d.OrderSubmission) (*r.CheckoutSession, error) {
	snapshotJSON, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	session := &r.CheckoutSession{
		ID:             uuid.New(),
		OwnerID:        request.OwnerID,
		IdempotencyKey: request.IdempotencyKey,
		Status:         d.CheckoutStatusInitiated,
		CartSnapshot:   snapshotJSON,
	}
	if errCreate := s.repo.CreateSession(ctx, session); errCreate != nil {
		return nil, errCreate
	}
	return session, nil
}

// recoverDuplicate handles the create/create race on the unique idempotency
// key: the loser re-reads the winner's session and replays its outcome.
func (s *CheckoutServiceImpl) recoverDuplicate(ctx context.Context, key string, cause error) (*CheckoutResponse, error) {
	if !errors.Is(cause, r.ErrDuplicateIdempotencyKey) {
		return nil, fmt.Errorf("failed to create checkout session: %w", cause)
	}
	existing, err := s.repo.GetSessionByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read duplicate session: %w", err)
	}
	return replaySession(existing)
}

func replaySession(session *r.CheckoutSession) (*CheckoutResponse, error) {
	if session.Status == d.CheckoutStatusFailed {
		reason := "order submission failed"
		if session.FailureReason != nil {
			reason = *session.FailureReason
		}
		return nil, &d.SubmissionError{Cause: errors.New(reason)}
	}

	resp := &CheckoutResponse{
		CheckoutID: session.ID,
		Status:     session.Status,
	}
	if session.OrderNumber != nil {
		resp.OrderNumber = *session.OrderNumber
	}
	return resp, nil
}

func (s *CheckoutServiceImpl) failSession(ctx context.Context, id uuid.UUID, reason string) {
	if err := s.repo.FailSession(ctx, id, reason); err != nil {
		log.Printf("failed to mark session %v as %v: %v", id, d.CheckoutStatusFailed, err)
	}
}

// buildSubmission freezes the cart lines and prices them exactly once.
// Later cart mutations cannot reach into this value.
func buildSubmission(ownerID string, snapshot []cartdomain.CartLine, customer d.CustomerInfo, cfg PricingConfig) *d.OrderSubmission {
	items := make([]d.SubmissionItem, 0, len(snapshot))
	subtotal := decimal.Zero
	for _, line := range snapshot {
		items = append(items, d.SubmissionItem{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return &d.OrderSubmission{
		OrderNumber: generateOrderNumber(),
		OwnerID:     ownerID,
		Items:       items,
		Customer:    customer,
		Pricing:     pricing.NewQuote(subtotal, cfg.TaxRate, cfg.FreeShippingThreshold, cfg.FlatShippingRate),
		CapturedAt:  time.Now(),
	}
}

// generateOrderNumber pre-assigns a correlation number for optimistic
// display; the collaborator's number replaces it when one comes back.
func generateOrderNumber() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	return "ORD-" + millis[len(millis)-8:]
}
