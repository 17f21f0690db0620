package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	checkoutservice "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/service"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkout checkoutservice.CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout checkoutservice.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CheckoutRequestDTO struct {
	Customer d.CustomerInfo `json:"customer"`
}

type CheckoutResponseDTO struct {
	CheckoutID  string `json:"checkout_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

// Checkout runs the submission pipeline for the caller's cart. A missing
// Idempotency-Key header gets a generated one, which only protects against
// in-flight duplicates, not retries.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ownerID := getOwnerID(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing cart session")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	resp, err := h.checkout.Checkout(ctx, &checkoutservice.CheckoutRequest{
		OwnerID:        ownerID,
		IdempotencyKey: idempotencyKey,
		Customer:       req.Customer,
	})
	if err != nil {
		log.Printf("checkout failed request_id=%s owner=%s: %v", getRequestID(r.Context()), ownerID, err)
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		CheckoutID:  resp.CheckoutID.String(),
		OrderNumber: resp.OrderNumber,
		Status:      resp.Status.String(),
	})
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	var verr *d.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "checkout form is invalid",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
		return
	}

	if errors.Is(err, d.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "empty_cart", "cannot check out an empty cart")
		return
	}

	var serr *d.SubmissionError
	if errors.As(err, &serr) {
		respondError(w, http.StatusBadGateway, "submission_failed", serr.Error())
		return
	}

	var cerr *d.ConfigurationError
	if errors.As(err, &cerr) {
		respondError(w, http.StatusInternalServerError, "misconfigured", cerr.Error())
		return
	}

	respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
}
