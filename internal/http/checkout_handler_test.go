package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	checkoutservice "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckout struct {
	resp    *checkoutservice.CheckoutResponse
	err     error
	lastReq *checkoutservice.CheckoutRequest
}

func (s *stubCheckout) Checkout(_ context.Context, req *checkoutservice.CheckoutRequest) (*checkoutservice.CheckoutResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func checkoutRouter(svc checkoutservice.CheckoutService) chi.Router {
	handler := NewCheckoutHandler(svc, time.Second)

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Post("/checkout", handler.Checkout)
	return r
}

func postCheckout(t *testing.T, r chi.Router, headers map[string]string) *httptest.ResponseRecorder {
	raw, err := json.Marshal(CheckoutRequestDTO{Customer: d.CustomerInfo{FullName: "Asha"}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(raw))
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-1"})
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCheckout_Success(t *testing.T) {
	stub := &stubCheckout{resp: &checkoutservice.CheckoutResponse{
		CheckoutID:  uuid.New(),
		OrderNumber: "ORD-1700000000-AB12",
		Status:      d.CheckoutStatusCompleted,
	}}
	r := checkoutRouter(stub)

	rec := postCheckout(t, r, map[string]string{"Idempotency-Key": "key-1"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ORD-1700000000-AB12", resp.OrderNumber)
	assert.Equal(t, "COMPLETED", resp.Status)

	assert.Equal(t, "session-1", stub.lastReq.OwnerID)
	assert.Equal(t, "key-1", stub.lastReq.IdempotencyKey)
}

func TestCheckout_GeneratesIdempotencyKeyWhenMissing(t *testing.T) {
	stub := &stubCheckout{resp: &checkoutservice.CheckoutResponse{
		CheckoutID: uuid.New(),
		Status:     d.CheckoutStatusCompleted,
	}}
	r := checkoutRouter(stub)

	rec := postCheckout(t, r, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, stub.lastReq.IdempotencyKey)
}

func TestCheckout_ValidationErrorsIncludeFieldMap(t *testing.T) {
	stub := &stubCheckout{err: &d.ValidationError{Fields: map[string]string{
		"email": "must be a valid email address",
		"city":  "required",
	}}}
	r := checkoutRouter(stub)

	rec := postCheckout(t, r, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Equal(t, "required", resp.Fields["city"])
	assert.Equal(t, "must be a valid email address", resp.Fields["email"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	stub := &stubCheckout{err: d.ErrEmptyCart}
	r := checkoutRouter(stub)

	rec := postCheckout(t, r, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestCheckout_SubmissionFailureIsBadGateway(t *testing.T) {
	stub := &stubCheckout{err: &d.SubmissionError{Cause: assert.AnError}}
	r := checkoutRouter(stub)

	rec := postCheckout(t, r, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "submission_failed", resp.Code)
}

func TestCheckout_ConfigurationError(t *testing.T) {
	stub := &stubCheckout{err: &d.ConfigurationError{Missing: "order endpoint"}}
	r := checkoutRouter(stub)

	rec := postCheckout(t, r, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "misconfigured", resp.Code)
}
