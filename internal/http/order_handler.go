package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	checkout "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	orderdomain "github.com/VISCOUS-ASH/ElectroStore/internal/order/domain"
	orderrepo "github.com/VISCOUS-ASH/ElectroStore/internal/order/repository"
	"github.com/go-chi/chi/v5"
)

// OrderAPI is the slice of the order service the HTTP layer uses.
type OrderAPI interface {
	CreateOrder(ctx context.Context, submission *checkout.OrderSubmission) (*orderdomain.Order, error)
	GetOrder(ctx context.Context, orderNumber string) (*orderdomain.Order, error)
	ListRecentOrders(ctx context.Context) ([]*orderdomain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status orderdomain.OrderStatus) error
}

type OrderHandler struct {
	orders  OrderAPI
	timeout time.Duration
}

func NewOrderHandler(orders OrderAPI, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

// CreateOrder accepts an order submission and answers in the submission
// result shape the checkout pipeline expects.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var submission checkout.OrderSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		respondJSON(w, http.StatusBadRequest, checkout.SubmissionResult{
			Success: false,
			Error:   "invalid JSON body",
		})
		return
	}

	order, err := h.orders.CreateOrder(ctx, &submission)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, checkout.SubmissionResult{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, checkout.SubmissionResult{
		Success:     true,
		OrderNumber: order.OrderNumber,
	})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderNumber := chi.URLParam(r, "order_number")

	order, err := h.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, orderrepo.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListRecentOrders(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderNumber := chi.URLParam(r, "order_number")

	var req UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if claims := getClaims(r.Context()); claims != nil {
		log.Printf("order %s status change to %s by %s", orderNumber, req.Status, claims.Email)
	}

	err := h.orders.UpdateStatus(ctx, orderNumber, orderdomain.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, orderrepo.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_transition", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
