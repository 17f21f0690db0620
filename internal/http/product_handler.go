package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	catalogdomain "github.com/VISCOUS-ASH/ElectroStore/internal/catalog/domain"
	catalogrepo "github.com/VISCOUS-ASH/ElectroStore/internal/catalog/repository"
	"github.com/go-chi/chi/v5"
)

// ProductStore is the slice of the catalog repository the HTTP layer uses.
type ProductStore interface {
	ListProducts(ctx context.Context, filter catalogrepo.ListFilter) ([]*catalogdomain.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
	CreateProduct(ctx context.Context, product *catalogdomain.Product) error
	UpdateProduct(ctx context.Context, product *catalogdomain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductHandler struct {
	products ProductStore
	timeout  time.Duration
}

func NewProductHandler(products ProductStore, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		timeout:  timeout,
	}
}

type ProductResponseDTO struct {
	*catalogdomain.Product
	DiscountPercent int64 `json:"discount_percent"`
}

func productResponse(p *catalogdomain.Product) ProductResponseDTO {
	return ProductResponseDTO{
		Product:         p,
		DiscountPercent: p.DiscountPercent(),
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filter := catalogrepo.ListFilter{
		Featured: r.URL.Query().Get("featured") == "true",
	}

	if category := r.URL.Query().Get("category"); category != "" {
		c := catalogdomain.Category(category)
		if !c.IsValid() {
			respondError(w, http.StatusBadRequest, "invalid_category", "unknown category")
			return
		}
		filter.Category = c
	}

	products, err := h.products.ListProducts(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	out := make([]ProductResponseDTO, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	product, err := h.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, productResponse(product))
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var product catalogdomain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := validateProduct(&product); err != "" {
		respondError(w, http.StatusBadRequest, "invalid_product", err)
		return
	}

	if err := h.products.CreateProduct(ctx, &product); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, productResponse(&product))
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	var product catalogdomain.Product
	if errDecode := json.NewDecoder(r.Body).Decode(&product); errDecode != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	product.ID = id

	if msg := validateProduct(&product); msg != "" {
		respondError(w, http.StatusBadRequest, "invalid_product", msg)
		return
	}

	if errUpdate := h.products.UpdateProduct(ctx, &product); errUpdate != nil {
		if errors.Is(errUpdate, catalogrepo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, productResponse(&product))
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return
	}

	if errDelete := h.products.DeleteProduct(ctx, id); errDelete != nil {
		if errors.Is(errDelete, catalogrepo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func validateProduct(p *catalogdomain.Product) string {
	if p.Name == "" {
		return "name is required"
	}
	if !p.Category.IsValid() {
		return "unknown category"
	}
	if p.Price.IsNegative() || p.OriginalPrice.IsNegative() {
		return "prices must not be negative"
	}
	return ""
}
