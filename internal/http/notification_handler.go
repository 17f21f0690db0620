package http

import (
	"net/http"

	"github.com/VISCOUS-ASH/ElectroStore/internal/notify/toast"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	toasts *toast.Queue
}

func NewNotificationHandler(toasts *toast.Queue) *NotificationHandler {
	return &NotificationHandler{toasts: toasts}
}

func (h *NotificationHandler) ListActive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.toasts.Active())
}

func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.toasts.Dismiss(chi.URLParam(r, "id"))
	respondJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}
