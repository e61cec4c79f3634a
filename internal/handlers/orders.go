package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avelichko/crmdesk/internal/models"
	"github.com/avelichko/crmdesk/internal/syncer"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

// OrdersHandler serves the orders page and status mutations
type OrdersHandler struct {
	backend CRMBackend
	tracker PageTracker
}

// NewOrdersHandler creates a new OrdersHandler
func NewOrdersHandler(backend CRMBackend, tracker PageTracker) *OrdersHandler {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &OrdersHandler{backend: backend, tracker: tracker}
}

// UpdateStatusRequest represents the request body for an order status change
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending processing completed cancelled"`
	Comment string `json:"comment" validate:"max=1000"`
}

// List returns all orders
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActivePage(syncer.PageOrders)
	pkghttp.WriteJSON(w, http.StatusOK, h.backend.Orders(r.Context()))
}

// UpdateStatus changes one order's status with an optional admin comment
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.backend.UpdateOrderStatus(r.Context(), orderID, req.Status, req.Comment); err != nil {
		writeBackendError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeBackendError maps backend mutation failures onto HTTP statuses
func writeBackendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrBackendRejected):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrBackendUnavailable):
		pkghttp.WriteBadGateway(w, "CRM backend unavailable")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
