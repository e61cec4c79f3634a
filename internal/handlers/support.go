package handlers

import (
	"net/http"
	"strconv"

	"github.com/avelichko/crmdesk/internal/syncer"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

// SupportHandler serves the support tickets page
type SupportHandler struct {
	backend CRMBackend
	tracker PageTracker
}

// NewSupportHandler creates a new SupportHandler
func NewSupportHandler(backend CRMBackend, tracker PageTracker) *SupportHandler {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &SupportHandler{backend: backend, tracker: tracker}
}

// List returns all support tickets
func (h *SupportHandler) List(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActivePage(syncer.PageSupport)
	pkghttp.WriteJSON(w, http.StatusOK, h.backend.SupportRequests(r.Context()))
}

// MarkProcessed marks one support ticket as handled
func (h *SupportHandler) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	supportID, err := strconv.ParseInt(chi.URLParam(r, "supportID"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid support request id")
		return
	}

	if err := h.backend.MarkSupportProcessed(r.Context(), supportID); err != nil {
		writeBackendError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
