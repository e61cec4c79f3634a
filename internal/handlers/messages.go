package handlers

import (
	"net/http"
	"strconv"

	"github.com/avelichko/crmdesk/internal/syncer"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

// MessagesHandler serves the inbound messages page
type MessagesHandler struct {
	backend CRMBackend
	tracker PageTracker
}

// NewMessagesHandler creates a new MessagesHandler
func NewMessagesHandler(backend CRMBackend, tracker PageTracker) *MessagesHandler {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &MessagesHandler{backend: backend, tracker: tracker}
}

// List returns all inbound messages
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActivePage(syncer.PageMessages)
	pkghttp.WriteJSON(w, http.StatusOK, h.backend.Messages(r.Context()))
}

// MarkProcessed marks one message as handled
func (h *MessagesHandler) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	messageID, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid message id")
		return
	}

	if err := h.backend.MarkMessageProcessed(r.Context(), messageID); err != nil {
		writeBackendError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
