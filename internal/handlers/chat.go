package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/avelichko/crmdesk/internal/activity"
	"github.com/avelichko/crmdesk/internal/models"
	"github.com/avelichko/crmdesk/internal/syncer"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ChatHandler serves order conversations
type ChatHandler struct {
	backend CRMBackend
	tracker PageTracker
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(backend CRMBackend, tracker PageTracker) *ChatHandler {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &ChatHandler{backend: backend, tracker: tracker}
}

// SendMessageRequest represents the request body for an admin chat reply
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// ConversationResponse is one conversation, oldest message first
type ConversationResponse struct {
	OrderID  int64                `json:"order_id"`
	Messages []models.ChatMessage `json:"messages"`
}

// Orders returns the orders that have conversations
func (h *ChatHandler) Orders(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActivePage(syncer.PageChat)
	h.tracker.CloseConversation()
	pkghttp.WriteJSON(w, http.StatusOK, h.backend.ChatOrders(r.Context()))
}

// Messages returns one conversation and marks it as the open one, so
// realtime admin-message events reload it.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid order id")
		return
	}

	h.tracker.SetActivePage(syncer.PageChat)
	h.tracker.OpenConversation(orderID)

	pkghttp.WriteJSON(w, http.StatusOK, ConversationResponse{
		OrderID:  orderID,
		Messages: h.backend.ChatMessages(r.Context(), orderID),
	})
}

// Send posts an admin reply and returns the conversation with the stored
// message merged in timestamp order.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid order id")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	sent, err := h.backend.SendAdminMessage(r.Context(), orderID, req.Message)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	conversation := activity.MergeChat(h.backend.ChatMessages(r.Context(), orderID), sent)
	pkghttp.WriteJSON(w, http.StatusOK, ConversationResponse{
		OrderID:  orderID,
		Messages: conversation,
	})
}
