// Package backend is the REST client for the remote CRM backend. Read
// operations never fail: on any transport or envelope error they degrade to
// the last successfully fetched dataset, seeded with demo records, because
// the dashboard prefers stale or placeholder data over an empty screen.
// Mutating operations do return errors, carrying the backend's error text.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/avelichko/crmdesk/internal/activity"
	"github.com/avelichko/crmdesk/internal/models"
)

// DefaultRequestTimeout bounds a single backend call.
const DefaultRequestTimeout = 15 * time.Second

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client talks to the CRM backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu       sync.Mutex
	lastGood lastGood
}

// lastGood is the per-resource fallback cache, seeded with demo data.
type lastGood struct {
	stats     models.Stats
	orders    []models.Order
	messages  []models.Message
	chatOrds  []models.ChatOrder
	chatMsgs  map[int64][]models.ChatMessage
	support   []models.SupportRequest
	reviews   []models.Review
	avgRating models.AverageRating
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		logger:  logger,
		http:    &http.Client{Timeout: DefaultRequestTimeout},
		lastGood: lastGood{
			stats:     demoStats(),
			orders:    demoOrders(),
			messages:  demoMessages(),
			chatOrds:  demoChatOrders(),
			chatMsgs:  make(map[int64][]models.ChatMessage),
			support:   demoSupportRequests(),
			reviews:   demoReviews(),
			avgRating: demoAverageRating(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats returns the dashboard headline counters.
func (c *Client) Stats(ctx context.Context) models.Stats {
	var wire struct {
		Success bool `json:"success"`
		Stats   struct {
			Requests      int             `json:"requests"`
			Messages      int             `json:"messages"`
			AverageRating json.RawMessage `json:"average_rating"`
		} `json:"stats"`
	}
	if err := c.getRaw(ctx, "/api/frontend/stats", &wire); err != nil || !wire.Success {
		c.logger.Warn("stats fetch failed, serving cached", slog.Any("error", err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastGood.stats
	}

	stats := models.Stats{
		TotalOrders: wire.Stats.Requests,
		// The stats endpoint exposes no per-status count.
		PendingOrders:  wire.Stats.Requests,
		UnreadMessages: wire.Stats.Messages,
		AverageRating:  parseRating(wire.Stats.AverageRating),
	}
	c.mu.Lock()
	c.lastGood.stats = stats
	c.mu.Unlock()
	return stats
}

// Orders returns all service orders.
func (c *Client) Orders(ctx context.Context) []models.Order {
	var orders []models.Order
	if err := c.getData(ctx, "/api/frontend/data/requests", &orders); err != nil {
		c.logger.Warn("orders fetch failed, serving cached", slog.Any("error", err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastGood.orders
	}
	c.mu.Lock()
	c.lastGood.orders = orders
	c.mu.Unlock()
	return orders
}

// Messages returns all inbound client messages.
func (c *Client) Messages(ctx context.Context) []models.Message {
	var messages []models.Message
	if err := c.getData(ctx, "/api/frontend/data/messages", &messages); err != nil {
		c.logger.Warn("messages fetch failed, serving cached", slog.Any("error", err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastGood.messages
	}
	c.mu.Lock()
	c.lastGood.messages = messages
	c.mu.Unlock()
	return messages
}

// ChatOrders returns the orders that have conversations attached.
func (c *Client) ChatOrders(ctx context.Context) []models.ChatOrder {
	var orders []models.ChatOrder
	if err := c.getData(ctx, "/api/frontend/data/chat_orders", &orders); err != nil {
		c.logger.Warn("chat orders fetch failed, serving cached", slog.Any("error", err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastGood.chatOrds
	}
	c.mu.Lock()
	c.lastGood.chatOrds = orders
	c.mu.Unlock()
	return orders
}

// ChatMessages returns one conversation ordered oldest first. The backend
// exposes a flat message list; filtering by order happens here.
func (c *Client) ChatMessages(ctx context.Context, orderID int64) []models.ChatMessage {
	var all []models.ChatMessage
	if err := c.getData(ctx, "/api/frontend/data/chat_messages", &all); err != nil {
		c.logger.Warn("chat messages fetch failed, serving cached",
			slog.Any("error", err), slog.Int64("order_id", orderID))
		c.mu.Lock()
		defer c.mu.Unlock()
		if cached, ok := c.lastGood.chatMsgs[orderID]; ok {
			return cached
		}
		return demoChatMessages(orderID)
	}

	conversation := make([]models.ChatMessage, 0, len(all))
	for _, m := range all {
		if m.OrderID == orderID {
			conversation = append(conversation, m)
		}
	}
	activity.SortChat(conversation)

	c.mu.Lock()
	c.lastGood.chatMsgs[orderID] = conversation
	c.mu.Unlock()
	return conversation
}

// SupportRequests returns all support tickets.
func (c *Client) SupportRequests(ctx context.Context) []models.SupportRequest {
	var requests []models.SupportRequest
	if err := c.getData(ctx, "/api/frontend/data/support_requests", &requests); err != nil {
		c.logger.Warn("support fetch failed, serving cached", slog.Any("error", err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastGood.support
	}
	c.mu.Lock()
	c.lastGood.support = requests
	c.mu.Unlock()
	return requests
}

// Reviews returns all client reviews.
func (c *Client) Reviews(ctx context.Context) []models.Review {
	var reviews []models.Review
	if err := c.getData(ctx, "/api/frontend/data/reviews", &reviews); err != nil {
		c.logger.Warn("reviews fetch failed, serving cached", slog.Any("error", err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastGood.reviews
	}
	c.mu.Lock()
	c.lastGood.reviews = reviews
	c.mu.Unlock()
	return reviews
}

// AverageRating returns the aggregate review score.
func (c *Client) AverageRating(ctx context.Context) models.AverageRating {
	var rating models.AverageRating
	if err := c.getData(ctx, "/api/frontend/data/average_rating", &rating); err != nil {
		c.logger.Warn("average rating fetch failed, serving cached", slog.Any("error", err))
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.lastGood.avgRating
	}
	c.mu.Lock()
	c.lastGood.avgRating = rating
	c.mu.Unlock()
	return rating
}

// UpdateOrderStatus changes an order's status with an optional admin comment.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status, comment string) error {
	return c.post(ctx, "/api/frontend/order/status", map[string]any{
		"orderId":   orderID,
		"newStatus": status,
		"comment":   comment,
	}, nil)
}

// MarkMessageProcessed marks an inbound message as handled.
func (c *Client) MarkMessageProcessed(ctx context.Context, messageID int64) error {
	return c.post(ctx, "/api/frontend/message/process", map[string]any{
		"messageId": messageID,
	}, nil)
}

// MarkSupportProcessed marks a support ticket as handled.
func (c *Client) MarkSupportProcessed(ctx context.Context, supportID int64) error {
	return c.post(ctx, "/api/frontend/support/process", map[string]any{
		"supportId": supportID,
	}, nil)
}

// SendAdminMessage posts an admin reply into an order conversation and
// returns the stored message as echoed by the backend.
func (c *Client) SendAdminMessage(ctx context.Context, orderID int64, body string) (models.ChatMessage, error) {
	var wire struct {
		Success      bool               `json:"success"`
		AdminMessage models.ChatMessage `json:"adminMessage"`
		Error        string             `json:"error"`
	}
	err := c.postRaw(ctx, "/api/frontend/chat/admin-message", map[string]any{
		"orderId": orderID,
		"message": body,
	}, &wire)
	if err != nil {
		return models.ChatMessage{}, err
	}
	if !wire.Success {
		return models.ChatMessage{}, fmt.Errorf("%w: %s", models.ErrBackendRejected, wire.Error)
	}

	sent := wire.AdminMessage
	sent.OrderID = orderID
	sent.IsAdmin = true
	if sent.Body == "" {
		sent.Body = body
	}
	return sent, nil
}

// getData fetches path and unmarshals the envelope's data field into out.
func (c *Client) getData(ctx context.Context, path string, out any) error {
	var env envelope
	if err := c.getRaw(ctx, path, &env); err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", models.ErrBackendRejected, env.Error)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", path, err)
	}
	return nil
}

// getRaw fetches path and decodes the whole response body into out.
func (c *Client) getRaw(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", models.ErrBackendUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// post sends body to path and fails when the envelope carries success=false.
func (c *Client) post(ctx context.Context, path string, body any, out *envelope) error {
	var env envelope
	if out == nil {
		out = &env
	}
	if err := c.postRaw(ctx, path, body, out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", models.ErrBackendRejected, out.Error)
	}
	return nil
}

// postRaw sends body to path and decodes the whole response into out.
func (c *Client) postRaw(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", models.ErrBackendUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// parseRating tolerates the backend sending the rating as a number or a
// numeric string.
func parseRating(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
