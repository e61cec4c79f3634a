package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichko/crmdesk/internal/backend"
	"github.com/avelichko/crmdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(t *testing.T, handler http.Handler) (*backend.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backend.New(srv.URL, discardLogger()), srv
}

func dataResponse(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	err = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": json.RawMessage(raw)})
	require.NoError(t, err)
}

func TestClient_OrdersFetched(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/frontend/data/requests", r.URL.Path)
		dataResponse(t, w, []map[string]any{
			{"id": 7, "username": "alice", "service_name": "Bot", "status": "pending",
				"timestamp": "2024-12-19 10:30:00"},
		})
	}))

	orders := c.Orders(context.Background())
	require.Len(t, orders, 1)
	assert.Equal(t, int64(7), orders[0].ID)
	assert.Equal(t, "alice", orders[0].Username)
	assert.Equal(t, int64(1734604200000), orders[0].Timestamp.Ms())
}

func TestClient_OrdersFallBackToDemoOnServerError(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	orders := c.Orders(context.Background())
	require.NotEmpty(t, orders)
	assert.Equal(t, "john_doe", orders[0].Username)
}

func TestClient_OrdersFallBackToLastGood(t *testing.T) {
	fail := false
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		dataResponse(t, w, []map[string]any{{"id": 99, "username": "bob", "timestamp": 1734604200}})
	}))

	first := c.Orders(context.Background())
	require.Len(t, first, 1)

	fail = true
	second := c.Orders(context.Background())
	require.Len(t, second, 1)
	assert.Equal(t, int64(99), second[0].ID)
}

func TestClient_OrdersFallBackOnConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := backend.New(url, discardLogger())
	orders := c.Orders(context.Background())
	assert.NotEmpty(t, orders)
}

func TestClient_StatsMappedFromBackendShape(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/frontend/stats", r.URL.Path)
		io.WriteString(w, `{"success": true, "stats": {"requests": 31, "messages": 4, "average_rating": "4.5"}}`)
	}))

	stats := c.Stats(context.Background())
	assert.Equal(t, 31, stats.TotalOrders)
	assert.Equal(t, 4, stats.UnreadMessages)
	assert.Equal(t, 4.5, stats.AverageRating)
}

func TestClient_StatsFallBackToDemo(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": false, "error": "maintenance"}`)
	}))

	stats := c.Stats(context.Background())
	assert.Equal(t, 25, stats.TotalOrders)
	assert.Equal(t, 4.7, stats.AverageRating)
}

func TestClient_ChatMessagesFilteredAndSorted(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/frontend/data/chat_messages", r.URL.Path)
		dataResponse(t, w, []map[string]any{
			{"id": 3, "order_id": 5, "message": "later", "timestamp": 1734604300},
			{"id": 1, "order_id": 5, "message": "earlier", "timestamp": 1734604200},
			{"id": 2, "order_id": 9, "message": "other order", "timestamp": 1734604250},
		})
	}))

	msgs := c.ChatMessages(context.Background(), 5)
	require.Len(t, msgs, 2)
	assert.Equal(t, "earlier", msgs[0].Body)
	assert.Equal(t, "later", msgs[1].Body)
}

func TestClient_ChatMessagesFallBackToDemoForUnseenOrder(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	msgs := c.ChatMessages(context.Background(), 42)
	require.NotEmpty(t, msgs)
	assert.Equal(t, int64(42), msgs[0].OrderID)
}

func TestClient_UpdateOrderStatusSendsPayload(t *testing.T) {
	var got map[string]any
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/frontend/order/status", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"success": true}`)
	}))

	err := c.UpdateOrderStatus(context.Background(), 7, "completed", "done well")
	require.NoError(t, err)
	assert.Equal(t, float64(7), got["orderId"])
	assert.Equal(t, "completed", got["newStatus"])
	assert.Equal(t, "done well", got["comment"])
}

func TestClient_MutationSurfacesBackendError(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": false, "error": "order not found"}`)
	}))

	err := c.MarkMessageProcessed(context.Background(), 123)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBackendRejected)
	assert.Contains(t, err.Error(), "order not found")
}

func TestClient_MutationFailsWhenBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := backend.New(url, discardLogger())
	err := c.MarkSupportProcessed(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
}

func TestClient_SendAdminMessageReturnsStoredMessage(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/frontend/chat/admin-message", r.URL.Path)
		io.WriteString(w, `{"success": true, "adminMessage": {"id": 55, "message": "hello", "timestamp": 1734604200}}`)
	}))

	msg, err := c.SendAdminMessage(context.Background(), 9, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(55), msg.ID)
	assert.Equal(t, int64(9), msg.OrderID)
	assert.True(t, msg.IsAdmin)
	assert.Equal(t, "hello", msg.Body)
	assert.Equal(t, int64(1734604200000), msg.Timestamp.Ms())
}

func TestClient_SendAdminMessageRejected(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": false, "error": "conversation closed"}`)
	}))

	_, err := c.SendAdminMessage(context.Background(), 9, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBackendRejected)
	assert.Contains(t, err.Error(), "conversation closed")
}
