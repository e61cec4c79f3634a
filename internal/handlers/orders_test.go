package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichko/crmdesk/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersRouter(backend *mockBackend, tracker PageTracker) http.Handler {
	h := NewOrdersHandler(backend, tracker)
	r := chi.NewRouter()
	r.Get("/api/orders", h.List)
	r.Post("/api/orders/{orderID}/status", h.UpdateStatus)
	return r
}

func TestOrdersHandler_List(t *testing.T) {
	backend := &mockBackend{orders: []models.Order{{ID: 7, Username: "alice"}}}
	router := ordersRouter(backend, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var orders []models.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, int64(7), orders[0].ID)
}

func TestOrdersHandler_UpdateStatus(t *testing.T) {
	backend := &mockBackend{}
	router := ordersRouter(backend, nil)

	body, _ := json.Marshal(map[string]string{"status": "completed", "comment": "done"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/7/status", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, backend.statusCalls, 1)
	assert.Equal(t, statusCall{orderID: 7, status: "completed", comment: "done"}, backend.statusCalls[0])
}

func TestOrdersHandler_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	backend := &mockBackend{}
	router := ordersRouter(backend, nil)

	body, _ := json.Marshal(map[string]string{"status": "archived"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/7/status", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, backend.statusCalls)
}

func TestOrdersHandler_UpdateStatusInvalidID(t *testing.T) {
	router := ordersRouter(&mockBackend{}, nil)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/abc/status", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersHandler_UpdateStatusBackendRejected(t *testing.T) {
	backend := &mockBackend{statusErr: models.ErrBackendRejected}
	router := ordersRouter(backend, nil)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/7/status", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersHandler_UpdateStatusBackendDown(t *testing.T) {
	backend := &mockBackend{statusErr: models.ErrBackendUnavailable}
	router := ordersRouter(backend, nil)

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/7/status", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
