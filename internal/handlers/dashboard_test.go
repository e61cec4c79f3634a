package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichko/crmdesk/internal/models"
	"github.com/avelichko/crmdesk/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_OverviewMergesActivity(t *testing.T) {
	backend := &mockBackend{
		stats: models.Stats{TotalOrders: 10, UnreadMessages: 2},
		orders: []models.Order{
			{ID: 1, Username: "alice", ServiceName: "Bot", Status: "pending", Timestamp: 100},
		},
		messages: []models.Message{
			{ID: 2, Username: "bob", Body: "hello", Timestamp: 200},
		},
	}
	tracker := &trackerSpy{}
	h := NewDashboardHandler(backend, tracker)

	rec := httptest.NewRecorder()
	h.Overview(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, 10, resp.Stats.TotalOrders)
	require.Len(t, resp.Activity, 2)
	// Newest first: the message at 200 precedes the order at 100.
	assert.Equal(t, models.ActivityMessage, resp.Activity[0].Kind)
	assert.Equal(t, models.ActivityOrder, resp.Activity[1].Kind)
	assert.NotEmpty(t, resp.Activity[0].TimeAgo)

	assert.Equal(t, []syncer.Page{syncer.PageDashboard}, tracker.pages)
}

func TestDashboardHandler_OverviewEmptyBackend(t *testing.T) {
	h := NewDashboardHandler(&mockBackend{}, nil)

	rec := httptest.NewRecorder()
	h.Overview(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Activity)
}
