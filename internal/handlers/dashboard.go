package handlers

import (
	"net/http"
	"time"

	"github.com/avelichko/crmdesk/internal/activity"
	"github.com/avelichko/crmdesk/internal/models"
	"github.com/avelichko/crmdesk/internal/syncer"
	"github.com/avelichko/crmdesk/internal/timeutil"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
)

// DashboardHandler serves the dashboard overview
type DashboardHandler struct {
	backend CRMBackend
	tracker PageTracker
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(backend CRMBackend, tracker PageTracker) *DashboardHandler {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &DashboardHandler{backend: backend, tracker: tracker}
}

// DashboardResponse is the overview payload: headline counters plus the
// merged recent-activity feed.
type DashboardResponse struct {
	Stats    models.Stats   `json:"stats"`
	Activity []ActivityView `json:"activity"`
}

// ActivityView is one feed item with a human-readable relative time attached
type ActivityView struct {
	models.ActivityItem
	TimeAgo string `json:"time_ago"`
}

// Overview returns stats and the activity feed, newest first
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActivePage(syncer.PageDashboard)

	ctx := r.Context()
	stats := h.backend.Stats(ctx)
	feed := activity.MergeRecent(h.backend.Orders(ctx), h.backend.Messages(ctx), activity.DefaultFeedLimit)

	now := time.Now()
	views := make([]ActivityView, len(feed))
	for i, item := range feed {
		views[i] = ActivityView{
			ActivityItem: item,
			TimeAgo:      timeutil.FormatRelative(item.TimestampMs, now),
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, DashboardResponse{
		Stats:    stats,
		Activity: views,
	})
}
