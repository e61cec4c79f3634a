package handlers

import (
	"net/http"

	"github.com/avelichko/crmdesk/internal/models"
	"github.com/avelichko/crmdesk/internal/syncer"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
)

// ReviewsHandler serves the reviews page
type ReviewsHandler struct {
	backend CRMBackend
	tracker PageTracker
}

// NewReviewsHandler creates a new ReviewsHandler
func NewReviewsHandler(backend CRMBackend, tracker PageTracker) *ReviewsHandler {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &ReviewsHandler{backend: backend, tracker: tracker}
}

// ReviewsResponse is the reviews page payload
type ReviewsResponse struct {
	Reviews []models.Review      `json:"reviews"`
	Rating  models.AverageRating `json:"rating"`
}

// List returns all reviews with the aggregate score
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActivePage(syncer.PageReviews)

	ctx := r.Context()
	pkghttp.WriteJSON(w, http.StatusOK, ReviewsResponse{
		Reviews: h.backend.Reviews(ctx),
		Rating:  h.backend.AverageRating(ctx),
	})
}
