package routes

import (
	"github.com/avelichko/crmdesk/internal/auth"
	"github.com/avelichko/crmdesk/internal/handlers"
	"github.com/avelichko/crmdesk/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Handlers bundles every page handler the router mounts
type Handlers struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Orders    *handlers.OrdersHandler
	Messages  *handlers.MessagesHandler
	Chat      *handlers.ChatHandler
	Support   *handlers.SupportHandler
	Reviews   *handlers.ReviewsHandler
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, tokenManager *auth.TokenManager) {
	rateLimitConfig := middleware.DefaultLoginRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", h.Auth.Login)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Get("/auth/state", h.Auth.State)

		r.Get("/api/dashboard", h.Dashboard.Overview)

		r.Get("/api/orders", h.Orders.List)
		r.Post("/api/orders/{orderID}/status", h.Orders.UpdateStatus)

		r.Get("/api/messages", h.Messages.List)
		r.Post("/api/messages/{messageID}/process", h.Messages.MarkProcessed)

		r.Get("/api/chat/orders", h.Chat.Orders)
		r.Get("/api/chat/orders/{orderID}/messages", h.Chat.Messages)
		r.Post("/api/chat/orders/{orderID}/messages", h.Chat.Send)

		r.Get("/api/support", h.Support.List)
		r.Post("/api/support/{supportID}/process", h.Support.MarkProcessed)

		r.Get("/api/reviews", h.Reviews.List)
	})
}
