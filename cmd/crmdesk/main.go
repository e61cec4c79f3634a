package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelichko/crmdesk/internal/auth"
	"github.com/avelichko/crmdesk/internal/backend"
	"github.com/avelichko/crmdesk/internal/config"
	"github.com/avelichko/crmdesk/internal/guard"
	"github.com/avelichko/crmdesk/internal/handlers"
	middlewareCustom "github.com/avelichko/crmdesk/internal/middleware"
	"github.com/avelichko/crmdesk/internal/realtime"
	"github.com/avelichko/crmdesk/internal/routes"
	"github.com/avelichko/crmdesk/internal/syncer"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
	pkglogger "github.com/avelichko/crmdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const refreshTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Login attempt guard for the single admin credential
	loginGuard := guard.New(guard.Credentials{
		Username:       cfg.Auth.AdminUsername,
		PasswordDigest: cfg.Auth.AdminPasswordDigest,
	}, logger)

	// Token manager for session tokens
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	// CRM backend client with last-known-good fallback
	crm := backend.New(cfg.Backend.BaseURL, logger,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.Backend.RequestTimeout}))

	// Coordinator routes push events to cache-warming refreshes per page
	coordinator := syncer.New(map[syncer.Page]syncer.RefreshFunc{
		syncer.PageDashboard: refreshFunc(func(ctx context.Context) {
			crm.Stats(ctx)
			crm.Orders(ctx)
			crm.Messages(ctx)
		}),
		syncer.PageOrders:   refreshFunc(func(ctx context.Context) { crm.Orders(ctx) }),
		syncer.PageMessages: refreshFunc(func(ctx context.Context) { crm.Messages(ctx) }),
		syncer.PageChat:     refreshFunc(func(ctx context.Context) { crm.ChatOrders(ctx) }),
		syncer.PageSupport:  refreshFunc(func(ctx context.Context) { crm.SupportRequests(ctx) }),
		syncer.PageReviews: refreshFunc(func(ctx context.Context) {
			crm.Reviews(ctx)
			crm.AverageRating(ctx)
		}),
	}, func(orderID int64) {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		crm.ChatMessages(ctx, orderID)
	}, logger)

	// Realtime push channel
	channel := realtime.New(cfg.Realtime.StreamURL, coordinator, logger,
		realtime.WithReconnectDelay(cfg.Realtime.ReconnectDelay))

	// Security services
	auditLogger := pkglogger.NewAuditLogger(logger)
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	// Initialize handlers
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(loginGuard, tokenManager, auditLogger, ipConfig),
		Dashboard: handlers.NewDashboardHandler(crm, coordinator),
		Orders:    handlers.NewOrdersHandler(crm, coordinator),
		Messages:  handlers.NewMessagesHandler(crm, coordinator),
		Chat:      handlers.NewChatHandler(crm, coordinator),
		Support:   handlers.NewSupportHandler(crm, coordinator),
		Reviews:   handlers.NewReviewsHandler(crm, coordinator),
	}

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, h, tokenManager)

	// Health check reports the realtime stream state
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","realtime":%q}`, channel.State())
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the realtime consumer; it reconnects on a fixed delay until the
	// context is cancelled.
	streamCtx, streamCancel := context.WithCancel(context.Background())
	defer streamCancel()

	go func() {
		if err := channel.Run(streamCtx); err != nil && streamCtx.Err() == nil {
			logger.Error("realtime channel stopped", slog.Any("error", err))
		}
	}()

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	streamCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// refreshFunc adapts a context-taking cache warmer to the coordinator's
// no-argument refresh callback.
func refreshFunc(fn func(ctx context.Context)) syncer.RefreshFunc {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		fn(ctx)
	}
}
