package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/avelichko/crmdesk/internal/guard"
	pkghttp "github.com/avelichko/crmdesk/pkg/http"
	pkglogger "github.com/avelichko/crmdesk/pkg/logger"
)

// CredentialValidator defines the interface for login attempt validation
type CredentialValidator interface {
	Validate(username, password string) (bool, error)
	Snapshot() guard.Snapshot
}

// TokenIssuer mints session tokens for validated logins
type TokenIssuer interface {
	Generate(username string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	validator CredentialValidator
	tokens    TokenIssuer
	audit     *pkglogger.AuditLogger
	ipConfig  *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(validator CredentialValidator, tokens TokenIssuer, audit *pkglogger.AuditLogger, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		validator: validator,
		tokens:    tokens,
		audit:     audit,
		ipConfig:  ipConfig,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles the admin login. A lockout produces 429 with a Retry-After
// header; a plain mismatch produces 401 with a generic message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	ok, err := h.validator.Validate(req.Username, req.Password)
	if err != nil {
		var locked *guard.LockedOutError
		if errors.As(err, &locked) {
			h.audit.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login",
				Username:      req.Username,
				IPAddress:     ipAddress,
				UserAgent:     userAgent,
				Success:       false,
				FailureReason: "locked_out",
			})
			w.Header().Set("Retry-After", strconv.Itoa(locked.RemainingSeconds))
			pkghttp.WriteTooManyRequests(w, locked.Error())
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	if !ok {
		h.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			Username:      req.Username,
			IPAddress:     ipAddress,
			UserAgent:     userAgent,
			Success:       false,
			FailureReason: "invalid_credentials",
		})
		pkghttp.WriteUnauthorized(w, "Authentication failed")
		return
	}

	token, err := h.tokens.Generate(req.Username)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	h.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login",
		Username:  req.Username,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Success:   true,
	})
	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// State exposes the attempt-guard state for diagnostics
func (h *AuthHandler) State(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.validator.Snapshot())
}
