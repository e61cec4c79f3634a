package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichko/crmdesk/internal/guard"
	pkglogger "github.com/avelichko/crmdesk/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockValidator implements CredentialValidator for tests
type mockValidator struct {
	ok       bool
	err      error
	snapshot guard.Snapshot
}

func (m *mockValidator) Validate(username, password string) (bool, error) { return m.ok, m.err }
func (m *mockValidator) Snapshot() guard.Snapshot                         { return m.snapshot }

// mockIssuer implements TokenIssuer for tests
type mockIssuer struct {
	token string
	err   error
}

func (m *mockIssuer) Generate(username string) (string, error) { return m.token, m.err }

func newAuthHandler(v CredentialValidator, issuer TokenIssuer) *AuthHandler {
	audit := pkglogger.NewAuditLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewAuthHandler(v, issuer, audit, nil)
}

func loginRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/auth/login", &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_LoginSuccessReturnsToken(t *testing.T) {
	h := newAuthHandler(&mockValidator{ok: true}, &mockIssuer{token: "signed-token"})

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{"username": "admin", "password": "admin123"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "signed-token", resp.Token)
}

func TestAuthHandler_LoginWrongCredentials(t *testing.T) {
	h := newAuthHandler(&mockValidator{ok: false}, &mockIssuer{token: "unused"})

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{"username": "admin", "password": "wrong"}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication failed")
}

func TestAuthHandler_LoginLockedOutSetsRetryAfter(t *testing.T) {
	h := newAuthHandler(&mockValidator{err: &guard.LockedOutError{RemainingSeconds: 540}}, &mockIssuer{})

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{"username": "admin", "password": "admin123"}))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "540", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "540 seconds")
}

func TestAuthHandler_LoginRejectsMissingFields(t *testing.T) {
	h := newAuthHandler(&mockValidator{ok: true}, &mockIssuer{token: "unused"})

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{"username": "admin"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_LoginRejectsMalformedBody(t *testing.T) {
	h := newAuthHandler(&mockValidator{ok: true}, &mockIssuer{token: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_StateReturnsSnapshot(t *testing.T) {
	h := newAuthHandler(&mockValidator{snapshot: guard.Snapshot{
		Attempts:             3,
		MaxAttempts:          5,
		IsLocked:             false,
		RemainingLockSeconds: 0,
	}}, &mockIssuer{})

	rec := httptest.NewRecorder()
	h.State(rec, httptest.NewRequest(http.MethodGet, "/auth/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snap guard.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, 3, snap.Attempts)
	assert.Equal(t, 5, snap.MaxAttempts)
}
