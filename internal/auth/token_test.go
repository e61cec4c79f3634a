package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelichko/crmdesk/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tm.Generate("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenManager_UniqueJTIPerToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	first, err := tm.Generate("admin")
	require.NoError(t, err)
	second, err := tm.Generate("admin")
	require.NoError(t, err)

	c1, err := tm.Validate(first)
	require.NoError(t, err)
	c2, err := tm.Validate(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	other := auth.NewTokenManager("other-secret", time.Hour)

	token, err := tm.Generate("admin")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Generate("admin")
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsUnsignedToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{Username: "admin"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestMiddleware_RejectsMissingAndMalformedHeaders(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	handler := auth.Middleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc123",
		"bogus token":  "Bearer not-a-jwt",
		"extra spaces": "Bearer",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMiddleware_InjectsClaims(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tm.Generate("admin")
	require.NoError(t, err)

	var seen *auth.Claims
	handler := auth.Middleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "admin", seen.Username)
}
