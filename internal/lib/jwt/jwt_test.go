package jwt

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestNewToken_RoundTrip(t *testing.T) {
	token, err := NewToken("user-1", secret, 7*24*time.Hour)
	require.NoError(t, err)

	uid, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestNewToken_SevenDayExpiry(t *testing.T) {
	token, err := NewToken("user-1", secret, 7*24*time.Hour)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)

	exp, err := parsed.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp.Time, 5*time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := NewToken("user-1", secret, -time.Minute)
	require.NoError(t, err)

	otherSecret, err := NewToken("user-1", "other-secret", time.Hour)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "user-1",
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	noUID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := map[string]string{
		"empty":        "",
		"malformed":    "not-a-token",
		"expired":      expired,
		"wrong secret": otherSecret,
		"none alg":     noneAlg,
		"no exp":       noExp,
		"no uid":       noUID,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(token, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	valid, err := NewToken("user-1", secret, time.Hour)
	require.NoError(t, err)

	var gotUID string
	handler := AuthMiddleware(log, secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"bad token", "Bearer garbage", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUID = ""

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "user-1", gotUID)
			} else {
				assert.Empty(t, gotUID)
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}
