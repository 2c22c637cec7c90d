package jwt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// NewToken issues an HS256 token carrying the user id, valid for ttl.
func NewToken(userID string, secret string, ttl time.Duration) (string, error) {
	const op = "jwt.NewToken"

	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ParseToken verifies signature and expiry and returns the user id.
func ParseToken(tokenStr string, secret string) (string, error) {
	const op = "jwt.ParseToken"

	if tokenStr == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID, ok := claims["uid"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return userID, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// user id in the request context.
func AuthMiddleware(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := log.With(
				slog.String("op", "jwt.AuthMiddleware"),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("missing Authorization header")

				resp.JSON(w, r, http.StatusUnauthorized, resp.Error("No token provided"))

				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Debug("invalid Authorization header format")

				resp.JSON(w, r, http.StatusUnauthorized, resp.Error("No token provided"))

				return
			}

			userID, err := ParseToken(strings.TrimSpace(parts[1]), secret)
			if err != nil {
				log.Debug("invalid token")

				resp.JSON(w, r, http.StatusUnauthorized, resp.Error("Invalid token"))

				return
			}

			ctx := context.WithValue(r.Context(), models.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(models.UserIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}

	return userID, true
}
