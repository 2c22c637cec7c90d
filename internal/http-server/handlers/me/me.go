package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/lib/jwt"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"
	"reservation_service/internal/services/auth"

	"github.com/go-chi/chi/middleware"
)

type Response struct {
	resp.Response
	User models.User `json:"user"`
}

type UserProvider interface {
	User(ctx context.Context, userID string) (models.User, error)
}

// New expects jwt.AuthMiddleware in front of it.
func New(log *slog.Logger, users UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.me.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID, ok := jwt.UserID(r.Context())
		if !ok {
			log.Error("unauthorized: no userID in context")

			resp.JSON(w, r, http.StatusUnauthorized, resp.Error("Access denied. No token provided."))

			return
		}

		user, err := users.User(r.Context(), userID)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				log.Warn("token refers to unknown user", slog.String("user_id", userID))

				resp.JSON(w, r, http.StatusUnauthorized, resp.Error("Invalid token."))

				return
			}

			log.Error("failed to get user", sl.Err(err))

			resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Failed to get user", err))

			return
		}

		resp.JSON(w, r, http.StatusOK, Response{
			Response: resp.OK(),
			User:     user,
		})
	}
}
