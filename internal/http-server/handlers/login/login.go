package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"
	"reservation_service/internal/services/auth"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

type Response struct {
	resp.Response
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (models.User, string, error)
}

func New(log *slog.Logger, authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req models.LoginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			resp.JSON(w, r, http.StatusBadRequest, resp.Error("Failed to decode request"))

			return
		}

		user, token, err := authenticator.Login(r.Context(), req)
		if err != nil {
			var validateErr validator.ValidationErrors
			switch {
			case errors.As(err, &validateErr):
				log.Info("invalid request", sl.Err(err))

				resp.JSON(w, r, http.StatusBadRequest, resp.ErrorWithDetails("Email and password are required.", resp.ValidationError(validateErr).Details))
			case errors.Is(err, auth.ErrInvalidCredentials):
				log.Info("invalid credentials")

				resp.JSON(w, r, http.StatusUnauthorized, resp.Error("Invalid email or password."))
			default:
				log.Error("failed to login", sl.Err(err))

				resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Login failed. Please try again.", err))
			}

			return
		}

		log.Info("user logged in", slog.String("user_id", user.ID))

		resp.JSON(w, r, http.StatusOK, Response{
			Response: resp.OKWithMessage("Login successful"),
			User:     user,
			Token:    token,
		})
	}
}
