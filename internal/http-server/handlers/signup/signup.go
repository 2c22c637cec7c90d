package signup

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

type UserRegisterer interface {
	RegisterNewUser(ctx context.Context, req models.SignupRequest) (models.User, string, error)
}

func New(log *slog.Logger, registerer UserRegisterer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signup.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req models.SignupRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			resp.JSON(w, r, http.StatusBadRequest, resp.Error("Failed to decode request"))

			return
		}

		user, token, err := registerer.RegisterNewUser(r.Context(), req)
		if err != nil {
			var validateErr validator.ValidationErrors
			switch {
			case errors.As(err, &validateErr):
				log.Info("invalid request", sl.Err(err))

				resp.JSON(w, r, http.StatusBadRequest, resp.ValidationError(validateErr))
			case errors.Is(err, auth.ErrUserExists):
				log.Info("user already exists")

				resp.JSON(w, r, http.StatusBadRequest, resp.Error("User with this email already exists."))
			default:
				log.Error("failed to create user", sl.Err(err))

				resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Failed to create user. Please try again.", err))
			}

			return
		}

		log.Info("user created", slog.String("user_id", user.ID))

		resp.JSON(w, r, http.StatusCreated, Response{
			Response: resp.OKWithMessage("User created successfully"),
			User:     user,
			Token:    token,
		})
	}
}
