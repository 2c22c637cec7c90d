package booktable

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/lib/jwt"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

type Response struct {
	resp.Response
	Booking models.Booking `json:"booking"`
	ID      string         `json:"_id"`
}

type BookingCreator interface {
	BookTable(ctx context.Context, ownerID string, req models.BookingRequest) (models.Booking, error)
}

// New creates a booking owned by the authenticated user.
func New(log *slog.Logger, bookingService BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.book-table.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID, ok := jwt.UserID(r.Context())
		if !ok {
			log.Error("unauthorized: no userID in context")

			resp.JSON(w, r, http.StatusUnauthorized, resp.Error("Unauthorized"))

			return
		}

		var req models.BookingRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			resp.JSON(w, r, http.StatusBadRequest, resp.Error("Failed to decode request"))

			return
		}

		booking, err := bookingService.BookTable(r.Context(), userID, req)
		if err != nil {
			WriteError(w, r, log, err)

			return
		}

		log.Info("table booked successfully",
			slog.String("user_id", userID),
			slog.String("booking_id", booking.ID),
		)

		ResponseCreated(w, r, booking)
	}
}

// WriteError renders a booking creation failure.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var validateErr validator.ValidationErrors
	if errors.As(err, &validateErr) {
		log.Info("invalid request", sl.Err(err))

		resp.JSON(w, r, http.StatusBadRequest, resp.ValidationError(validateErr))

		return
	}

	log.Error("failed to book table", sl.Err(err))

	resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Server error occurred while creating booking", err))
}

func ResponseCreated(w http.ResponseWriter, r *http.Request, booking models.Booking) {
	resp.JSON(w, r, http.StatusCreated, Response{
		Response: resp.OKWithMessage("Booking created successfully"),
		Booking:  booking,
		ID:       booking.ID,
	})
}
