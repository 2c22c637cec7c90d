package getbookings

import (
	"context"
	"log/slog"
	"net/http"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/lib/jwt"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"

	"github.com/go-chi/chi/middleware"
)

type Response struct {
	resp.Response
	Bookings []models.Booking `json:"bookings"`
}

type BookingLister interface {
	UserBookings(ctx context.Context, ownerID string) ([]models.Booking, error)
}

func New(log *slog.Logger, bookingService BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.get-bookings.New"

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

		bookings, err := bookingService.UserBookings(r.Context(), userID)
		if err != nil {
			log.Error("failed to get bookings", sl.Err(err))

			resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Failed to retrieve bookings", err))

			return
		}

		log.Info("bookings fetched successfully",
			slog.String("user_id", userID),
			slog.Int("count", len(bookings)),
		)

		ResponseOK(w, r, bookings)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, bookings []models.Booking) {
	if bookings == nil {
		bookings = []models.Booking{}
	}

	resp.JSON(w, r, http.StatusOK, Response{
		Response: resp.OK(),
		Bookings: bookings,
	})
}
