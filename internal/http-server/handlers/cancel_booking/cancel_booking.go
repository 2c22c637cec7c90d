package cancelbooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/lib/jwt"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"
	bookingsrv "reservation_service/internal/services/booking"
	"reservation_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

type Response struct {
	resp.Response
	Booking models.Booking `json:"booking"`
}

type BookingCanceller interface {
	CancelBooking(ctx context.Context, id string, requesterID string) (models.Booking, error)
}

// New deletes the booking named by the {id} URL parameter when it belongs to
// the authenticated user.
func New(log *slog.Logger, bookingService BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cancel-booking.New"

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

		id := chi.URLParam(r, "id")

		deleted, err := bookingService.CancelBooking(r.Context(), id, userID)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrBookingNotFound):
				log.Warn("booking not found", slog.String("booking_id", id))

				resp.JSON(w, r, http.StatusNotFound, resp.Error("Booking not found"))
			case errors.Is(err, bookingsrv.ErrForbidden):
				log.Warn("user tried to cancel another user's booking",
					slog.String("user_id", userID),
					slog.String("booking_id", id),
				)

				resp.JSON(w, r, http.StatusForbidden, resp.Error("You can cancel only your own bookings"))
			default:
				log.Error("failed to cancel booking", sl.Err(err))

				resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Failed to cancel booking", err))
			}

			return
		}

		log.Info("booking canceled successfully",
			slog.String("user_id", userID),
			slog.String("booking_id", id),
		)

		resp.JSON(w, r, http.StatusOK, Response{
			Response: resp.OKWithMessage("Booking cancelled successfully"),
			Booking:  deleted,
		})
	}
}
