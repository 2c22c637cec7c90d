// Package legacy serves the unauthenticated booking routes kept for older
// clients. Bookings created here have no owner.
package legacy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	booktable "reservation_service/internal/http-server/handlers/book_table"
	getbookings "reservation_service/internal/http-server/handlers/get_bookings"
	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"
	"reservation_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type BookingService interface {
	BookTableAnonymous(ctx context.Context, req models.BookingRequest) (models.Booking, error)
	AllBookings(ctx context.Context) ([]models.Booking, error)
	BookingsByGuests(ctx context.Context, guests int) ([]models.Booking, error)
	Booking(ctx context.Context, id string) (models.Booking, error)
}

type BookingResponse struct {
	resp.Response
	Booking models.Booking `json:"booking"`
}

func Save(log *slog.Logger, bookingService BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.legacy.Save"

		log := withRequest(log, r, op)

		var req models.BookingRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			resp.JSON(w, r, http.StatusBadRequest, resp.Error("Failed to decode request"))

			return
		}

		booking, err := bookingService.BookTableAnonymous(r.Context(), req)
		if err != nil {
			booktable.WriteError(w, r, log, err)

			return
		}

		log.Info("legacy booking saved", slog.String("booking_id", booking.ID))

		booktable.ResponseCreated(w, r, booking)
	}
}

func List(log *slog.Logger, bookingService BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.legacy.List"

		log := withRequest(log, r, op)

		bookings, err := bookingService.AllBookings(r.Context())
		if err != nil {
			log.Error("failed to get bookings", sl.Err(err))

			resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Failed to retrieve bookings", err))

			return
		}

		getbookings.ResponseOK(w, r, bookings)
	}
}

// ByGuests lists bookings for the guest count in the {guests} URL parameter.
func ByGuests(log *slog.Logger, bookingService BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.legacy.ByGuests"

		log := withRequest(log, r, op)

		guests, err := strconv.Atoi(chi.URLParam(r, "guests"))
		if err != nil {
			log.Info("invalid guest count", slog.String("guests", chi.URLParam(r, "guests")))

			resp.JSON(w, r, http.StatusBadRequest, resp.Error("Invalid guest count"))

			return
		}

		bookings, err := bookingService.BookingsByGuests(r.Context(), guests)
		if err != nil {
			log.Error("failed to get bookings", sl.Err(err))

			resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Failed to retrieve bookings", err))

			return
		}

		getbookings.ResponseOK(w, r, bookings)
	}
}

func ByID(log *slog.Logger, bookingService BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.legacy.ByID"

		log := withRequest(log, r, op)

		id := chi.URLParam(r, "id")

		booking, err := bookingService.Booking(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				resp.JSON(w, r, http.StatusNotFound, resp.Error("Booking not found"))

				return
			}

			log.Error("failed to get booking", sl.Err(err))

			resp.JSON(w, r, http.StatusInternalServerError, resp.ServerError("Failed to retrieve booking", err))

			return
		}

		resp.JSON(w, r, http.StatusOK, BookingResponse{
			Response: resp.OK(),
			Booking:  booking,
		})
	}
}

func withRequest(log *slog.Logger, r *http.Request, op string) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
