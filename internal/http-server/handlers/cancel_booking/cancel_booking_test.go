package cancelbooking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservation_service/internal/lib/jwt"
	"reservation_service/internal/models"
	bookingsrv "reservation_service/internal/services/booking"
	"reservation_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type fakeCanceller struct {
	err       error
	gotID     string
	requester string
}

func (f *fakeCanceller) CancelBooking(_ context.Context, id string, requesterID string) (models.Booking, error) {
	f.gotID = id
	f.requester = requesterID
	if f.err != nil {
		return models.Booking{}, f.err
	}

	return models.Booking{ID: id, UserID: requesterID}, nil
}

func TestCancelBookingHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"ok", nil, http.StatusOK, "Booking cancelled successfully"},
		{"not found", fmt.Errorf("wrapped: %w", storage.ErrBookingNotFound), http.StatusNotFound, "Booking not found"},
		{"forbidden", bookingsrv.ErrForbidden, http.StatusForbidden, "You can cancel only your own bookings"},
		{"timeout", storage.Wrap("op", context.DeadlineExceeded), http.StatusInternalServerError, "storage operation timed out"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "Failed to cancel booking"},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	token, err := jwt.NewToken("user-1", secret, time.Hour)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCanceller{err: tt.err}

			r := chi.NewRouter()
			r.With(jwt.AuthMiddleware(log, secret)).Delete("/bookings/{id}", New(log, svc))

			req := httptest.NewRequest(http.MethodDelete, "/bookings/mem_7", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Equal(t, "mem_7", svc.gotID)
			assert.Equal(t, "user-1", svc.requester)
		})
	}
}
