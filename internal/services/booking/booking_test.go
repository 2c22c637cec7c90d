package bookingsrv

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"reservation_service/internal/models"
	"reservation_service/internal/storage"
	"reservation_service/internal/storage/memory"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []models.BookingEvent
	err    error
}

func (n *recordingNotifier) SendNotification(_ context.Context, event models.BookingEvent) error {
	n.events = append(n.events, event)
	return n.err
}

// slowStore blocks every call until ctx is done.
type slowStore struct {
	*memory.Storage
}

func (s slowStore) SaveBooking(ctx context.Context, _ models.Booking) (models.Booking, error) {
	<-ctx.Done()
	return models.Booking{}, ctx.Err()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRequest() models.BookingRequest {
	return models.BookingRequest{
		Title:      "Mr.",
		FirstName:  "John",
		LastName:   "Smith",
		Email:      "john@x.com",
		Phone:      "555-0101",
		Restaurant: "Grill",
		Date:       "2025-01-01",
		Time:       "19:30",
		Guests:     2,
	}
}

func newService(t *testing.T) (*BookingService, *memory.Storage, *recordingNotifier) {
	t.Helper()

	store := memory.New()
	notifier := &recordingNotifier{}
	svc := NewBookingService(discardLogger(), store, notifier, time.Second)

	return svc, store, notifier
}

func TestBookTable_Success(t *testing.T) {
	svc, store, notifier := newService(t)

	b, err := svc.BookTable(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(b.ID, memory.IDPrefix))
	assert.Equal(t, "owner-1", b.UserID)
	assert.Equal(t, "Grill", b.Restaurant)
	assert.Equal(t, 2, b.Guests)
	assert.Equal(t, "", b.Comments)
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, 1, store.Len())

	require.Len(t, notifier.events, 1)
	assert.Equal(t, models.EventBookingCreated, notifier.events[0].Type)
	assert.Equal(t, b.ID, notifier.events[0].Booking.ID)
}

func TestBookTable_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.BookingRequest)
		fields []string
	}{
		{"title", func(r *models.BookingRequest) { r.Title = "" }, []string{"title"}},
		{"bad title", func(r *models.BookingRequest) { r.Title = "Sir" }, []string{"title"}},
		{"first name", func(r *models.BookingRequest) { r.FirstName = "  " }, []string{"firstName"}},
		{"last name", func(r *models.BookingRequest) { r.LastName = "" }, []string{"lastName"}},
		{"email", func(r *models.BookingRequest) { r.Email = "" }, []string{"email"}},
		{"phone", func(r *models.BookingRequest) { r.Phone = "" }, []string{"phone"}},
		{"restaurant", func(r *models.BookingRequest) { r.Restaurant = "" }, []string{"restaurant"}},
		{"date", func(r *models.BookingRequest) { r.Date = "" }, []string{"date"}},
		{"time", func(r *models.BookingRequest) { r.Time = "" }, []string{"time"}},
		{"guests", func(r *models.BookingRequest) { r.Guests = 0 }, []string{"guests"}},
		{"several", func(r *models.BookingRequest) {
			r.Phone = ""
			r.Date = ""
			r.Guests = 0
		}, []string{"phone", "date", "guests"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, notifier := newService(t)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.BookTable(context.Background(), "owner-1", req)
			require.Error(t, err)

			var validateErr validator.ValidationErrors
			require.True(t, errors.As(err, &validateErr))

			var got []string
			for _, fe := range validateErr {
				got = append(got, fe.Field())
			}
			assert.ElementsMatch(t, tt.fields, got)

			assert.Equal(t, 0, store.Len())
			assert.Empty(t, notifier.events)
		})
	}
}

func TestBookTable_OwnerRequired(t *testing.T) {
	svc, store, _ := newService(t)

	_, err := svc.BookTable(context.Background(), "", validRequest())
	assert.ErrorIs(t, err, ErrOwnerRequired)
	assert.Equal(t, 0, store.Len())
}

func TestBookTable_NotifierFailureDoesNotFail(t *testing.T) {
	store := memory.New()
	notifier := &recordingNotifier{err: errors.New("broker down")}
	svc := NewBookingService(discardLogger(), store, notifier, time.Second)

	_, err := svc.BookTable(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestBookTable_NilNotifier(t *testing.T) {
	svc := NewBookingService(discardLogger(), memory.New(), nil, time.Second)

	_, err := svc.BookTable(context.Background(), "owner-1", validRequest())
	require.NoError(t, err)
}

func TestBookTable_Timeout(t *testing.T) {
	svc := NewBookingService(discardLogger(), slowStore{memory.New()}, nil, 10*time.Millisecond)

	_, err := svc.BookTable(context.Background(), "owner-1", validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrTimeout)
}

func TestUserBookings_OnlyOwnerNewestFirst(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	var want []string
	for i := 0; i < 3; i++ {
		b, err := svc.BookTable(ctx, "owner-1", validRequest())
		require.NoError(t, err)
		want = append([]string{b.ID}, want...)

		_, err = svc.BookTable(ctx, "owner-2", validRequest())
		require.NoError(t, err)
	}

	_, err := svc.BookTableAnonymous(ctx, validRequest())
	require.NoError(t, err)

	got, err := svc.UserBookings(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	var ids []string
	for i, b := range got {
		assert.Equal(t, "owner-1", b.UserID)
		if i > 0 {
			assert.True(t, got[i-1].CreatedAt.After(b.CreatedAt))
		}
		ids = append(ids, b.ID)
	}
	assert.Equal(t, want, ids)

	_, err = svc.UserBookings(ctx, "")
	assert.ErrorIs(t, err, ErrOwnerRequired)
}

func TestCancelBooking(t *testing.T) {
	svc, store, notifier := newService(t)
	ctx := context.Background()

	b, err := svc.BookTable(ctx, "owner-1", validRequest())
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, err := svc.CancelBooking(ctx, "mem_999", "owner-1")
		assert.ErrorIs(t, err, storage.ErrBookingNotFound)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := svc.CancelBooking(ctx, b.ID, "owner-2")
		assert.ErrorIs(t, err, ErrForbidden)

		still, err := svc.Booking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, still.ID)
	})

	t.Run("owner cancels", func(t *testing.T) {
		deleted, err := svc.CancelBooking(ctx, b.ID, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, b.ID, deleted.ID)
		assert.Equal(t, 0, store.Len())

		last := notifier.events[len(notifier.events)-1]
		assert.Equal(t, models.EventBookingCancelled, last.Type)
		assert.Equal(t, b.ID, last.Booking.ID)
	})
}

func TestCancelBooking_AnonymousBookingForbidden(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	b, err := svc.BookTableAnonymous(ctx, validRequest())
	require.NoError(t, err)
	assert.Empty(t, b.UserID)

	_, err = svc.CancelBooking(ctx, b.ID, "owner-1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLegacyQueries(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	req := validRequest()
	req.Guests = 6
	_, err := svc.BookTableAnonymous(ctx, req)
	require.NoError(t, err)
	_, err = svc.BookTable(ctx, "owner-1", validRequest())
	require.NoError(t, err)

	all, err := svc.AllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	six, err := svc.BookingsByGuests(ctx, 6)
	require.NoError(t, err)
	require.Len(t, six, 1)
	assert.Equal(t, 6, six[0].Guests)
}
