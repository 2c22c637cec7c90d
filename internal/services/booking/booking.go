package bookingsrv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/lib/validation"
	"reservation_service/internal/models"
	"reservation_service/internal/storage"
)

var (
	ErrForbidden     = errors.New("booking belongs to another user")
	ErrOwnerRequired = errors.New("booking owner is required")
)

// Store is implemented by every booking backend. IDs are opaque strings.
type Store interface {
	SaveBooking(ctx context.Context, booking models.Booking) (models.Booking, error)
	Booking(ctx context.Context, id string) (models.Booking, error)
	BookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error)
	BookingsByGuests(ctx context.Context, guests int) ([]models.Booking, error)
	Bookings(ctx context.Context) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, id string) (models.Booking, error)
}

type Notifier interface {
	SendNotification(ctx context.Context, event models.BookingEvent) error
}

type BookingService struct {
	log      *slog.Logger
	store    Store
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time
}

// NewBookingService builds the service over store. notifier may be nil.
func NewBookingService(log *slog.Logger, store Store, notifier Notifier, timeout time.Duration) *BookingService {
	return &BookingService{
		log:      log,
		store:    store,
		notifier: notifier,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BookTable validates req and stores a booking owned by ownerID.
func (s *BookingService) BookTable(ctx context.Context, ownerID string, req models.BookingRequest) (models.Booking, error) {
	const op = "bookingsrv.BookTable"

	if ownerID == "" {
		return models.Booking{}, fmt.Errorf("%s: %w", op, ErrOwnerRequired)
	}

	return s.save(ctx, op, ownerID, req)
}

// BookTableAnonymous stores a booking without an owner. Used by the legacy routes.
func (s *BookingService) BookTableAnonymous(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	const op = "bookingsrv.BookTableAnonymous"

	return s.save(ctx, op, "", req)
}

func (s *BookingService) save(ctx context.Context, op string, ownerID string, req models.BookingRequest) (models.Booking, error) {
	trimRequest(&req)

	if err := validation.Struct(req); err != nil {
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	booking, err := s.store.SaveBooking(ctx, models.Booking{
		UserID:     ownerID,
		Title:      req.Title,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Restaurant: req.Restaurant,
		Date:       req.Date,
		Time:       req.Time,
		Guests:     int(req.Guests),
		Comments:   req.Comments,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return models.Booking{}, storage.Wrap(op, err)
	}

	s.notify(ctx, models.EventBookingCreated, booking)

	return booking, nil
}

// UserBookings returns the owner's bookings, newest first.
func (s *BookingService) UserBookings(ctx context.Context, ownerID string) ([]models.Booking, error) {
	const op = "bookingsrv.UserBookings"

	if ownerID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrOwnerRequired)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	bookings, err := s.store.BookingsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	return bookings, nil
}

func (s *BookingService) Booking(ctx context.Context, id string) (models.Booking, error) {
	const op = "bookingsrv.Booking"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	booking, err := s.store.Booking(ctx, id)
	if err != nil {
		return models.Booking{}, storage.Wrap(op, err)
	}

	return booking, nil
}

func (s *BookingService) AllBookings(ctx context.Context) ([]models.Booking, error) {
	const op = "bookingsrv.AllBookings"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	bookings, err := s.store.Bookings(ctx)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	return bookings, nil
}

func (s *BookingService) BookingsByGuests(ctx context.Context, guests int) ([]models.Booking, error) {
	const op = "bookingsrv.BookingsByGuests"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	bookings, err := s.store.BookingsByGuests(ctx, guests)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}

	return bookings, nil
}

// CancelBooking removes the booking if requesterID owns it and returns the
// removed record.
func (s *BookingService) CancelBooking(ctx context.Context, id string, requesterID string) (models.Booking, error) {
	const op = "bookingsrv.CancelBooking"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	booking, err := s.store.Booking(ctx, id)
	if err != nil {
		return models.Booking{}, storage.Wrap(op, err)
	}

	if requesterID == "" || booking.UserID != requesterID {
		return models.Booking{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	deleted, err := s.store.DeleteBooking(ctx, id)
	if err != nil {
		return models.Booking{}, storage.Wrap(op, err)
	}

	s.notify(ctx, models.EventBookingCancelled, deleted)

	return deleted, nil
}

// notify never fails the caller, the booking change is already stored.
func (s *BookingService) notify(ctx context.Context, eventType models.EventType, booking models.Booking) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.SendNotification(ctx, models.BookingEvent{
		Type:       eventType,
		Booking:    booking,
		OccurredAt: s.now(),
	})
	if err != nil {
		s.log.Warn("failed to send booking notification",
			slog.String("op", "bookingsrv.notify"),
			slog.String("booking_id", booking.ID),
			sl.Err(err),
		)
	}
}

func (s *BookingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

func trimRequest(req *models.BookingRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Restaurant = strings.TrimSpace(req.Restaurant)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
}
