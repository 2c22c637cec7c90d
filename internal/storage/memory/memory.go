package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"reservation_service/internal/models"
	"reservation_service/internal/storage"

	"github.com/google/uuid"
)

// IDPrefix marks booking IDs generated by the fallback store.
const IDPrefix = "mem_"

// Storage keeps users and bookings in process memory. Everything is lost on
// restart.
type Storage struct {
	mu       sync.RWMutex
	bookings []models.Booking
	nextID   int
	users    map[string]models.User
	emails   map[string]string
}

func New() *Storage {
	return &Storage{
		nextID: 1,
		users:  make(map[string]models.User),
		emails: make(map[string]string),
	}
}

func (s *Storage) Mode() string {
	return storage.ModeMemory
}

// Len reports the number of stored bookings.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bookings)
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.memory.SaveUser"

	if err := ctx.Err(); err != nil {
		return models.User{}, storage.Wrap(op, err)
	}

	key := strings.ToLower(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[key]; ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
	}

	user.ID = uuid.NewString()
	s.users[user.ID] = user
	s.emails[key] = user.ID

	return user, nil
}

func (s *Storage) User(ctx context.Context, email string) (models.User, error) {
	const op = "storage.memory.User"

	if err := ctx.Err(); err != nil {
		return models.User{}, storage.Wrap(op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return s.users[id], nil
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.memory.UserByID"

	if err := ctx.Err(); err != nil {
		return models.User{}, storage.Wrap(op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return user, nil
}

// SaveBooking assigns the next mem_<n> ID and appends the booking.
func (s *Storage) SaveBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	const op = "storage.memory.SaveBooking"

	if err := ctx.Err(); err != nil {
		return models.Booking{}, storage.Wrap(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking.ID = fmt.Sprintf("%s%d", IDPrefix, s.nextID)
	s.nextID++
	s.bookings = append(s.bookings, booking)

	return booking, nil
}

func (s *Storage) Booking(ctx context.Context, id string) (models.Booking, error) {
	const op = "storage.memory.Booking"

	if err := ctx.Err(); err != nil {
		return models.Booking{}, storage.Wrap(op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.bookings[i], nil
	}

	return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
}

func (s *Storage) BookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return s.filter(ctx, "storage.memory.BookingsByOwner", func(b models.Booking) bool {
		return b.UserID == ownerID
	})
}

func (s *Storage) BookingsByGuests(ctx context.Context, guests int) ([]models.Booking, error) {
	return s.filter(ctx, "storage.memory.BookingsByGuests", func(b models.Booking) bool {
		return b.Guests == guests
	})
}

func (s *Storage) Bookings(ctx context.Context) ([]models.Booking, error) {
	return s.filter(ctx, "storage.memory.Bookings", func(models.Booking) bool {
		return true
	})
}

func (s *Storage) DeleteBooking(ctx context.Context, id string) (models.Booking, error) {
	const op = "storage.memory.DeleteBooking"

	if err := ctx.Err(); err != nil {
		return models.Booking{}, storage.Wrap(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
	}

	deleted := s.bookings[i]
	s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)

	return deleted, nil
}

// filter returns matching bookings newest first. Bookings sharing a timestamp
// keep reverse insertion order.
func (s *Storage) filter(ctx context.Context, op string, match func(models.Booking) bool) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Wrap(op, err)
	}

	s.mu.RLock()
	result := make([]models.Booking, 0, len(s.bookings))
	for i := len(s.bookings) - 1; i >= 0; i-- {
		if match(s.bookings[i]) {
			result = append(result, s.bookings[i])
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// indexOf must be called with mu held.
func (s *Storage) indexOf(id string) int {
	for i, b := range s.bookings {
		if b.ID == id {
			return i
		}
	}

	return -1
}
