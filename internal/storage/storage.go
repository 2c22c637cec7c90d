package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrBookingNotFound = errors.New("booking is not found")
	ErrTimeout         = errors.New("storage operation timed out")
	ErrCacheMiss       = errors.New("cache miss")
)

// Mode names reported by the health endpoint.
const (
	ModeMongo    = "mongo"
	ModePostgres = "postgres"
	ModeMemory   = "memory"
)

// Wrap prefixes err with op and tags deadline failures with ErrTimeout.
func Wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
