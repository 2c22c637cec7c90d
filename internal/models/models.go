package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type ContextKey string

const UserIDKey ContextKey = "uid"

type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Booking is the stored reservation. UserID is empty for bookings made
// through the legacy routes.
type Booking struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"user,omitempty"`
	Title      string    `json:"title"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Restaurant string    `json:"restaurant"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Guests     int       `json:"guests"`
	Comments   string    `json:"comments"`
	CreatedAt  time.Time `json:"createdAt"`
}

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type BookingRequest struct {
	Title      string     `json:"title" validate:"required,oneof=Mr. Ms. Mrs. Dr."`
	FirstName  string     `json:"firstName" validate:"required"`
	LastName   string     `json:"lastName" validate:"required"`
	Email      string     `json:"email" validate:"required"`
	Phone      string     `json:"phone" validate:"required"`
	Restaurant string     `json:"restaurant" validate:"required"`
	Date       string     `json:"date" validate:"required"`
	Time       string     `json:"time" validate:"required"`
	Guests     GuestCount `json:"guests" validate:"required"`
	Comments   string     `json:"comments"`
}

// GuestCount decodes either a JSON number or a numeric string. Anything that
// does not parse as an integer decodes to zero.
type GuestCount int

func (g *GuestCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			*g = 0
			return nil
		}

		*g = GuestCount(n)

		return nil
	}

	var f *float64
	if err := json.Unmarshal(data, &f); err != nil {
		*g = 0
		return nil
	}

	if f == nil {
		*g = 0
		return nil
	}

	*g = GuestCount(int(*f))

	return nil
}

type EventType string

const (
	EventBookingCreated   EventType = "created"
	EventBookingCancelled EventType = "cancelled"
)

// BookingEvent is published to the notifications queue.
type BookingEvent struct {
	Type       EventType `json:"type"`
	Booking    Booking   `json:"booking"`
	OccurredAt time.Time `json:"occurredAt"`
}
