package emailsender

import (
	"fmt"

	"reservation_service/internal/models"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return dialer.DialAndSend(msg)
}

// CreateMessage builds the administrator email for a booking event.
func (m *Mailer) CreateMessage(event models.BookingEvent) (string, string) {
	b := event.Booking

	var subject, action string

	switch event.Type {
	case models.EventBookingCancelled:
		subject = "Booking cancelled"
		action = "Booking cancelled!"
	default:
		subject = "New booking"
		action = "New booking!"
	}

	messageText := fmt.Sprintf(
		"%s %s. Booking %s at %s on %s %s for %d guest(s). Guest: %s %s %s, %s, %s.",
		action,
		event.OccurredAt.Format("02-01-2006 15:04:05"),
		b.ID,
		b.Restaurant,
		b.Date,
		b.Time,
		b.Guests,
		b.Title,
		b.FirstName,
		b.LastName,
		b.Email,
		b.Phone,
	)

	if b.Comments != "" {
		messageText += fmt.Sprintf(" Comments: %s", b.Comments)
	}

	return subject, messageText
}
