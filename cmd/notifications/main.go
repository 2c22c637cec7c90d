package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"reservation_service/internal/config"
	mailer "reservation_service/internal/email_sender"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/models"
	"reservation_service/internal/rabbitmq"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	if cfg.RabbitMQ.URL == "" || cfg.Email.AdministratorEmail == "" {
		log.Error("RABBITMQ_URL and ADMINISTRATOR_EMAIL are required")
		os.Exit(1)
	}

	startServer(ctx, cfg, log)
}

func startServer(ctx context.Context, cfg *config.Config, log *slog.Logger) {
	log.Info("starting notification service", slog.String("env", cfg.Env))

	r, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to init rabbitmq", sl.Err(err))
		return
	}
	defer r.Close()

	m := &mailer.Mailer{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		err := r.StartReading(ctx, func(msg []byte) {
			var event models.BookingEvent
			if err := json.Unmarshal(msg, &event); err != nil {
				log.Error("failed to unmarshal message", sl.Err(err))
				return
			}

			subject, mesText := m.CreateMessage(event)

			if err := m.Send(cfg.Email.AdministratorEmail, subject, mesText); err != nil {
				log.Error("failed to send message", sl.Err(err))
				return
			}

			log.Info("message sent successfully",
				slog.String("type", string(event.Type)),
				slog.String("booking_id", event.Booking.ID),
			)
		})
		if err != nil {
			log.Error("failed to start reading", sl.Err(err))
			return
		}
	}()

	log.Info("notification service successfully started")

	select {
	case <-ctx.Done():
		log.Info("shutting down consumer...")
	case <-done:
		log.Info("notification service finished the work")
	}

	log.Info("notification service gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
