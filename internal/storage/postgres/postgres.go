package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"reservation_service/internal/config"
	"reservation_service/internal/models"
	"reservation_service/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	pass_hash  BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT REFERENCES users (id),
	title      TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL,
	restaurant TEXT NOT NULL,
	date       TEXT NOT NULL,
	time       TEXT NOT NULL,
	guests     INTEGER NOT NULL,
	comments   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookings_user_created_idx ON bookings (user_id, created_at DESC);
`

const bookingColumns = `id, user_id, title, first_name, last_name, email, phone, restaurant, date, time, guests, comments, created_at`

type PostgresRepo struct {
	pool *pgxpool.Pool
}

// Connect создает подключение к базе данных, проверяет его и создает таблицы.
func Connect(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.Connect"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: migrate: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) Mode() string {
	return storage.ModePostgres
}

func (r *PostgresRepo) SaveBooking(ctx context.Context, booking models.Booking) (models.Booking, error) {
	const op = "storage.postgres.SaveBooking"

	var owner *int64
	if booking.UserID != "" {
		uid, ok := parseID(booking.UserID)
		if !ok {
			return models.Booking{}, fmt.Errorf("%s: invalid owner id %q", op, booking.UserID)
		}
		owner = &uid
	}

	var id int64
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO bookings (user_id, title, first_name, last_name, email, phone, restaurant, date, time, guests, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id;`,
		owner,
		booking.Title,
		booking.FirstName,
		booking.LastName,
		booking.Email,
		booking.Phone,
		booking.Restaurant,
		booking.Date,
		booking.Time,
		booking.Guests,
		booking.Comments,
		booking.CreatedAt,
	).Scan(&id)
	if err != nil {
		return models.Booking{}, wrap(op, err)
	}

	booking.ID = strconv.FormatInt(id, 10)

	return booking, nil
}

func (r *PostgresRepo) Booking(ctx context.Context, id string) (models.Booking, error) {
	const op = "storage.postgres.Booking"

	bid, ok := parseID(id)
	if !ok {
		return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
	}

	row := r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bid)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
		}

		return models.Booking{}, wrap(op, err)
	}

	return b, nil
}

// BookingsByOwner возвращает брони пользователя, новые первыми.
func (r *PostgresRepo) BookingsByOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	const op = "storage.postgres.BookingsByOwner"

	uid, ok := parseID(ownerID)
	if !ok {
		return []models.Booking{}, nil
	}

	return r.query(ctx, op,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		uid,
	)
}

func (r *PostgresRepo) BookingsByGuests(ctx context.Context, guests int) ([]models.Booking, error) {
	const op = "storage.postgres.BookingsByGuests"

	return r.query(ctx, op,
		`SELECT `+bookingColumns+` FROM bookings WHERE guests = $1 ORDER BY created_at DESC, id DESC`,
		guests,
	)
}

func (r *PostgresRepo) Bookings(ctx context.Context) ([]models.Booking, error) {
	const op = "storage.postgres.Bookings"

	return r.query(ctx, op, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC, id DESC`)
}

func (r *PostgresRepo) DeleteBooking(ctx context.Context, id string) (models.Booking, error) {
	const op = "storage.postgres.DeleteBooking"

	bid, ok := parseID(id)
	if !ok {
		return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
	}

	row := r.pool.QueryRow(ctx, `DELETE FROM bookings WHERE id = $1 RETURNING `+bookingColumns, bid)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
		}

		return models.Booking{}, wrap(op, err)
	}

	return b, nil
}

func (r *PostgresRepo) query(ctx context.Context, op string, sql string, args ...any) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (models.Booking, error) {
	var (
		b     models.Booking
		id    int64
		owner *int64
	)

	err := row.Scan(
		&id, &owner, &b.Title, &b.FirstName, &b.LastName, &b.Email, &b.Phone,
		&b.Restaurant, &b.Date, &b.Time, &b.Guests, &b.Comments, &b.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}

	b.ID = strconv.FormatInt(id, 10)
	if owner != nil {
		b.UserID = strconv.FormatInt(*owner, 10)
	}

	return b, nil
}

// Close закрывает соединение с базой данных.
func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// dsn формирует конфигурацию базы данных.
func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}

func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

func wrap(op string, err error) error {
	if pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrTimeout, err)
	}

	return storage.Wrap(op, err)
}
