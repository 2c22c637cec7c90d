package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"reservation_service/internal/models"
	"reservation_service/internal/storage"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *PostgresRepo) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.postgres.SaveUser"

	var id int64
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (first_name, last_name, email, pass_hash, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PassHash,
		user.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
			}
		}

		return models.User{}, wrap(op, err)
	}

	user.ID = strconv.FormatInt(id, 10)

	return user, nil
}

func (r *PostgresRepo) User(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.User"

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, first_name, last_name, email, pass_hash, created_at FROM users WHERE email = $1`,
		email,
	)

	return scanUser(op, row)
}

func (r *PostgresRepo) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.postgres.UserByID"

	uid, ok := parseID(id)
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, first_name, last_name, email, pass_hash, created_at FROM users WHERE id = $1`,
		uid,
	)

	return scanUser(op, row)
}

func scanUser(op string, row pgx.Row) (models.User, error) {
	var (
		usr models.User
		id  int64
	)

	err := row.Scan(&id, &usr.FirstName, &usr.LastName, &usr.Email, &usr.PassHash, &usr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}

		return models.User{}, wrap(op, err)
	}

	usr.ID = strconv.FormatInt(id, 10)

	return usr, nil
}
