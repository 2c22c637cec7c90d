package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reservation_service/internal/models"
	"reservation_service/internal/storage"

	"github.com/redis/go-redis/v9"
)

type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// cachedUser never carries the password hash.
type cachedUser struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func New(ctx context.Context, address string, password string, db int, ttl time.Duration) (*RedisRepo, error) {
	const op = "storage.redis.New"

	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisRepo{client: rdb, ttl: ttl}, nil
}

// CachedUser returns storage.ErrCacheMiss when the key is absent.
func (r *RedisRepo) CachedUser(ctx context.Context, id string) (models.User, error) {
	const op = "storage.redis.CachedUser"

	val, err := r.client.Get(ctx, userKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return models.User{}, storage.ErrCacheMiss
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var u cachedUser
	if err := json.Unmarshal([]byte(val), &u); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}, nil
}

func (r *RedisRepo) CacheUser(ctx context.Context, user models.User) error {
	const op = "storage.redis.CacheUser"

	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.client.Set(ctx, userKey(user.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (r *RedisRepo) Close() {
	r.client.Close()
}

func userKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}
