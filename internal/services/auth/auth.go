package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reservation_service/internal/lib/jwt"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/lib/validation"
	"reservation_service/internal/models"
	"reservation_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	cache       UserCache
	secret      string
	tokenTTL    time.Duration
	timeout     time.Duration
}

type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
}

type UserProvider interface {
	User(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
}

// UserCache is optional. Misses are reported as storage.ErrCacheMiss.
type UserCache interface {
	CachedUser(ctx context.Context, id string) (models.User, error)
	CacheUser(ctx context.Context, user models.User) error
}

// * New returns a new instance of the Auth service. cache may be nil.
func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	cache UserCache,
	secret string,
	tokenTTL time.Duration,
	timeout time.Duration,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		cache:       cache,
		secret:      secret,
		tokenTTL:    tokenTTL,
		timeout:     timeout,
	}
}

// * RegisterNewUser validates the request, stores the user with a bcrypt hash
// * and issues a token for the new account.
func (a *Auth) RegisterNewUser(ctx context.Context, req models.SignupRequest) (models.User, string, error) {
	const op = "auth.RegisterNewUser"

	log := a.log.With(
		slog.String("op", op),
	)

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)

	if err := validation.Struct(req); err != nil {
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("registering new user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.usrSaver.SaveUser(ctx, models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		PassHash:  passHash,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")

			return models.User{}, "", fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("failed to save user", sl.Err(err))

		return models.User{}, "", storage.Wrap(op, err)
	}

	token, err := jwt.NewToken(user.ID, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", user.ID))

	return sanitizeUser(user), token, nil
}

// * Login checks if user with given credentials exists in the system.
// * Unknown email and wrong password both return ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, req models.LoginRequest) (models.User, string, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
	)

	req.Email = normalizeEmail(req.Email)

	if err := validation.Struct(req); err != nil {
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("attempting to login user")

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.usrProvider.User(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")

			return models.User{}, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))

		return models.User{}, "", storage.Wrap(op, err)
	}

	if !VerifyPassword(user, req.Password) {
		log.Info("invalid credentials")

		return models.User{}, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwt.NewToken(user.ID, a.secret, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.String("user_id", user.ID))

	return sanitizeUser(user), token, nil
}

// * User returns the user summary, consulting the cache first when present.
func (a *Auth) User(ctx context.Context, userID string) (models.User, error) {
	const op = "auth.User"

	log := a.log.With(
		slog.String("op", op),
		slog.String("user_id", userID),
	)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if a.cache != nil {
		user, err := a.cache.CachedUser(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			log.Warn("failed to read user cache", sl.Err(err))
		}
	}

	user, err := a.usrProvider.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")

			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		log.Error("failed to get user", sl.Err(err))

		return models.User{}, storage.Wrap(op, err)
	}

	user = sanitizeUser(user)

	if a.cache != nil {
		if err := a.cache.CacheUser(ctx, user); err != nil {
			log.Warn("failed to cache user", sl.Err(err))
		}
	}

	return user, nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(user models.User, password string) bool {
	return bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)) == nil
}

func (a *Auth) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, a.timeout)
}

func sanitizeUser(user models.User) models.User {
	user.PassHash = nil
	return user
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
