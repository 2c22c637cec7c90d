package app

import (
	"context"
	"log/slog"
	"net/http"

	"reservation_service/internal/config"
	booktable "reservation_service/internal/http-server/handlers/book_table"
	cancelbooking "reservation_service/internal/http-server/handlers/cancel_booking"
	getbookings "reservation_service/internal/http-server/handlers/get_bookings"
	"reservation_service/internal/http-server/handlers/health"
	"reservation_service/internal/http-server/handlers/legacy"
	"reservation_service/internal/http-server/handlers/login"
	"reservation_service/internal/http-server/handlers/me"
	"reservation_service/internal/http-server/handlers/signup"
	"reservation_service/internal/lib/jwt"
	"reservation_service/internal/lib/logger/sl"
	"reservation_service/internal/rabbitmq"
	"reservation_service/internal/services/auth"
	bookingsrv "reservation_service/internal/services/booking"
	"reservation_service/internal/storage/memory"
	"reservation_service/internal/storage/mongo"
	"reservation_service/internal/storage/postgres"
	"reservation_service/internal/storage/redis"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Storage is the backend selected at start-up. It holds both users and
// bookings.
type Storage interface {
	bookingsrv.Store
	auth.UserSaver
	auth.UserProvider
	Mode() string
}

type App struct {
	log      *slog.Logger
	secret   string
	Storage  Storage
	Auth     *auth.Auth
	Bookings *bookingsrv.BookingService
	closers  []func()
}

// New opens the storage backend and the optional cache and broker, then
// builds the services. It never fails: an unreachable durable backend puts
// the process in memory mode, unreachable cache or broker are skipped.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	a := &App{
		log:    log,
		secret: cfg.AppSecret,
	}

	a.Storage = a.openStorage(ctx, cfg)

	var cache auth.UserCache
	if cfg.Redis.Addr != "" {
		redisRepo, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Warn("redis not available, user cache disabled", sl.Err(err))
		} else {
			cache = redisRepo
			a.closers = append(a.closers, redisRepo.Close)
		}
	}

	var notifier bookingsrv.Notifier
	if cfg.RabbitMQ.URL != "" {
		rabbitMQClient, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Warn("rabbitmq not available, booking notifications disabled", sl.Err(err))
		} else {
			notifier = rabbitMQClient
			a.closers = append(a.closers, rabbitMQClient.Close)
		}
	}

	a.Auth = auth.New(log, a.Storage, a.Storage, cache, cfg.AppSecret, cfg.TokenTTL, cfg.Storage.Timeout)
	a.Bookings = bookingsrv.NewBookingService(log, a.Storage, notifier, cfg.Storage.Timeout)

	return a
}

// openStorage probes the configured durable backend once. The result holds
// for the lifetime of the process.
func (a *App) openStorage(ctx context.Context, cfg *config.Config) Storage {
	ctx, cancel := context.WithTimeout(ctx, cfg.Storage.ConnectTimeout)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		repo, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err == nil {
			a.log.Info("mongo connected", slog.String("database", cfg.Mongo.Database))
			a.closers = append(a.closers, repo.Close)

			return repo
		}

		a.log.Warn("mongo not available, using in-memory storage", sl.Err(err))
	case config.DriverPostgres:
		repo, err := postgres.Connect(ctx, cfg)
		if err == nil {
			a.log.Info("postgres connected", slog.String("database", cfg.Postgres.DBName))
			a.closers = append(a.closers, repo.Close)

			return repo
		}

		a.log.Warn("postgres not available, using in-memory storage", sl.Err(err))
	default:
		a.log.Info("using in-memory storage")
	}

	return memory.New()
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	var counter health.Counter
	if c, ok := a.Storage.(health.Counter); ok {
		counter = c
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", health.Ping())
		r.Get("/health", health.New(a.Storage.Mode(), counter))

		r.Post("/auth/signup", signup.New(a.log, a.Auth))
		r.Post("/auth/login", login.New(a.log, a.Auth))

		r.Route("/legacy", func(r chi.Router) {
			r.Post("/book", legacy.Save(a.log, a.Bookings))
			r.Get("/bookings", legacy.List(a.log, a.Bookings))
			r.Get("/bookings/guests/{guests}", legacy.ByGuests(a.log, a.Bookings))
			r.Get("/booking/{id}", legacy.ByID(a.log, a.Bookings))
		})

		r.Group(func(r chi.Router) {
			r.Use(jwt.AuthMiddleware(a.log, a.secret))

			r.Get("/auth/me", me.New(a.log, a.Auth))
			r.Post("/book", booktable.New(a.log, a.Bookings))
			r.Get("/bookings", getbookings.New(a.log, a.Bookings))
			r.Delete("/bookings/{id}", cancelbooking.New(a.log, a.Bookings))
		})
	})

	return r
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
