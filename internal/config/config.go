package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Env        string        `yaml:"env" env:"ENV" env-default:"local"`
	AppSecret  string        `yaml:"app_secret" env:"JWT_SECRET" env-default:"your-secret-key"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"168h"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Mongo      `yaml:"mongo"`
	Postgres   `yaml:"postgres"`
	Redis      `yaml:"redis"`
	RabbitMQ   `yaml:"rabbitmq"`
	Email      `yaml:"email"`
}

type HTTPServer struct {
	Host        string        `yaml:"host" env:"HTTP_HOST" env-default:""`
	Port        int           `yaml:"port" env:"PORT" env-default:"5001"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Address is the listen address for http.Server.
func (h HTTPServer) Address() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

type Storage struct {
	Driver         string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`
	Timeout        time.Duration `yaml:"timeout" env:"STORAGE_TIMEOUT" env-default:"5s"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"STORAGE_CONNECT_TIMEOUT" env-default:"5s"`
}

type Mongo struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017/restaurant-bookings"`
	Database string `yaml:"database" env:"MONGO_DB" env-default:"restaurant-bookings"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"restaurant_bookings"`
	SSLMode  string `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

// Redis is optional, an empty Addr disables the user cache.
type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"10m"`
}

// RabbitMQ is optional, an empty URL disables booking notifications.
type RabbitMQ struct {
	URL       string `yaml:"url" env:"RABBITMQ_URL"`
	QueueName string `yaml:"queue_name" env:"RABBITMQ_QUEUE" env-default:"notifications_queue"`
}

type Email struct {
	Host               string `yaml:"host" env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port               int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username           string `yaml:"username" env:"SMTP_USERNAME"`
	Password           string `yaml:"password" env:"SMTP_PASSWORD"`
	AdministratorEmail string `yaml:"administrator_email" env:"ADMINISTRATOR_EMAIL"`
}

// MustLoad reads the YAML file named by CONFIG_PATH, or the environment alone
// when CONFIG_PATH is unset.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
		}

		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}

	return nil
}
