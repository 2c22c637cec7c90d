package postgres

import (
	"testing"

	"reservation_service/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		Postgres: config.Postgres{
			Host:     "db",
			Port:     5433,
			User:     "app",
			Password: "pw",
			DBName:   "bookings",
			SSLMode:  "disable",
		},
	}

	assert.Equal(t, "host=db port=5433 user=app password=pw database=bookings sslmode=disable", dsn(cfg))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"mem_1", 0, false},
		{"", 0, false},
		{"65f1c0ffee0000000000beef", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseID(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
