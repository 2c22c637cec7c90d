package health

import (
	"net/http"
	"time"

	resp "reservation_service/internal/lib/api/response"
	"reservation_service/internal/storage"
)

// Counter reports the number of bookings held in memory.
type Counter interface {
	Len() int
}

type Response struct {
	Status         string `json:"status"`
	Storage        string `json:"storage"`
	Durable        bool   `json:"durable"`
	MemoryBookings int    `json:"memoryBookings"`
	Timestamp      string `json:"timestamp"`
}

type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// New reports the storage mode chosen at start-up. counter is nil in durable
// mode.
func New(mode string, counter Counter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var n int
		if counter != nil {
			n = counter.Len()
		}

		resp.JSON(w, r, http.StatusOK, Response{
			Status:         "healthy",
			Storage:        mode,
			Durable:        mode != storage.ModeMemory,
			MemoryBookings: n,
			Timestamp:      now(),
		})
	}
}

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.JSON(w, r, http.StatusOK, PingResponse{
			Message:   "Server is running!",
			Timestamp: now(),
		})
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
