package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/guru03-coder/SlideSense/internal/config"
	"github.com/guru03-coder/SlideSense/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
// Submissions reports the number of records currently held by the data file
// store, which doubles as a cheap liveness signal for the persistence layer.
type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Service       string    `json:"service"`
	Environment   string    `json:"environment"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Submissions   int       `json:"submissions"`
}

// HealthCheck returns a handler that reports application health information.
// records is typically the store's Len method; a nil func reports zero.
func HealthCheck(cfg config.Config, records func() int) fiber.Handler {
	started := time.Now()

	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}
		payload.UptimeSeconds = int64(time.Since(started).Seconds())
		if records != nil {
			payload.Submissions = records()
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
