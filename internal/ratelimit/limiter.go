package ratelimit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/HasnainAli47/ResumeParser/internal/config"
)

// NewQueryLimiter allows cfg.QueryMax requests per cfg.QueryWindow for each
// client IP. A nil storage keeps the counters in process memory.
func NewQueryLimiter(cfg config.RateLimitConfig, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.QueryMax,
		Expiration: cfg.QueryWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
		Storage: storage,
	})
}
