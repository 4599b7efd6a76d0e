// middleware/rate_limit.go
package middleware

import (
	"log"

	"snapbag-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

// RateLimitMiddleware throttles an action per client over a sliding window.
// The identifier is the authenticated user when present, else the client IP.
// Allow runs before the handler; the request is recorded only when permitted.
func RateLimitMiddleware(limiter *services.RateLimiter, action string, maxRequests, windowMinutes int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier, _ := c.Locals("user_id").(string)
		if identifier == "" {
			identifier = c.IP()
		}

		allowed, err := limiter.Allow(identifier, action, maxRequests, windowMinutes)
		if err != nil {
			log.Printf("❌ [RATE_LIMIT] check failed for %s/%s: %v", identifier, action, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "rate limit check failed",
			})
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, try again later",
			})
		}

		if err := limiter.Record(identifier, action); err != nil {
			log.Printf("⚠️ [RATE_LIMIT] failed to record %s/%s: %v", identifier, action, err)
		}

		return c.Next()
	}
}
