package middleware

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/funkydonkey/fatherhood-is/internal/models"
	"github.com/funkydonkey/fatherhood-is/internal/observability"
	"github.com/funkydonkey/fatherhood-is/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// ClientIP resolves the client identity for rate limiting. The first entry
// of X-Forwarded-For wins, then X-Real-IP, then the peer address. When none
// yields anything useful the request is bucketed under "unknown" rather than
// bypassing the limiter.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(c.Get("X-Real-IP")); real != "" {
		return real
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}

// RateLimit returns a Fiber middleware enforcing the given limiter per client
// IP. Rejected requests get 429 with the retry instant, plus remaining/reset
// headers on every response.
func RateLimit(l *ratelimit.Limiter, name, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := ClientIP(c)

		admitted, remaining, resetAt := l.Take(identity)
		if !admitted {
			observability.RateLimitRejections.WithLabelValues(name).Inc()
			Logger.WarnContext(c.UserContext(), "Rate limit exceeded",
				slog.String("limiter", name),
				slog.String("ip", identity),
				slog.String("path", c.Path()),
				slog.Time("reset_at", resetAt),
			)

			c.Set("X-RateLimit-Remaining", "0")
			c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitedError(message, resetAt))
		}

		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
		return c.Next()
	}
}
