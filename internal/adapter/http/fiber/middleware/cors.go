package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/fieldserve/repairline/pkg/config"
)

// NewCORS builds the CORS policy for the admin API and the browser dashboard
// that consumes the monitor feed. Twilio webhooks are server-to-server and
// never preflight, so this only matters for the /api/v1 routes.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	return fibercors.New(fibercors.Config{
		AllowOrigins:     joinOr(cfg.AllowedOrigins, "*"),
		AllowMethods:     joinOr(cfg.AllowedMethods, "GET,POST,PUT,DELETE,OPTIONS"),
		AllowHeaders:     joinOr(cfg.AllowedHeaders, "Origin,Content-Type,Accept,Authorization"),
		ExposeHeaders:    joinOr(cfg.ExposeHeaders, "Content-Length"),
		AllowCredentials: cfg.Credentials,
		MaxAge:           maxAgeOr(cfg.MaxAge, 86400),
	})
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ",")
}

func maxAgeOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
