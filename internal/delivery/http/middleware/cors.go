package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the map-frontend origins to call the API directly from
// the browser.
func CORS(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type,Accept,Accept-Language",
		AllowCredentials: allowOrigins != "*",
	})
}
