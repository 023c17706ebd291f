package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// APIVersion is the version served when a request does not ask for one
const APIVersion = "1.0.0"

// VersionHeader carries the requested API version in and the served version out
const VersionHeader = "X-Api-Version"

// VersionMiddleware parses the X-Api-Version header, stores it in context and echoes it back.
// Only major version 1 is served.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := strings.TrimSpace(c.Get(VersionHeader, APIVersion))

		// Support version aliases
		switch version {
		case "1", "1.0":
			version = APIVersion
		}

		if !strings.HasPrefix(version, "1.") {
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported API version "+version)
		}

		// Store version in context
		c.Locals("apiVersion", version)
		c.Set(VersionHeader, version)

		return c.Next()
	}
}
