package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	// The API only ever returns JSON, so nothing may be loaded or framed.
	contentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	strictTransport       = "max-age=31536000; includeSubDomains"
	permissionsPolicy     = "geolocation=(), microphone=(), camera=(), payment=(), usb=()"
)

// SecurityHeaders sets response hardening headers. HSTS is only sent when
// the service runs behind TLS in production.
func SecurityHeaders(production bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", permissionsPolicy)
			h.Set("Cache-Control", "no-store")
			if production {
				h.Set("Strict-Transport-Security", strictTransport)
			}
			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}
