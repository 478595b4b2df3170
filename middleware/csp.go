package middleware

import (
	"github.com/labstack/echo/v4"
)

// APIContentSecurityPolicy applies to JSON responses and HTMX fragments
const APIContentSecurityPolicy = "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'self'"

// PreviewContentSecurityPolicy applies to rendered document previews. The
// document shell carries its styles inline and never runs scripts.
const PreviewContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; img-src data:; base-uri 'none'; form-action 'none'; frame-ancestors 'self'"

// ContentSecurityPolicy sets the given policy on every response
func ContentSecurityPolicy(policy string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Content-Security-Policy", policy)
			c.Response().Header().Set("X-Content-Type-Options", "nosniff")
			return next(c)
		}
	}
}

// PreviewCSP locks down document preview pages
func PreviewCSP() echo.MiddlewareFunc {
	return ContentSecurityPolicy(PreviewContentSecurityPolicy)
}
