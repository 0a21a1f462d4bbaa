package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ktozkim/watchdog/internal/domain"
	"github.com/ktozkim/watchdog/internal/service"
)

const contextKeyIdentity = "identity"

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// RequireAuth rejects requests without a valid bearer token whose subject
// still exists, and attaches the resolved identity to the echo context.
// Absent token and vanished subject map to 401, a broken or expired token
// to 403.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return domain.ErrMissingToken
			}

			identity, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(contextKeyIdentity, identity)
			return next(c)
		}
	}
}

// OptionalAuth attaches an identity when a valid bearer token for an existing
// user is presented, and silently continues anonymous on any failure. Used by
// endpoints that behave differently for authenticated callers but never
// require authentication.
func OptionalAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if identity, err := auth.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(contextKeyIdentity, identity)
				}
			}
			return next(c)
		}
	}
}

// CurrentIdentity extracts the authenticated identity from the echo context.
func CurrentIdentity(c echo.Context) (service.Identity, bool) {
	identity, ok := c.Get(contextKeyIdentity).(service.Identity)
	return identity, ok
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
