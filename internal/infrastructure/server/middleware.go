package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	httpHandlers "github.com/microfeed/core/internal/adapters/http"
	"github.com/microfeed/core/internal/domain/entities"
)

// identityMiddleware resolves the caller identity from the X-User-ID
// and X-Username headers and injects it into the request context.
// Handlers and services consume only the injected identity, never
// identity fields from request bodies. This deployment is token-less,
// so the headers are the trust boundary; swapping in a session or
// token scheme only means replacing this middleware.
func (s *Server) identityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawID := c.Request().Header.Get("X-User-ID")
			username := c.Request().Header.Get("X-Username")

			if rawID == "" || username == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing identity headers")
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				s.logger.LogSecurityEvent("malformed_identity", rawID, c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid identity")
			}

			httpHandlers.SetIdentity(c, entities.Identity{
				UserID:   userID,
				Username: username,
			})

			return next(c)
		}
	}
}
