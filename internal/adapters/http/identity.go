package http

import (
	"github.com/labstack/echo/v4"

	"github.com/microfeed/core/internal/domain/entities"
)

const identityContextKey = "identity"

// SetIdentity stores the authenticated caller on the request context.
// Only the boundary layer (the server's identity middleware) calls
// this; handlers never derive identity from request bodies.
func SetIdentity(c echo.Context, identity entities.Identity) {
	c.Set(identityContextKey, identity)
}

// GetIdentity returns the caller identity established by the boundary
// layer, or a zero identity when none was set.
func GetIdentity(c echo.Context) entities.Identity {
	identity, ok := c.Get(identityContextKey).(entities.Identity)
	if !ok {
		return entities.Identity{}
	}
	return identity
}
