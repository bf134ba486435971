package auth

import (
	"context"
	"fmt"
	"strings"

	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Ownable is any resource with a single owning user. OwnerID returns an empty
// string when the resource has no owner.
type Ownable interface {
	OwnerID() string
}

// Publishable is an Ownable that may also be readable by everyone.
type Publishable interface {
	Ownable
	IsPublic() bool
}

// ResourceLoader fetches the resource named by the route's id parameter.
type ResourceLoader func(ctx context.Context, id uuid.UUID) (Ownable, error)

// Authorize allows a mutation only when the caller owns res. Ids are compared
// in canonical form so a uuid and its string rendering never disagree.
func Authorize(identity Identity, res Ownable) error {
	if res == nil {
		return apperrors.Forbidden(MsgForbidden)
	}

	owner := canonicalID(res.OwnerID())
	if owner == "" || owner != canonicalID(identity.ID.String()) {
		return apperrors.Forbidden(MsgForbidden)
	}

	return nil
}

// CanRead reports whether the caller, if any, may see res.
func CanRead(identity *Identity, res Publishable) bool {
	if res.IsPublic() {
		return true
	}
	if identity == nil {
		return false
	}
	return Authorize(*identity, res) == nil
}

func canonicalID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// LoadResource resolves the id parameter, loads the resource and attaches it
// to the context. A malformed id reads as a missing resource.
func LoadResource(load ResourceLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Param(paramID)

			id, err := uuid.Parse(raw)
			if err != nil {
				return apperrors.NotFound(fmt.Sprintf(msgResourceNotFound, raw))
			}

			res, err := load(c.Request().Context(), id)
			if err != nil {
				return err
			}
			if res == nil {
				return apperrors.NotFound(fmt.Sprintf(msgResourceNotFound, raw))
			}

			c.Set(ContextKeyResource, res)
			return next(c)
		}
	}
}

// RequireOwnership loads the resource and then rejects non-owners. It must run
// after Require, so a missing identity is a wiring bug reported as 401.
func RequireOwnership(load ResourceLoader) echo.MiddlewareFunc {
	loader := LoadResource(load)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return loader(func(c echo.Context) error {
			identity, err := MustIdentity(c)
			if err != nil {
				return err
			}

			res, _ := c.Get(ContextKeyResource).(Ownable)
			if err := Authorize(identity, res); err != nil {
				return err
			}

			return next(c)
		})
	}
}

// ResourceFrom returns the resource attached by LoadResource.
func ResourceFrom[T any](c echo.Context) (T, bool) {
	res, ok := c.Get(ContextKeyResource).(T)
	return res, ok
}
