package auth

import (
	"cookbook-service/internal/domain/user"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Identity is the request-scoped, read-only view of the authenticated user.
type Identity struct {
	ID    uuid.UUID `json:"_id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  user.Role `json:"role"`
}

func IdentityFromUser(u *user.User) Identity {
	role := u.Role
	if !role.Valid() {
		role = user.RoleUser
	}
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: role}
}

func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}

// IdentityFrom returns the identity attached by the authenticator, if any.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ContextKeyIdentity).(Identity)
	return id, ok
}

// MustIdentity returns the attached identity or an Unauthenticated error.
func MustIdentity(c echo.Context) (Identity, error) {
	raw := c.Get(ContextKeyIdentity)
	if raw == nil {
		return Identity{}, apperrors.Unauthenticated(MsgUnauthorized)
	}

	id, ok := raw.(Identity)
	if !ok {
		return Identity{}, apperrors.InternalServer(msgInvalidIdentityCtx, nil)
	}

	return id, nil
}

func setIdentity(c echo.Context, id Identity) {
	c.Set(ContextKeyIdentity, id)
}
