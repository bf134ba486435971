package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	About        string
	Avatar       string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserInput struct {
	Email        string
	PasswordHash string
	Name         string
}

type UpdateUserInput struct {
	Name         *string
	About        *string
	Avatar       *string
	PasswordHash *string
}

// Summary is the current user's own profile plus document counts.
type Summary struct {
	ID            uuid.UUID `json:"_id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Avatar        string    `json:"avatar"`
	Recipes       int       `json:"recipes"`
	Favorites     int       `json:"favorites"`
	ShoppingLists int       `json:"shoppingLists"`
}

// PublicProfile is what anyone may see about a user.
type PublicProfile struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	About  string    `json:"about"`
	Avatar string    `json:"avatar"`
}
