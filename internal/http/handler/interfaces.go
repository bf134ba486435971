package handler

import (
	"context"

	"cookbook-service/internal/audit"
	"cookbook-service/internal/auth"
	"cookbook-service/internal/domain/asset"
	"cookbook-service/internal/domain/recipe"
	"cookbook-service/internal/domain/shoppinglist"
	"cookbook-service/internal/domain/user"
	s3storage "cookbook-service/internal/storage/s3"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type UserAccounts interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	VerifyDummy(password string)
	NeedsRehash(hash string) (bool, error)
}

type SessionIssuer interface {
	Issue(c echo.Context, identity auth.Identity) (string, error)
	Clear(c echo.Context)
}

type AuditRecorder interface {
	Record(c echo.Context, event audit.Event)
}

// RecipeHandler interfaces
type RecipeStore interface {
	Create(ctx context.Context, input recipe.CreateRecipeInput) (*recipe.Recipe, error)
	List(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error)
	Count(ctx context.Context, filter recipe.ListFilter) (int, error)
	Search(ctx context.Context, q string, limit int) ([]*recipe.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, input recipe.UpdateRecipeInput) (*recipe.Recipe, error)
	SetPublic(ctx context.Context, id uuid.UUID, public bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PhotoStorage interface {
	PresignPhotoUpload(ctx context.Context, recipeID uuid.UUID, contentType string) (*s3storage.PhotoUpload, error)
	DeletePhoto(ctx context.Context, recipeID uuid.UUID, photoURL string) error
}

// UserHandler interfaces
type UserProfiles interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Summary(ctx context.Context, id uuid.UUID) (*user.Summary, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]*recipe.Summary, error)
	ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RecipeReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	List(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error)
}

// ShoppingListHandler interfaces
type ShoppingListStore interface {
	Create(ctx context.Context, input shoppinglist.CreateShoppingListInput) (*shoppinglist.ShoppingList, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*shoppinglist.ShoppingList, error)
	Update(ctx context.Context, id uuid.UUID, input shoppinglist.UpdateShoppingListInput) (*shoppinglist.ShoppingList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssetHandler interfaces
type AssetCatalog interface {
	Catalog(ctx context.Context) (*asset.Catalog, error)
	Create(ctx context.Context, kind asset.Kind, input asset.Input) (*asset.Asset, error)
	Update(ctx context.Context, kind asset.Kind, id uuid.UUID, input asset.Input) (*asset.Asset, error)
	Delete(ctx context.Context, kind asset.Kind, id uuid.UUID) error
}
