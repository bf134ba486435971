package repository

import (
	"context"

	"cookbook-service/internal/domain/asset"
	"cookbook-service/internal/domain/recipe"
	"cookbook-service/internal/domain/shoppinglist"
	"cookbook-service/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) error
	Delete(ctx context.Context, id uuid.UUID) error

	Summary(ctx context.Context, id uuid.UUID) (*user.Summary, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]*recipe.Summary, error)
	ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

// RecipeRepository defines recipe data access operations
type RecipeRepository interface {
	Create(ctx context.Context, input recipe.CreateRecipeInput) (*recipe.Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	List(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error)
	Count(ctx context.Context, filter recipe.ListFilter) (int, error)
	Search(ctx context.Context, q string, limit int) ([]*recipe.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, input recipe.UpdateRecipeInput) (*recipe.Recipe, error)
	SetPublic(ctx context.Context, id uuid.UUID, public bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ShoppingListRepository defines shopping list data access operations
type ShoppingListRepository interface {
	Create(ctx context.Context, input shoppinglist.CreateShoppingListInput) (*shoppinglist.ShoppingList, error)
	GetByID(ctx context.Context, id uuid.UUID) (*shoppinglist.ShoppingList, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*shoppinglist.ShoppingList, error)
	Update(ctx context.Context, id uuid.UUID, input shoppinglist.UpdateShoppingListInput) (*shoppinglist.ShoppingList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssetRepository defines reference-table data access operations
type AssetRepository interface {
	List(ctx context.Context) ([]asset.Asset, error)
	Create(ctx context.Context, kind asset.Kind, input asset.Input) (*asset.Asset, error)
	Update(ctx context.Context, kind asset.Kind, id uuid.UUID, input asset.Input) (*asset.Asset, error)
	Delete(ctx context.Context, kind asset.Kind, id uuid.UUID) error
	Seed(ctx context.Context, assets []asset.Asset) (int64, error)
}
