package postgres

import (
	"context"
	"fmt"
	"strings"

	"cookbook-service/internal/domain/recipe"
	"cookbook-service/internal/domain/user"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, name, about, avatar, role, created_at, updated_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.About,
		&u.Avatar,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query,
		strings.ToLower(strings.TrimSpace(input.Email)),
		input.PasswordHash,
		input.Name,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.EmailExists(msgEmailTaken)
		}
		return nil, errFailedCreateUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) error {
	query := "UPDATE users SET updated_at = NOW()"
	args := []any{id}
	argCount := 1

	set := func(column string, value any) {
		argCount++
		query += fmt.Sprintf(", %s = $%d", column, argCount)
		args = append(args, value)
	}

	if input.Name != nil {
		set("name", *input.Name)
	}
	if input.About != nil {
		set("about", *input.About)
	}
	if input.Avatar != nil {
		set("avatar", *input.Avatar)
	}
	if input.PasswordHash != nil {
		set("password_hash", *input.PasswordHash)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return errFailedUpdateUser(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return errFailedDeleteUser(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}

// Summary returns the user's profile with recipe, favorite and shopping
// list counts.
func (r *UserRepository) Summary(ctx context.Context, id uuid.UUID) (*user.Summary, error) {
	query := `
		SELECT u.id, u.email, u.name, u.avatar,
			(SELECT COUNT(*) FROM recipes WHERE author_id = u.id),
			(SELECT COUNT(*) FROM favorites WHERE user_id = u.id),
			(SELECT COUNT(*) FROM shopping_lists WHERE author_id = u.id)
		FROM users u
		WHERE u.id = $1
	`

	s := &user.Summary{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Email,
		&s.Name,
		&s.Avatar,
		&s.Recipes,
		&s.Favorites,
		&s.ShoppingLists,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return s, nil
}

func (r *UserRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*recipe.Summary, error) {
	query := `
		SELECT r.id, r.title, r.photo, a.name, r.updated_at
		FROM favorites f
		JOIN recipes r ON r.id = f.recipe_id
		JOIN users a ON a.id = r.author_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errFailedListFavorites(err)
	}
	defer rows.Close()

	favorites := []*recipe.Summary{}
	for rows.Next() {
		s := &recipe.Summary{}
		if err := rows.Scan(&s.ID, &s.Title, &s.Photo, &s.AuthorName, &s.UpdatedAt); err != nil {
			return nil, errFailedScanRecipe(err)
		}
		favorites = append(favorites, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRecipes(err)
	}

	return favorites, nil
}

// ToggleFavorite adds recipeID to the user's favorites, or removes it when it
// is already there. It reports whether the recipe is a favorite afterwards.
func (r *UserRepository) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var added bool

	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`, userID, recipeID)
		if err != nil {
			return errFailedToggleFavorite(err)
		}
		if result.RowsAffected() > 0 {
			return nil
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)`, userID, recipeID); err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.NotFound(fmt.Sprintf(msgRecipeNotFoundFmt, recipeID))
			}
			return errFailedToggleFavorite(err)
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return added, nil
}
