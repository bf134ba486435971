package postgres

import (
	"context"
	"fmt"
	"strings"

	"cookbook-service/internal/domain/recipe"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const recipeColumns = `id, author_id, title, main_ingredient, description, photo, public,
	servings, cuisine, categories, ingredients, instructions, created_at, updated_at`

type RecipeRepository struct {
	db *DB
}

func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func scanRecipe(row pgx.Row) (*recipe.Recipe, error) {
	rec := &recipe.Recipe{}
	err := row.Scan(
		&rec.ID,
		&rec.Author,
		&rec.Title,
		&rec.MainIngredient,
		&rec.Description,
		&rec.Photo,
		&rec.Public,
		&rec.Servings,
		&rec.Cuisine,
		&rec.Categories,
		&rec.Ingredients,
		&rec.Instructions,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

func collectRecipes(rows pgx.Rows) ([]*recipe.Recipe, error) {
	defer rows.Close()

	recipes := []*recipe.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, errFailedScanRecipe(err)
		}
		recipes = append(recipes, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateRecipes(err)
	}

	return recipes, nil
}

func notFoundRecipe(id uuid.UUID) error {
	return apperrors.NotFound(fmt.Sprintf(msgRecipeNotFoundFmt, id))
}

func (r *RecipeRepository) Create(ctx context.Context, input recipe.CreateRecipeInput) (*recipe.Recipe, error) {
	query := `
		INSERT INTO recipes (author_id, title, main_ingredient, description,
			servings, cuisine, categories, ingredients, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + recipeColumns

	rec, err := scanRecipe(r.db.Pool.QueryRow(ctx, query,
		input.Author,
		input.Title,
		input.MainIngredient,
		input.Description,
		input.Servings,
		input.Cuisine,
		nonNilStrings(input.Categories),
		nonNilIngredients(input.Ingredients),
		nonNilStrings(input.Instructions),
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedCreateRecipe(err)
	}

	return rec, nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	rec, err := scanRecipe(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, notFoundRecipe(id)
		}
		return nil, errFailedGetRecipe(err)
	}

	return rec, nil
}

func buildRecipeWhere(filter recipe.ListFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.PublicOnly {
		conditions = append(conditions, "public = TRUE")
	}
	if filter.Author != nil {
		args = append(args, *filter.Author)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.ExcludeAuthor != nil {
		args = append(args, *filter.ExcludeAuthor)
		conditions = append(conditions, fmt.Sprintf("author_id <> $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns recipes matching filter, most recently updated first.
func (r *RecipeRepository) List(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error) {
	where, args := buildRecipeWhere(filter)
	query := `SELECT ` + recipeColumns + ` FROM recipes` + where + ` ORDER BY updated_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListRecipes(err)
	}

	return collectRecipes(rows)
}

func (r *RecipeRepository) Count(ctx context.Context, filter recipe.ListFilter) (int, error) {
	where, args := buildRecipeWhere(filter)

	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM recipes`+where, args...).Scan(&count); err != nil {
		return 0, errFailedCountRecipes(err)
	}

	return count, nil
}

// Search does a case-insensitive substring match on title, cuisine and
// categories over public recipes only.
func (r *RecipeRepository) Search(ctx context.Context, q string, limit int) ([]*recipe.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE public = TRUE
			AND (title ILIKE $1
				OR cuisine ILIKE $1
				OR EXISTS (SELECT 1 FROM unnest(categories) c WHERE c ILIKE $1))
		ORDER BY updated_at DESC
		LIMIT $2
	`

	pattern := "%" + escapeLikePattern(q) + "%"

	rows, err := r.db.Pool.Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, errFailedSearchRecipes(err)
	}

	return collectRecipes(rows)
}

func (r *RecipeRepository) Update(ctx context.Context, id uuid.UUID, input recipe.UpdateRecipeInput) (*recipe.Recipe, error) {
	query := "UPDATE recipes SET updated_at = NOW()"
	args := []any{id}

	set := func(column string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.MainIngredient != nil {
		set("main_ingredient", *input.MainIngredient)
	}
	if input.Description != nil {
		set("description", *input.Description)
	}
	if input.Photo != nil {
		set("photo", *input.Photo)
	}
	if input.Servings != nil {
		set("servings", *input.Servings)
	}
	if input.Cuisine != nil {
		set("cuisine", *input.Cuisine)
	}
	if input.Categories != nil {
		set("categories", nonNilStrings(*input.Categories))
	}
	if input.Ingredients != nil {
		set("ingredients", nonNilIngredients(*input.Ingredients))
	}
	if input.Instructions != nil {
		set("instructions", nonNilStrings(*input.Instructions))
	}

	query += " WHERE id = $1 RETURNING " + recipeColumns

	rec, err := scanRecipe(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, notFoundRecipe(id)
		}
		return nil, errFailedUpdateRecipe(err)
	}

	return rec, nil
}

func (r *RecipeRepository) SetPublic(ctx context.Context, id uuid.UUID, public bool) error {
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE recipes SET public = $2, updated_at = NOW() WHERE id = $1`, id, public)
	if err != nil {
		return errFailedUpdateRecipe(err)
	}

	if result.RowsAffected() == 0 {
		return notFoundRecipe(id)
	}

	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return errFailedDeleteRecipe(err)
	}

	if result.RowsAffected() == 0 {
		return notFoundRecipe(id)
	}

	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilIngredients(s []recipe.Ingredient) []recipe.Ingredient {
	if s == nil {
		return []recipe.Ingredient{}
	}
	return s
}
