package recipe

import (
	"time"

	"github.com/google/uuid"
)

type Ingredient struct {
	Quantity float64 `json:"quantity"`
	Fraction string  `json:"fraction,omitempty"`
	Measure  string  `json:"measure,omitempty"`
	Name     string  `json:"name"`
	PrepNote string  `json:"prepNote,omitempty"`
}

type Recipe struct {
	ID             uuid.UUID    `json:"_id"`
	Author         uuid.UUID    `json:"author"`
	Title          string       `json:"title"`
	MainIngredient string       `json:"mainIngredient"`
	Description    string       `json:"description"`
	Photo          string       `json:"photo"`
	Public         bool         `json:"public"`
	Servings       int          `json:"servings"`
	Cuisine        string       `json:"cuisine"`
	Categories     []string     `json:"categories"`
	Ingredients    []Ingredient `json:"ingredients"`
	Instructions   []string     `json:"instructions"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// OwnerID returns the author id in canonical string form, or "" when the
// recipe has no author.
func (r *Recipe) OwnerID() string {
	if r == nil || r.Author == uuid.Nil {
		return ""
	}
	return r.Author.String()
}

func (r *Recipe) IsPublic() bool {
	return r != nil && r.Public
}

// Summary is the trimmed shape used in profile and favorites listings.
type Summary struct {
	ID         uuid.UUID `json:"_id"`
	Title      string    `json:"title"`
	Photo      string    `json:"photo"`
	AuthorName string    `json:"authorName,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreateRecipeInput struct {
	Author         uuid.UUID
	Title          string
	MainIngredient string
	Description    string
	Servings       int
	Cuisine        string
	Categories     []string
	Ingredients    []Ingredient
	Instructions   []string
}

// UpdateRecipeInput carries a partial update; nil fields are left untouched.
type UpdateRecipeInput struct {
	Title          *string
	MainIngredient *string
	Description    *string
	Photo          *string
	Servings       *int
	Cuisine        *string
	Categories     *[]string
	Ingredients    *[]Ingredient
	Instructions   *[]string
}

func (in UpdateRecipeInput) Empty() bool {
	return in.Title == nil && in.MainIngredient == nil && in.Description == nil &&
		in.Photo == nil && in.Servings == nil && in.Cuisine == nil &&
		in.Categories == nil && in.Ingredients == nil && in.Instructions == nil
}

// ListFilter narrows a recipe query. Zero Limit means no limit.
type ListFilter struct {
	PublicOnly    bool
	Author        *uuid.UUID
	ExcludeAuthor *uuid.UUID
	Limit         int
	Offset        int
}
