package handler

import (
	"net/http"
	"strings"

	"cookbook-service/internal/auth"
	"cookbook-service/internal/domain/recipe"
	apperrors "cookbook-service/pkg/errors"
	"cookbook-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type RecipeHandler struct {
	recipes RecipeStore
	photos  PhotoStorage
	logger  zerolog.Logger
}

// NewRecipeHandler builds the handler. photos may be nil, in which case the
// photo upload endpoint answers Unavailable.
func NewRecipeHandler(recipes RecipeStore, photos PhotoStorage, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, photos: photos, logger: logger}
}

type RecipeRequest struct {
	Title          *string              `json:"title"`
	MainIngredient *string              `json:"mainIngredient"`
	Description    *string              `json:"description"`
	Servings       *int                 `json:"servings"`
	Cuisine        *string              `json:"cuisine"`
	Categories     *[]string            `json:"categories"`
	Ingredients    *[]recipe.Ingredient `json:"ingredients"`
	Instructions   *[]string            `json:"instructions"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType"`
}

type publishResponse struct {
	Doc    any  `json:"doc"`
	Public bool `json:"public"`
}

func (r *RecipeRequest) validate(partial bool) error {
	var missing []string
	if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
		if !partial || r.Title != nil {
			missing = append(missing, "title")
		}
	}
	if r.MainIngredient == nil || strings.TrimSpace(*r.MainIngredient) == "" {
		if !partial || r.MainIngredient != nil {
			missing = append(missing, "mainIngredient")
		}
	}
	if len(missing) > 0 {
		return missingFields(missing...)
	}

	if r.Title != nil {
		if err := validator.RecipeTitle(*r.Title); err != nil {
			return apperrors.Validation(err.Error())
		}
	}
	if r.MainIngredient != nil {
		if err := validator.MainIngredient(*r.MainIngredient); err != nil {
			return apperrors.Validation(err.Error())
		}
	}
	if r.Servings != nil {
		if err := validator.Servings(*r.Servings); err != nil {
			return apperrors.Validation(err.Error())
		}
	}
	return nil
}

func (r *RecipeRequest) updateInput() recipe.UpdateRecipeInput {
	return recipe.UpdateRecipeInput{
		Title:          r.Title,
		MainIngredient: r.MainIngredient,
		Description:    r.Description,
		Servings:       r.Servings,
		Cuisine:        r.Cuisine,
		Categories:     r.Categories,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
	}
}

// List returns every recipe to admins and public recipes to everyone else.
func (h *RecipeHandler) List(c echo.Context) error {
	filter := recipe.ListFilter{PublicOnly: true}
	if identity, ok := auth.IdentityFrom(c); ok && identity.IsAdmin() {
		filter.PublicOnly = false
	}

	ctx := c.Request().Context()

	docs, err := h.recipes.List(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse[*recipe.Recipe]{Count: len(docs), Docs: nonNil(docs)})
}

// Latest pages through public recipes, newest first, leaving out the
// caller's own.
func (h *RecipeHandler) Latest(c echo.Context) error {
	page := recipe.ParsePage(c.QueryParam(queryPage), c.QueryParam(queryLimit))
	ctx := c.Request().Context()

	total, err := h.recipes.Count(ctx, recipe.ListFilter{PublicOnly: true})
	if err != nil {
		return err
	}

	filter := recipe.ListFilter{PublicOnly: true, Limit: page.Limit, Offset: page.Skip()}
	if identity, ok := auth.IdentityFrom(c); ok {
		filter.ExcludeAuthor = &identity.ID
	}

	docs, err := h.recipes.List(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pageResponse[*recipe.Recipe]{
		Count: total,
		Page:  page.Number,
		Pages: page.Pages(total),
		Docs:  nonNil(docs),
	})
}

func (h *RecipeHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam(querySearch))
	if err := validator.SearchQuery(q); err != nil {
		return apperrors.Validation(err.Error())
	}

	docs, err := h.recipes.Search(c.Request().Context(), q, recipe.SearchLimit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nonNil(docs))
}

func (h *RecipeHandler) Create(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	if err := req.validate(false); err != nil {
		return err
	}

	input := recipe.CreateRecipeInput{
		Author:         identity.ID,
		Title:          strings.TrimSpace(*req.Title),
		MainIngredient: strings.TrimSpace(*req.MainIngredient),
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Servings != nil {
		input.Servings = *req.Servings
	}
	if req.Cuisine != nil {
		input.Cuisine = *req.Cuisine
	}
	if req.Categories != nil {
		input.Categories = *req.Categories
	}
	if req.Ingredients != nil {
		input.Ingredients = *req.Ingredients
	}
	if req.Instructions != nil {
		input.Instructions = *req.Instructions
	}

	created, err := h.recipes.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, docResponse{Doc: created.ID})
}

// Get serves a recipe to its owner, or to anyone when it is public.
func (h *RecipeHandler) Get(c echo.Context) error {
	r, err := loadedRecipe(c)
	if err != nil {
		return err
	}

	var identity *auth.Identity
	if id, ok := auth.IdentityFrom(c); ok {
		identity = &id
	}

	if !auth.CanRead(identity, r) {
		return apperrors.Forbidden(auth.MsgForbidden)
	}

	return c.JSON(http.StatusOK, r)
}

func (h *RecipeHandler) Update(c echo.Context) error {
	r, err := loadedRecipe(c)
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	if err := req.validate(true); err != nil {
		return err
	}

	input := req.updateInput()
	if input.Empty() {
		return apperrors.BadRequest(msgNothingToUpdate)
	}

	updated, err := h.recipes.Update(c.Request().Context(), r.ID, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, docResponse{Doc: updated.ID})
}

func (h *RecipeHandler) Publish(c echo.Context) error {
	r, err := loadedRecipe(c)
	if err != nil {
		return err
	}

	public := !r.Public
	if err := h.recipes.SetPublic(c.Request().Context(), r.ID, public); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, publishResponse{Doc: r.ID, Public: public})
}

func (h *RecipeHandler) Delete(c echo.Context) error {
	r, err := loadedRecipe(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.recipes.Delete(ctx, r.ID); err != nil {
		return err
	}

	h.dropPhoto(c, r.ID, r.Photo)

	return respondMessage(c, http.StatusOK, msgSuccess)
}

// Photo hands out a presigned upload URL and points the recipe at the object
// that upload will create.
func (h *RecipeHandler) Photo(c echo.Context) error {
	if h.photos == nil {
		return apperrors.Unavailable(msgPhotosUnavailable)
	}

	r, err := loadedRecipe(c)
	if err != nil {
		return err
	}

	var req PhotoUploadRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	if err := validator.ImageContentType(req.ContentType); err != nil {
		return apperrors.Validation(err.Error())
	}

	ctx := c.Request().Context()

	upload, err := h.photos.PresignPhotoUpload(ctx, r.ID, req.ContentType)
	if err != nil {
		return apperrors.InternalServer(msgPresignPhotoFailed, err)
	}

	if _, err := h.recipes.Update(ctx, r.ID, recipe.UpdateRecipeInput{Photo: &upload.PhotoURL}); err != nil {
		return err
	}

	h.dropPhoto(c, r.ID, r.Photo)

	return c.JSON(http.StatusOK, upload)
}

func (h *RecipeHandler) dropPhoto(c echo.Context, recipeID uuid.UUID, photoURL string) {
	if h.photos == nil || photoURL == "" {
		return
	}
	if err := h.photos.DeletePhoto(c.Request().Context(), recipeID, photoURL); err != nil {
		h.logger.Warn().Err(err).Str("photo", photoURL).Msg("failed to delete recipe photo")
	}
}

func loadedRecipe(c echo.Context) (*recipe.Recipe, error) {
	r, ok := auth.ResourceFrom[*recipe.Recipe](c)
	if !ok || r == nil {
		return nil, apperrors.InternalServer(msgLoadResourceFailed, nil)
	}
	return r, nil
}
