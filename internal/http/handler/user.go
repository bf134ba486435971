package handler

import (
	"errors"
	"net/http"
	"strings"

	"cookbook-service/internal/audit"
	"cookbook-service/internal/auth"
	"cookbook-service/internal/domain/recipe"
	"cookbook-service/internal/domain/user"
	apperrors "cookbook-service/pkg/errors"
	"cookbook-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	users    UserProfiles
	recipes  RecipeReader
	photos   PhotoStorage
	sessions SessionIssuer
	audit    AuditRecorder
	logger   zerolog.Logger
}

// NewUserHandler builds the handler. photos may be nil when no bucket is
// configured.
func NewUserHandler(users UserProfiles, recipes RecipeReader, photos PhotoStorage, sessions SessionIssuer, recorder AuditRecorder, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		recipes:  recipes,
		photos:   photos,
		sessions: sessions,
		audit:    recorder,
		logger:   logger,
	}
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	About  *string `json:"about"`
	Avatar *string `json:"avatar"`
}

type FavoriteRequest struct {
	Recipe string `json:"recipe"`
}

type LookupEmailRequest struct {
	Email string `json:"email"`
}

type favoriteResult struct {
	Recipe   uuid.UUID `json:"recipe"`
	Favorite bool      `json:"favorite"`
}

type profileResult struct {
	user.PublicProfile
	Recipes []*recipe.Summary `json:"recipes"`
}

type lookupEmailResponse struct {
	Message     string `json:"message"`
	DisplayName string `json:"displayName"`
	EmailExist  bool   `json:"emailExist"`
}

func (h *UserHandler) Me(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	summary, err := h.users.Summary(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, summary)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.Name == nil && req.About == nil && req.Avatar == nil {
		return apperrors.BadRequest(msgNothingToUpdate)
	}
	if req.Name != nil {
		if err := validator.DisplayName(*req.Name); err != nil {
			return apperrors.Validation(err.Error())
		}
	}
	if req.About != nil {
		if err := validator.About(*req.About); err != nil {
			return apperrors.Validation(err.Error())
		}
	}

	ctx := c.Request().Context()
	input := user.UpdateUserInput{Name: req.Name, About: req.About, Avatar: req.Avatar}
	if err := h.users.Update(ctx, identity.ID, input); err != nil {
		return err
	}

	summary, err := h.users.Summary(ctx, identity.ID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, summary)
}

// DeleteMe removes the caller's account and clears the session cookie.
// Tokens already handed out stop resolving once the user is gone. Recipes go
// with the account; their photos are removed afterwards, best effort.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	owned := h.photographedRecipes(c, identity.ID)

	if err := h.users.Delete(ctx, identity.ID); err != nil {
		return err
	}

	for _, r := range owned {
		if err := h.photos.DeletePhoto(ctx, r.ID, r.Photo); err != nil {
			h.logger.Warn().Err(err).Str("recipe_id", r.ID.String()).Msg("failed to delete recipe photo")
		}
	}

	h.sessions.Clear(c)
	h.audit.Record(c, audit.Event{Action: audit.ActionDeleteAccount, Status: audit.StatusSuccess, ActorID: &identity.ID, Email: identity.Email})

	return respondMessage(c, http.StatusOK, msgSuccess)
}

func (h *UserHandler) photographedRecipes(c echo.Context, author uuid.UUID) []*recipe.Recipe {
	if h.photos == nil {
		return nil
	}

	docs, err := h.recipes.List(c.Request().Context(), recipe.ListFilter{Author: &author})
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", author.String()).Msg("failed to list recipes before account deletion")
		return nil
	}

	var owned []*recipe.Recipe
	for _, r := range docs {
		if r.Photo != "" {
			owned = append(owned, r)
		}
	}
	return owned
}

func (h *UserHandler) MyRecipes(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	docs, err := h.recipes.List(c.Request().Context(), recipe.ListFilter{Author: &identity.ID})
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, ownedDocs[*recipe.Recipe]{User: identity, Docs: nonNil(docs)})
}

func (h *UserHandler) Favorites(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	docs, err := h.users.ListFavorites(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, ownedDocs[*recipe.Summary]{User: identity, Docs: nonNil(docs)})
}

// ToggleFavorite adds the recipe to the caller's favorites, or removes it when
// already there. Only recipes the caller may read can be favorited.
func (h *UserHandler) ToggleFavorite(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	var req FavoriteRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Recipe) == "" {
		return missingFields(msgRecipeRequired)
	}

	recipeID, err := uuid.Parse(req.Recipe)
	if err != nil {
		return apperrors.NotFound(fmtResourceNotFound(req.Recipe))
	}

	ctx := c.Request().Context()

	r, err := h.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if !auth.CanRead(&identity, r) {
		return apperrors.Forbidden(auth.MsgForbidden)
	}

	added, err := h.users.ToggleFavorite(ctx, identity.ID, recipeID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, favoriteResult{Recipe: recipeID, Favorite: added})
}

// Profile is the public view of a user and their public recipes.
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := parseID(c, paramID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	docs, err := h.recipes.List(ctx, recipe.ListFilter{PublicOnly: true, Author: &u.ID})
	if err != nil {
		return err
	}

	summaries := make([]*recipe.Summary, 0, len(docs))
	for _, r := range docs {
		summaries = append(summaries, &recipe.Summary{
			ID:         r.ID,
			Title:      r.Title,
			Photo:      r.Photo,
			AuthorName: u.Name,
			UpdatedAt:  r.UpdatedAt,
		})
	}

	return respondData(c, http.StatusOK, profileResult{
		PublicProfile: user.PublicProfile{ID: u.ID, Name: u.Name, About: u.About, Avatar: u.Avatar},
		Recipes:       summaries,
	})
}

func (h *UserHandler) LookupEmail(c echo.Context) error {
	var req LookupEmailRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return apperrors.BadRequest(msgMissingCredentials)
	}

	_, err := h.users.GetByEmail(c.Request().Context(), email)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, lookupEmailResponse{Message: msgSuccess, DisplayName: email, EmailExist: true})
	case errors.Is(err, apperrors.ErrNotFound):
		return c.JSON(http.StatusOK, lookupEmailResponse{Message: msgFailure, DisplayName: email, EmailExist: false})
	default:
		return err
	}
}
