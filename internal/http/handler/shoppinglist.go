package handler

import (
	"net/http"
	"strings"

	"cookbook-service/internal/auth"
	"cookbook-service/internal/domain/shoppinglist"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ShoppingListHandler struct {
	lists ShoppingListStore
}

func NewShoppingListHandler(lists ShoppingListStore) *ShoppingListHandler {
	return &ShoppingListHandler{lists: lists}
}

type ShoppingListRequest struct {
	Recipe string              `json:"recipe"`
	Items  []shoppinglist.Item `json:"items"`
}

type UpdateShoppingListRequest struct {
	Items []shoppinglist.Item `json:"items"`
}

func (h *ShoppingListHandler) List(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	docs, err := h.lists.ListByAuthor(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	return respondData(c, http.StatusOK, ownedDocs[*shoppinglist.ShoppingList]{User: identity, Docs: nonNil(docs)})
}

func (h *ShoppingListHandler) Create(c echo.Context) error {
	identity, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}

	var req ShoppingListRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	input := shoppinglist.CreateShoppingListInput{Author: identity.ID, Items: cleanItems(req.Items)}
	if raw := strings.TrimSpace(req.Recipe); raw != "" {
		recipeID, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.NotFound(fmtResourceNotFound(raw))
		}
		input.Recipe = &recipeID
	}

	created, err := h.lists.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, docResponse{Doc: created})
}

func (h *ShoppingListHandler) Update(c echo.Context) error {
	list, ok := auth.ResourceFrom[*shoppinglist.ShoppingList](c)
	if !ok || list == nil {
		return apperrors.InternalServer(msgLoadResourceFailed, nil)
	}

	var req UpdateShoppingListRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}
	if req.Items == nil {
		return apperrors.BadRequest(msgNothingToUpdate)
	}

	updated, err := h.lists.Update(c.Request().Context(), list.ID, shoppinglist.UpdateShoppingListInput{Items: cleanItems(req.Items)})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, docResponse{Doc: updated})
}

func (h *ShoppingListHandler) Delete(c echo.Context) error {
	list, ok := auth.ResourceFrom[*shoppinglist.ShoppingList](c)
	if !ok || list == nil {
		return apperrors.InternalServer(msgLoadResourceFailed, nil)
	}

	if err := h.lists.Delete(c.Request().Context(), list.ID); err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msgSuccess)
}

// cleanItems drops entries without a name.
func cleanItems(items []shoppinglist.Item) []shoppinglist.Item {
	out := make([]shoppinglist.Item, 0, len(items))
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}
