package handler

import (
	"net/http"
	"strings"

	"cookbook-service/internal/domain/asset"
	apperrors "cookbook-service/pkg/errors"
	"cookbook-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssetHandler struct {
	catalog AssetCatalog
}

func NewAssetHandler(catalog AssetCatalog) *AssetHandler {
	return &AssetHandler{catalog: catalog}
}

type assetResponse struct {
	Field   asset.Kind   `json:"field"`
	Doc     *asset.Asset `json:"doc"`
	Message string       `json:"message"`
}

func (h *AssetHandler) Catalog(c echo.Context) error {
	catalog, err := h.catalog.Catalog(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalog)
}

func (h *AssetHandler) Create(c echo.Context) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}

	input, err := bindAssetInput(c, kind)
	if err != nil {
		return err
	}

	created, err := h.catalog.Create(c.Request().Context(), kind, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, assetResponse{Field: kind, Doc: created, Message: msgAssetSuccess})
}

func (h *AssetHandler) Update(c echo.Context) error {
	kind, id, err := parseKindAndID(c)
	if err != nil {
		return err
	}

	input, err := bindAssetInput(c, kind)
	if err != nil {
		return err
	}

	updated, err := h.catalog.Update(c.Request().Context(), kind, id, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, assetResponse{Field: kind, Doc: updated, Message: msgAssetSuccess})
}

func (h *AssetHandler) Delete(c echo.Context) error {
	kind, id, err := parseKindAndID(c)
	if err != nil {
		return err
	}

	if err := h.catalog.Delete(c.Request().Context(), kind, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func parseKind(c echo.Context) (asset.Kind, error) {
	kind, err := asset.ParseKind(c.Param(paramField))
	if err != nil {
		return "", apperrors.BadRequest(msgWrongField)
	}
	return kind, nil
}

func parseKindAndID(c echo.Context) (asset.Kind, uuid.UUID, error) {
	kind, err := parseKind(c)
	if err != nil {
		return "", uuid.Nil, err
	}

	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return "", uuid.Nil, apperrors.BadRequest(msgWrongField)
	}

	return kind, id, nil
}

// bindAssetInput reads the label and, for fractions, the decimal value.
// Other kinds never carry a decimal.
func bindAssetInput(c echo.Context, kind asset.Kind) (asset.Input, error) {
	var input asset.Input
	if err := bindStrictJSON(c, &input); err != nil {
		return asset.Input{}, err
	}

	input.Label = strings.TrimSpace(input.Label)
	if err := validator.AssetLabel(input.Label); err != nil {
		return asset.Input{}, apperrors.Validation(err.Error())
	}

	if kind == asset.KindFraction {
		if input.Decimal == nil {
			return asset.Input{}, apperrors.Validation(msgDecimalRequired)
		}
	} else {
		input.Decimal = nil
	}

	return input, nil
}
