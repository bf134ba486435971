package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20
)

func bindStrictJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return apperrors.BadRequest(msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.BadRequest(msgInvalidRequestBody)
	}

	return nil
}

// parseID reads a uuid path parameter. A malformed id cannot name an existing
// document, so it reads as not found.
func parseID(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NotFound(fmtResourceNotFound(raw))
	}
	return id, nil
}

func fmtResourceNotFound(id string) string {
	return fmt.Sprintf(msgResourceNotFoundFmt, id)
}

func missingFields(fields ...string) error {
	return apperrors.Validation(fmt.Sprintf(msgMissingFieldsFmt, strings.Join(fields, ", ")))
}
