package http

import (
	"errors"
	"fmt"
	"net/http"

	"cookbook-service/internal/auth"
	"cookbook-service/internal/http/middleware"
	apperrors "cookbook-service/pkg/errors"
	"cookbook-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	jsonKeyMessage   = "message"
	jsonKeyRequestID = "request_id"

	msgInternalServerError = "Something went wrong. Try again later."
	msgNotFound            = "Resource not found"
	msgBadRequest          = "Bad request"
	msgConflict            = "Resource already exists"
	msgUnavailable         = "Service unavailable"
	unknownRequestID       = "unknown"
)

// errorMapping pairs a sentinel with its status and the message used when the
// error carries none of its own.
type errorMapping struct {
	sentinel error
	status   int
	message  string
	// fixed ignores any AppError message.
	fixed bool
}

var errorMappings = []errorMapping{
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, auth.MsgUnauthorized, true},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, auth.MsgUnauthorized, false},
	{apperrors.ErrForbidden, http.StatusForbidden, auth.MsgForbidden, true},
	{apperrors.ErrNotFound, http.StatusNotFound, msgNotFound, false},
	{apperrors.ErrBadRequest, http.StatusBadRequest, msgBadRequest, false},
	{apperrors.ErrValidation, http.StatusBadRequest, msgBadRequest, false},
	{apperrors.ErrEmailExists, http.StatusBadRequest, msgBadRequest, false},
	{apperrors.ErrConflict, http.StatusConflict, msgConflict, false},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, msgUnavailable, false},
}

// CustomHTTPErrorHandler is the only place errors become responses. Client
// errors keep their AppError message; anything unmapped is a 500 whose cause
// is logged and never sent.
func CustomHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := translate(err)

		requestID := middleware.GetRequestID(c)
		if requestID == "" {
			requestID = unknownRequestID
		}

		event := log.Warn()
		if code >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", code).
			Str("error", logger.SanitizeLogMessage(err.Error())).
			Msg("request failed")

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]string{
				jsonKeyMessage:   message,
				jsonKeyRequestID: requestID,
			})
		}
		if err != nil {
			log.Error().Err(err).Str("request_id", requestID).Msg("failed to write error response")
		}
	}
}

func translate(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			return httpErr.Code, msgInternalServerError
		}
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	if errors.Is(err, apperrors.ErrInternalServer) {
		return http.StatusInternalServerError, msgInternalServerError
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}

		message := m.message
		var appErr *apperrors.AppError
		if !m.fixed && errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}
		return m.status, message
	}

	return http.StatusInternalServerError, msgInternalServerError
}
