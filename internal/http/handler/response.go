package handler

import (
	"github.com/labstack/echo/v4"
)

type listResponse[T any] struct {
	Count int `json:"count"`
	Docs  []T `json:"docs"`
}

type pageResponse[T any] struct {
	Count int `json:"count"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Docs  []T `json:"docs"`
}

type docResponse struct {
	Doc any `json:"doc"`
}

type dataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type ownedDocs[T any] struct {
	User any `json:"user"`
	Docs []T `json:"docs"`
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, dataResponse{Message: msgSuccess, Data: data})
}

// nonNil keeps empty collections serialized as [] rather than null.
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
