package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"email-agent/internal/repository"
)

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{
		"error": msg,
	})
}

// storeError maps repository.ErrNotFound to 404 with notFound as message and
// anything else to a logged 500.
func storeError(c echo.Context, logger echo.Logger, err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, notFound)
	}
	logger.Error(err)
	return errorJSON(c, http.StatusInternalServerError, "Internal server error")
}
