package http

import (
	"errors"
	"net/http"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/dto"

	"github.com/labstack/echo/v4"
)

func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateSymbol), errors.Is(err, entity.ErrPassAlreadyRunning):
		status = http.StatusConflict
	}
	return c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}
