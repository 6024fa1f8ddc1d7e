package http

import (
	"fmt"
	"net/http"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/repository"
	"golang-stock-watcher/internal/watcher/service"
	"golang-stock-watcher/pkg/logger"

	"github.com/labstack/echo/v4"
)

// LastPriceHandler serves the prices recorded in the last price cache.
type LastPriceHandler struct {
	store  service.WatchlistStore
	repo   repository.LastPriceRepository
	logger *logger.Logger
}

// NewLastPriceHandler creates a new LastPriceHandler.
func NewLastPriceHandler(store service.WatchlistStore, repo repository.LastPriceRepository, logger *logger.Logger) *LastPriceHandler {
	return &LastPriceHandler{store: store, repo: repo, logger: logger}
}

// RegisterRoutes registers the last price route to the watchlist group.
func (h *LastPriceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol/last-price", h.Get)
}

// Get returns the latest recorded price of a watched symbol.
func (h *LastPriceHandler) Get(c echo.Context) error {
	symbol := c.Param("symbol")
	if _, err := h.store.Get(symbol); err != nil {
		return errorResponse(c, err)
	}

	last, err := h.repo.Get(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("Failed to read last price", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return errorResponse(c, err)
	}
	if last == nil {
		return errorResponse(c, fmt.Errorf("%w: no price recorded for %s", entity.ErrNotFound, symbol))
	}
	return c.JSON(http.StatusOK, last)
}
