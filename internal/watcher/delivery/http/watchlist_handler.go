package http

import (
	"fmt"
	"math"
	"net/http"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/internal/watcher/service"
	"golang-stock-watcher/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler handles HTTP requests for the watchlist.
type WatchlistHandler struct {
	store    service.WatchlistStore
	resolver service.EntryResolver
	logger   *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(store service.WatchlistStore, resolver service.EntryResolver, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{store: store, resolver: resolver, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/categories", h.Categories)
	g.PUT("/:symbol", h.Update)
	g.DELETE("/:symbol", h.Delete)
	g.POST("/:symbol/move", h.Move)
}

// RegisterCategoryRoutes registers the category routes to the Echo group.
func (h *WatchlistHandler) RegisterCategoryRoutes(g *echo.Group) {
	g.DELETE("/:category", h.DeleteCategory)
}

// List returns every entry in stored order.
func (h *WatchlistHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.WatchlistResponse{Entries: h.store.Snapshot()})
}

// Categories returns entries grouped by category.
func (h *WatchlistHandler) Categories(c echo.Context) error {
	groups := h.store.Categories()
	if groups == nil {
		groups = []entity.CategoryGroup{}
	}
	return c.JSON(http.StatusOK, groups)
}

// Create resolves the query and appends a new entry.
func (h *WatchlistHandler) Create(c echo.Context) error {
	var req dto.CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	condition, err := entity.ParseCondition(req.Condition)
	if err != nil {
		return errorResponse(c, err)
	}
	if math.IsNaN(req.TargetPrice) || math.IsInf(req.TargetPrice, 0) {
		return errorResponse(c, fmt.Errorf("%w: target price must be a finite number", entity.ErrInvalidInput))
	}

	ctx := c.Request().Context()
	symbol, name, err := h.resolver.Resolve(ctx, req.Query)
	if err != nil {
		return errorResponse(c, err)
	}

	entry := entity.WatchEntry{
		Symbol:      symbol,
		Name:        name,
		TargetPrice: req.TargetPrice,
		Condition:   condition,
		Category:    req.Category,
	}.Normalize()
	if err := h.store.Add(ctx, entry); err != nil {
		h.logger.WarnContext(ctx, "Failed to add watchlist entry", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, entry)
}

// Update edits an entry. A non-empty query that resolves to another symbol
// replaces the symbol and name.
func (h *WatchlistHandler) Update(c echo.Context) error {
	symbol := c.Param("symbol")

	var req dto.UpdateEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	ctx := c.Request().Context()
	current, err := h.store.Get(symbol)
	if err != nil {
		return errorResponse(c, err)
	}

	var newSymbol, newName string
	if req.Query != "" && req.Query != current.Symbol && req.Query != current.Name {
		newSymbol, newName, err = h.resolver.Resolve(ctx, req.Query)
		if err != nil {
			return errorResponse(c, err)
		}
	}

	updated, err := h.store.Update(ctx, symbol, func(e *entity.WatchEntry) error {
		if newSymbol != "" {
			e.Symbol = newSymbol
			e.Name = newName
		}
		if req.TargetPrice != nil {
			e.TargetPrice = *req.TargetPrice
		}
		if req.Condition != nil {
			cond, err := entity.ParseCondition(*req.Condition)
			if err != nil {
				return err
			}
			e.Condition = cond
		}
		if req.Category != nil {
			e.Category = *req.Category
		}
		return nil
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

// Delete removes one entry.
func (h *WatchlistHandler) Delete(c echo.Context) error {
	if err := h.store.Remove(c.Request().Context(), c.Param("symbol")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteCategory removes every entry of a category.
func (h *WatchlistHandler) DeleteCategory(c echo.Context) error {
	category := c.Param("category")
	removed, err := h.store.RemoveCategory(c.Request().Context(), category)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.RemoveCategoryResponse{Category: category, Removed: removed})
}

// Move swaps an entry with its neighbour.
func (h *WatchlistHandler) Move(c echo.Context) error {
	var req dto.MoveEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	direction, err := entity.ParseDirection(req.Direction)
	if err != nil {
		return errorResponse(c, err)
	}
	if err := h.store.Move(c.Request().Context(), c.Param("symbol"), direction); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.WatchlistResponse{Entries: h.store.Snapshot()})
}
