package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/internal/watcher/repository"
	"golang-stock-watcher/internal/watcher/service"
	"golang-stock-watcher/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWatchlistServer(t *testing.T) (*echo.Echo, service.WatchlistStore) {
	t.Helper()
	log := logger.NewNop()
	repo := repository.NewWatchlistRepository(filepath.Join(t.TempDir(), "stocks.json"), log)
	store := service.NewWatchlistStore(repo, nil, log)
	store.Load(context.Background())

	lookup := repository.NewSymbolLookupFromRecords([]dto.SymbolRecord{{Symbol: "2330.TW", Name: "台積電"}})
	handler := NewWatchlistHandler(store, service.NewEntryResolver(lookup, nil, log), log)

	e := echo.New()
	apiV1 := e.Group("/api/v1")
	handler.RegisterRoutes(apiV1.Group("/watchlist"))
	handler.RegisterCategoryRoutes(apiV1.Group("/categories"))
	return e, store
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWatchlistHandler_CreateAndList(t *testing.T) {
	e, _ := setupWatchlistServer(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/watchlist", `{"query":"台積電","target_price":600}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created entity.WatchEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "2330.TW", created.Symbol)
	assert.Equal(t, "台積電", created.Name)
	assert.Equal(t, entity.ConditionAtOrAbove, created.Condition)
	assert.Equal(t, "Uncategorized", created.Category)

	rec = doRequest(e, http.MethodPost, "/api/v1/watchlist", `{"query":"aapl","target_price":150,"condition":"<=","category":"US"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api/v1/watchlist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.WatchlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "AAPL", list.Entries[1].Symbol)
	assert.Equal(t, entity.ConditionAtOrBelow, list.Entries[1].Condition)
}

func TestWatchlistHandler_CreateErrors(t *testing.T) {
	e, _ := setupWatchlistServer(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/watchlist", `{"query":"AAPL","target_price":150}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/watchlist", `{"query":"AAPL","target_price":170}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/watchlist", `{"query":"AAPL","target_price":1,"condition":"=="}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/watchlist", `{"query":"不存在","target_price":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/watchlist", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistHandler_UpdateMoveDelete(t *testing.T) {
	e, store := setupWatchlistServer(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, entity.WatchEntry{Symbol: "A", TargetPrice: 1}))
	require.NoError(t, store.Add(ctx, entity.WatchEntry{Symbol: "B", TargetPrice: 2}))

	rec := doRequest(e, http.MethodPut, "/api/v1/watchlist/A", `{"target_price":5,"condition":"below","category":"Mine"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got, err := store.Get("A")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.TargetPrice)
	assert.Equal(t, entity.ConditionAtOrBelow, got.Condition)
	assert.Equal(t, "Mine", got.Category)

	rec = doRequest(e, http.MethodPut, "/api/v1/watchlist/A", `{"query":"B"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/watchlist/B/move", `{"direction":"up"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.WatchlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "B", list.Entries[0].Symbol)

	rec = doRequest(e, http.MethodPost, "/api/v1/watchlist/B/move", `{"direction":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/v1/watchlist/A", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(e, http.MethodDelete, "/api/v1/watchlist/A", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchlistHandler_Categories(t *testing.T) {
	e, store := setupWatchlistServer(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, entity.WatchEntry{Symbol: "MSFT", TargetPrice: 1, Category: "US"}))
	require.NoError(t, store.Add(ctx, entity.WatchEntry{Symbol: "2330.TW", TargetPrice: 1, Category: "TW"}))
	require.NoError(t, store.Add(ctx, entity.WatchEntry{Symbol: "AAPL", TargetPrice: 1, Category: "US"}))

	rec := doRequest(e, http.MethodGet, "/api/v1/watchlist/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []entity.CategoryGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "TW", groups[0].Category)
	assert.Len(t, groups[1].Entries, 2)

	rec = doRequest(e, http.MethodDelete, "/api/v1/categories/US", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var removed dto.RemoveCategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, 2, removed.Removed)
	assert.Len(t, store.Snapshot(), 1)

	rec = doRequest(e, http.MethodDelete, "/api/v1/categories/US", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
