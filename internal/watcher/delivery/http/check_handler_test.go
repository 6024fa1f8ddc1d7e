package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang-stock-watcher/internal/entity"
	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/internal/watcher/event"
	"golang-stock-watcher/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	running bool
}

func (s *fakeScheduler) Trigger(context.Context) (string, error) {
	if s.running {
		return "", entity.ErrPassAlreadyRunning
	}
	s.running = true
	return "pass-1", nil
}

func (s *fakeScheduler) Start(context.Context) error { return nil }
func (s *fakeScheduler) Running() bool               { return s.running }
func (s *fakeScheduler) Wait()                       {}

func setupCheckServer(t *testing.T) (*echo.Echo, *Hub) {
	t.Helper()
	hub := NewHub()
	e := echo.New()
	NewCheckHandler(&fakeScheduler{}, hub, logger.NewNop()).RegisterRoutes(e.Group("/api/v1"))
	return e, hub
}

func TestCheckHandler_Trigger(t *testing.T) {
	e, _ := setupCheckServer(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/checks", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp dto.TriggerCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pass-1", resp.PassID)

	rec = doRequest(e, http.MethodPost, "/api/v1/checks", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckHandler_EventsWebsocket(t *testing.T) {
	e, hub := setupCheckServer(t)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Handle(context.Background(), event.Log("pass-1", event.SeverityTargetMet, "Target reached! AAPL")))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var got event.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, event.KindLog, got.Kind)
	assert.Equal(t, "pass-1", got.PassID)
	assert.Equal(t, event.SeverityTargetMet, got.Severity)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}
