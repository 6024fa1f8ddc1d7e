package http

import (
	"net/http"

	"golang-stock-watcher/internal/watcher/dto"
	"golang-stock-watcher/internal/watcher/service"
	"golang-stock-watcher/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CheckHandler triggers check passes and streams their events.
type CheckHandler struct {
	scheduler service.MonitorScheduler
	hub       *Hub
	logger    *logger.Logger
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(scheduler service.MonitorScheduler, hub *Hub, logger *logger.Logger) *CheckHandler {
	return &CheckHandler{scheduler: scheduler, hub: hub, logger: logger}
}

// RegisterRoutes registers the check routes to the Echo group.
func (h *CheckHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/checks", h.Trigger)
	g.GET("/events", h.Events)
}

// Trigger starts a check pass and returns immediately.
func (h *CheckHandler) Trigger(c echo.Context) error {
	passID, err := h.scheduler.Trigger(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	h.logger.Info("Check pass triggered over HTTP", logger.StringField("pass_id", passID))
	return c.JSON(http.StatusAccepted, dto.TriggerCheckResponse{PassID: passID})
}

// Events upgrades to a websocket that receives every event as JSON.
func (h *CheckHandler) Events(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", logger.ErrorField(err))
		return nil
	}
	h.hub.AddClient(conn)

	// Reads only detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.RemoveClient(conn)
			return nil
		}
	}
}
