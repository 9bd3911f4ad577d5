package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"en-garde-armory-be/internal/dto"
	"en-garde-armory-be/internal/pkg/logger"
	"en-garde-armory-be/internal/pkg/serverutils"
	"en-garde-armory-be/internal/service"
	internalWS "en-garde-armory-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type StreamHandler struct {
	service service.IShowcaseService
	tokens  *serverutils.SessionTokens
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewStreamHandler(service service.IShowcaseService, tokens *serverutils.SessionTokens, hub *internalWS.Hub, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		service: service,
		tokens:  tokens,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades to a websocket that receives {"type":"view","data":...} frames for the session.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	// Priority 1: Query Param (browsers cannot set headers on the handshake)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header
	if tokenStr == "" {
		tokenStr = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	}

	if tokenStr == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')")
	}

	sessionID, err := h.tokens.Parse(tokenStr)
	if err != nil {
		h.logger.Warn("StreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid session token")
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	view, err := h.service.GetView(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return err
	}

	initial, err := json.Marshal(dto.StreamMessage{Type: "view", Data: view})
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StreamHandler", "Starting view stream", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID, initial)
		h.logger.Info("StreamHandler", "View stream ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

// RegisterRoutes must run before the session controller so the stream route is matched ahead of
// the /sessions/me group middleware.
func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/sessions/me/stream", h.ServeWs)
}
