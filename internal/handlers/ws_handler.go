package handlers

import (
	"log/slog"
	"net/http"

	"github.com/allknee486/Impulse/internal/config"
	"github.com/allknee486/Impulse/internal/errors"
	"github.com/allknee486/Impulse/internal/realtime"
	"github.com/allknee486/Impulse/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WSHandler upgrades authenticated clients onto the realtime fan-out
type WSHandler struct {
	hub          *realtime.Hub
	tokenService services.TokenServiceInterface
	cfg          config.RealtimeConfig
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *realtime.Hub, tokenService services.TokenServiceInterface, cfg config.RealtimeConfig, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:          hub,
		tokenService: tokenService,
		cfg:          cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve authenticates the request and upgrades it to a websocket session.
// Authentication happens before the handshake: an invalid identity gets a 401
// and no upgrade.
func (h *WSHandler) Serve(c echo.Context) error {
	userID, err := h.authenticate(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		return nil
	}

	client := realtime.NewClient(h.hub, conn, userID, h.cfg, h.logger)
	client.Run()
	return nil
}

// authenticate resolves the connecting user from the Authorization header or,
// for browser clients that cannot set headers on websocket dials, a token
// query parameter.
func (h *WSHandler) authenticate(c echo.Context) (uuid.UUID, error) {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		header := c.Request().Header.Get("Authorization")
		extracted, err := h.tokenService.ExtractTokenFromHeader(header)
		if err != nil {
			return uuid.Nil, err
		}
		tokenString = extracted
	}

	claims, err := h.tokenService.ValidateAccessToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.UserID)
}
