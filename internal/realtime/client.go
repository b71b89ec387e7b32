package realtime

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/allknee486/Impulse/internal/config"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one websocket session bound to an authenticated user. Outbound
// events arrive on the buffered send channel; the write pump owns the
// connection for writes and the read pump owns it for reads.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan []byte

	cfg    config.RealtimeConfig
	logger *slog.Logger
}

// NewClient wraps an upgraded connection for an authenticated user. The
// caller must have verified identity before the upgrade.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, cfg config.RealtimeConfig, logger *slog.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, cfg.SendBufferSize),
		cfg:    cfg,
		logger: logger,
	}
}

// Run joins the hub, greets the session and pumps the connection until it
// closes.
func (c *Client) Run() {
	c.hub.Join(c)
	c.reply(greetingMessage{Type: TypeConnectionEstablished})
	go c.writePump()
	c.readPump()
}

// inboundMessage is the minimal client-to-server protocol: ping elicits pong,
// anything else well-formed is ignored.
type inboundMessage struct {
	Type string `json:"type"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(errorMessage{Type: "error", Message: "Invalid JSON"})
			continue
		}

		if strings.EqualFold(msg.Type, "ping") {
			c.reply(pongMessage{Type: "pong"})
		}
		// Other message types are an extension point, not an error.
	}
}

func (c *Client) writePump() {
	// Protocol-level pings keep the read deadline alive on idle connections.
	pingPeriod := c.cfg.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply marshals a control message onto the send channel, dropping it when
// the buffer is full.
func (c *Client) reply(msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
