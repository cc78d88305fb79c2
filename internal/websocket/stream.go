// Package websocket pushes refresh ticks to connected dashboards.
// Uses github.com/coder/websocket - the modern, context-aware WebSocket
// library for Go. The stream is one-way: clients connect, receive the
// current version immediately, then a tick whenever the refresh bus fires.
package websocket

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/winterhq/socialboard/internal/logger"
	"github.com/winterhq/socialboard/internal/metrics"
	"github.com/winterhq/socialboard/internal/refresh"
)

const writeTimeout = 5 * time.Second

// Tick is the message pushed on every refresh
type Tick struct {
	Type    string `json:"type"`
	Version int64  `json:"version"`
}

// Handler upgrades connections and bridges the refresh bus onto them
type Handler struct {
	bus *refresh.Bus
}

// NewHandler creates a WebSocket handler fed by the given bus
func NewHandler(bus *refresh.Bus) *Handler {
	return &Handler{bus: bus}
}

// HandleWebSocket handles WebSocket upgrade requests on the public
// refresh stream endpoint.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		// the dashboard is served from a different origin than the API
		InsecureSkipVerify: true,
		CompressionMode:    websocket.CompressionContextTakeover,
	})
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	m := metrics.Get()
	m.WebSocketConnections.Inc()
	defer m.WebSocketConnections.Dec()

	// CloseRead discards client messages and gives us a context that ends
	// when the connection does
	ctx := conn.CloseRead(c.Request.Context())

	ticks := make(chan int64, 8)
	unsubscribe := h.bus.Subscribe(func(version int64) {
		select {
		case ticks <- version:
		default:
			// slow consumer; it will catch up on the next tick
		}
	})
	defer unsubscribe()

	if err := h.write(ctx, conn, h.bus.Version()); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case version := <-ticks:
			if err := h.write(ctx, conn, version); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, version int64) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, Tick{Type: "refresh", Version: version})
}
