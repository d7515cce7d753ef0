package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/platformbuilds/klaxon-core/internal/config"
	"github.com/platformbuilds/klaxon-core/internal/monitoring"
	"github.com/platformbuilds/klaxon-core/internal/services"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

const writeDeadline = 10 * time.Second

// EventsHandler streams catalog reload events to WebSocket subscribers.
type EventsHandler struct {
	catalog        *services.DefinitionsService
	upgrader       websocket.Upgrader
	logger         logger.Logger
	maxConnections int64
	pingInterval   time.Duration

	active int64
}

func NewEventsHandler(catalog *services.DefinitionsService, cfg config.WebSocketConfig, logger logger.Logger) *EventsHandler {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &EventsHandler{
		catalog: catalog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// TODO: tighten in prod (check Origin/Host, tenant, auth)
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:         logger,
		maxConnections: int64(cfg.MaxConnections),
		pingInterval:   pingInterval,
	}
}

// HandleDefinitionsStream upgrades the request and forwards catalog events
// until the client disconnects. Each connection gets its own subscription;
// the catalog drops subscribers that stop draining.
func (h *EventsHandler) HandleDefinitionsStream(c *gin.Context) {
	if h.maxConnections > 0 && atomic.LoadInt64(&h.active) >= h.maxConnections {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "subscriber limit reached",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	atomic.AddInt64(&h.active, 1)
	defer atomic.AddInt64(&h.active, -1)
	monitoring.SubscriberConnected()
	defer monitoring.SubscriberDisconnected()

	clientID := generateClientID()
	subID, events := h.catalog.Subscribe()
	defer h.catalog.Unsubscribe(subID)

	h.logger.Info("definitions stream client connected",
		"clientId", clientID,
		"tenant", c.GetString("tenant_id"),
	)

	// Initial snapshot so late subscribers know the current catalog
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteJSON(map[string]interface{}{
		"type":        "catalog_snapshot",
		"hash":        h.catalog.Hash(),
		"alarm_count": h.catalog.AlarmCount(),
		"timestamp":   time.Now().Format(time.RFC3339),
	}); err != nil {
		h.logger.Error("WebSocket write failed", "clientId", clientID, "error", err)
		return
	}

	// Read pump exists only to notice the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	// basic heartbeat so idle proxies don't drop us
	heartbeat := time.NewTicker(h.pingInterval)
	defer heartbeat.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// Subscription closed underneath us (slow consumer drop
				// or service shutdown)
				h.logger.Info("definitions stream subscription closed", "clientId", clientID)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Error("WebSocket write failed", "clientId", clientID, "error", err)
				return
			}

		case <-heartbeat.C:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			_ = conn.WriteJSON(map[string]interface{}{
				"type": "heartbeat",
				"data": map[string]any{"ts": time.Now().UnixMilli()},
			})

		case <-done:
			h.logger.Info("definitions stream client disconnected", "clientId", clientID)
			return

		case <-c.Request.Context().Done():
			return
		}
	}
}

// generateClientID returns a random 16-byte hex id.
func generateClientID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
