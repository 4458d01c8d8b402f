package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/middleware"
	ws "github.com/sgp/sgp-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients (the CLI) send no Origin.
				return true
			}
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// subscriber is the part of redis.Client the event streams need.
type subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// EventsHandler relays exam change events from Redis pub/sub to admins.
type EventsHandler struct {
	rdb      subscriber
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(rdb subscriber, log zerolog.Logger, allowedOrigins []string) *EventsHandler {
	return &EventsHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "events_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ExamEventsSocket godoc
// WS /ws/v1/admin/exams/events
// Upgrades to WebSocket and forwards every exam.created / exam.updated event.
// Clients may send {"action":"ping"} and get {"event":"pong"} back; any other
// message gets {"event":"error"}.
func (h *EventsHandler) ExamEventsSocket(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	pubsub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.ExamEventsChannel())
	defer pubsub.Close()

	wsLog := h.log.With().Int("admin_id", claims.UserID).Logger()
	wsLog.Info().Msg("Admin subscribed to exam events")

	h.relay(c.Request.Context(), conn, pubsub.Channel(), wsLog)
}

// relay forwards events to conn until either side goes away. The reader
// goroutine only decodes client actions; every write happens in the select
// loop so the connection has a single writer.
func (h *EventsHandler) relay(ctx context.Context, conn *websocket.Conn, events <-chan *redis.Message, wsLog zerolog.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pings := make(chan struct{}, 1)
	rejects := make(chan string, 4)
	reject := func(msg string) {
		select {
		case rejects <- msg:
		default:
		}
	}

	ws.ExtendOnPong(conn)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				var syntaxErr *json.SyntaxError
				var typeErr *json.UnmarshalTypeError
				if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
					reject("invalid message")
					continue
				}
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}

			switch msg.Action {
			case ws.ActionPing:
				select {
				case pings <- struct{}{}:
				default:
				}
			default:
				reject(fmt.Sprintf("unknown action %q", msg.Action))
			}
		}
	}()

	ticker := time.NewTicker(ws.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Exam events connection closed")
			return

		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteRaw(conn, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Write event failed")
				return
			}

		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}

		case errMsg := <-rejects:
			if err := ws.WriteError(conn, errMsg); err != nil {
				return
			}

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}
