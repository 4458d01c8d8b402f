package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/middleware"
	"github.com/sgp/sgp-backend/internal/response"
)

const keepAliveInterval = 30 * time.Second

// pingPayload is the keep-alive frame; it never changes.
var pingPayload = []byte(`{"type":"ping"}`)

// ExamEventsSSE godoc
// GET /api/v1/admin/exam-events
// Streams exam events as Server-Sent Events for clients that cannot use WebSockets.
func (h *EventsHandler) ExamEventsSSE(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.ExamEventsChannel())
	defer pubsub.Close()

	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	h.log.Info().Int("admin_id", claims.UserID).Msg("Admin attached to exam events SSE")

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Int("admin_id", claims.UserID).Msg("Admin detached from exam events SSE")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Forward raw JSON; the payload is already a model.ExamEvent.
			writeSSE(c, []byte(msg.Payload))

		case <-keepAliveTicker.C:
			writeSSE(c, pingPayload)
		}
	}
}

func writeSSE(c *gin.Context, data []byte) {
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}
