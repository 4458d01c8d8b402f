package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/sgp/sgp-backend/internal/model"
)

const examEventsPath = "/ws/v1/admin/exams/events"

// SubscribeExamEvents streams exam events to fn until ctx is cancelled or
// the connection drops. The token travels in the query string because
// browsers cannot set headers on websocket upgrades.
func (c *Client) SubscribeExamEvents(ctx context.Context, fn func(model.ExamEvent)) error {
	u, err := url.Parse(c.Base + examEventsPath)
	if err != nil {
		return fmt.Errorf("parse events url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if c.Token != "" {
		u.RawQuery = url.Values{"token": {c.Token}}.Encode()
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		if resp != nil {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("dial events: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	for {
		var evt model.ExamEvent
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		if evt.Type == "" {
			continue
		}
		fn(evt)
	}
}
