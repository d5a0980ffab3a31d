package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

const wsWriteTimeout = 5 * time.Second

// signalsWSHandler upgrades GET /debug/signals to a WebSocket and streams
// every signal the Broadcaster emits from that point on, JSON-encoded as
// {"signal": name, "payload": payload}. Grounded on the teacher's
// pkg/api/handler_ws.go (websocket.Accept upgrade) and
// pkg/events/manager.go's per-connection write loop; the teacher's
// subscription/catchup bookkeeping doesn't apply here since
// signal.Broadcaster.Subscribe already hands back a ready-made debug tap.
func (a *application) signalsWSHandler(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ch, _, unsubscribe := a.broadcaster.Subscribe()
	defer unsubscribe()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				slog.Warn("controllerd: signals ws write failed", "error", err)
				return
			}
		}
	}
}
