package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const streamWriteTimeout = 5 * time.Second

// handleTaskStream pushes task events to the client over a websocket.
// An optional team_id query parameter narrows the stream to one team.
func (s *Server) handleTaskStream(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team_id")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	// Drain client frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub:
			if !ok {
				return
			}
			if teamID != "" && e.TeamID != "" && e.TeamID != teamID {
				continue
			}
			msg, err := json.Marshal(e)
			if err != nil {
				s.log.Error("encode stream event", "error", err)
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err = conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
