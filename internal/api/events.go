package api

import (
	"encoding/json"
	"fmt"

	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/log"
	"github.com/gin-gonic/gin"
)

// handleEventStream serves the per-workspace SSE feed: one `data: {json}`
// line per event, with a comment line (`: heartbeat`) every 15 s of idle
// time from the bus's own heartbeat so intermediaries don't time the
// connection out (spec §4.3/§6).
func (s *Server) handleEventStream(c *gin.Context) {
	workspaceID := c.Param("id")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(200)

	flusher, ok := c.Writer.(gin.ResponseWriter)
	if !ok {
		writeError(c, fmt.Errorf("streaming unsupported"))
		return
	}

	sub := s.bus.Subscribe(workspaceID)
	defer sub.Close()
	flusher.Flush() // send the headers now; the first event may be a while away

	logger := log.WithWorkspace(workspaceID)
	logger.Info().Msg("event stream subscriber connected")
	defer logger.Info().Msg("event stream subscriber disconnected")

	ctx := c.Request.Context()
	for {
		event, ok := sub.Next(ctx)
		if !ok {
			return
		}

		if event.Type == events.EventType("heartbeat") {
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
			continue
		}

		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		flusher.Flush()
	}
}
