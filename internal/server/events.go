package server

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/beatcut/beatcut/internal/progress"
)

// streamEvents godoc
// @Summary Stream progress events
// @Description Streams progress events for the given client ID as server-sent events. Delivery is best-effort; a slow consumer misses events rather than stalling the render.
// @Tags Events
// @Produce text/event-stream
// @Param clientId path string true "Client ID"
// @Router /api/v1/events/{clientId} [get]
func (s *Server) streamEvents(c *gin.Context) {
	clientID := c.Param("clientId")

	ch := s.registry.Register(clientID)
	defer s.registry.Unregister(clientID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			if event.Phase == progress.PhaseDone || event.Phase == progress.PhaseError {
				return false
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
