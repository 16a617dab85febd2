package handlers

import (
	"net/http"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/metrics"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/middleware"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SessionEventsHandler struct {
	hub     HubInterface
	metrics *metrics.Metrics
}

func NewSessionEventsHandler(hub HubInterface, m *metrics.Metrics) *SessionEventsHandler {
	return &SessionEventsHandler{hub: hub, metrics: m}
}

// Stream holds the connection open and forwards every session event
// addressed to the caller's session until the client goes away or the hub
// stops.
func (h *SessionEventsHandler) Stream(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	sessionID := middleware.GetSessionID(c)

	client := events.NewClient(userID, sessionID)
	if err := h.hub.Register(client); err != nil {
		writeError(c, http.StatusServiceUnavailable, CodeInternal, "event stream unavailable")
		return
	}
	defer h.hub.Unregister(client)

	h.metrics.StreamOpened()
	defer h.metrics.StreamClosed()

	stream := c.SSE()

	if err := stream.SendJSON(dto.SessionEvent{
		Type:      dto.EventConnected,
		UserID:    userID,
		SessionID: sessionID,
	}, dto.EventConnected, client.ID); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := stream.Send(string(msg), "session", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
