package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"email-agent/internal/sse"
)

type EventsHandler struct {
	sseManager *sse.SSEManager
	logger     echo.Logger
}

func NewEventsHandler(sseManager *sse.SSEManager, logger echo.Logger) *EventsHandler {
	return &EventsHandler{
		sseManager: sseManager,
		logger:     logger,
	}
}

// Stream sends ingestion progress as Server-Sent Events until the client
// disconnects or the manager shuts down.
func (h *EventsHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	clientChannel := h.sseManager.AddClient()
	defer h.sseManager.RemoveClient(clientChannel)

	initJSON, _ := json.Marshal(sse.Event{
		Type: "connection",
		Data: map[string]string{"message": "Connected to ingestion updates"},
		Time: time.Now().Unix(),
	})
	fmt.Fprintf(res, "data: %s\n\n", initJSON)
	res.Flush()

	for {
		select {
		case eventData, ok := <-clientChannel:
			if !ok {
				return nil
			}
			fmt.Fprintf(res, "data: %s\n\n", eventData)
			res.Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
