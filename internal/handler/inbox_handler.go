package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"email-agent/internal/service"
	"email-agent/internal/sse"
)

type InboxHandler struct {
	inboxService     service.InboxService
	ingestionService service.IngestionService
	sources          map[string]service.EmailSource
	sseManager       *sse.SSEManager
	logger           echo.Logger
}

// NewInboxHandler takes the import sources keyed by the name used in
// ?source=. sseManager may be nil.
func NewInboxHandler(
	inboxService service.InboxService,
	ingestionService service.IngestionService,
	sources map[string]service.EmailSource,
	sseManager *sse.SSEManager,
	logger echo.Logger,
) *InboxHandler {
	return &InboxHandler{
		inboxService:     inboxService,
		ingestionService: ingestionService,
		sources:          sources,
		sseManager:       sseManager,
		logger:           logger,
	}
}

// ListInbox returns every email with its category, oldest first
func (h *InboxHandler) ListInbox(c echo.Context) error {
	items, err := h.inboxService.ListInbox(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list inbox:", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to list inbox")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InboxHandler) GetEmail(c echo.Context) error {
	detail, err := h.inboxService.GetEmail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, h.logger, err, "Email not found")
	}
	return c.JSON(http.StatusOK, detail)
}

// LoadInbox runs an ingestion pass
func (h *InboxHandler) LoadInbox(c echo.Context) error {
	reset, _ := strconv.ParseBool(c.QueryParam("reset"))

	summary, err := h.ingestionService.ProcessInbox(c.Request().Context(), reset)
	if err != nil {
		h.logger.Error("Inbox load failed:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
	}

	if h.sseManager != nil {
		h.sseManager.Broadcast(sse.EventSummary, summary)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"result": summary,
	})
}

// ImportInbox stores emails from one of the configured sources
func (h *InboxHandler) ImportInbox(c echo.Context) error {
	name := c.QueryParam("source")
	if name == "" {
		name = "mock"
	}
	source, ok := h.sources[name]
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Unknown or unconfigured source: "+name)
	}

	imported, err := h.inboxService.Import(c.Request().Context(), source)
	if err != nil {
		h.logger.Error("Inbox import failed:", err)
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"source":   name,
		"imported": imported,
	})
}

func (h *InboxHandler) ClearInbox(c echo.Context) error {
	if err := h.inboxService.Clear(c.Request().Context()); err != nil {
		h.logger.Error("Failed to clear inbox:", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to clear inbox")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "cleared",
	})
}
