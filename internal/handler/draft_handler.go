package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"email-agent/internal/service"
)

type DraftHandler struct {
	draftService service.DraftService
	logger       echo.Logger
}

func NewDraftHandler(draftService service.DraftService, logger echo.Logger) *DraftHandler {
	return &DraftHandler{
		draftService: draftService,
		logger:       logger,
	}
}

// SaveDraft keeps a user-edited reply
func (h *DraftHandler) SaveDraft(c echo.Context) error {
	var req struct {
		EmailID string `json:"email_id"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	draft, err := h.draftService.Save(c.Request().Context(), req.EmailID, req.Subject, req.Body)
	if errors.Is(err, service.ErrEmptyDraft) {
		return errorJSON(c, http.StatusBadRequest, "Draft body cannot be empty")
	}
	if err != nil {
		return storeError(c, h.logger, err, "Email not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "saved",
		"draft":  draft,
	})
}

func (h *DraftHandler) GetDraft(c echo.Context) error {
	draft, email, err := h.draftService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, h.logger, err, "Draft not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"draft": draft,
		"email": email,
	})
}

func (h *DraftHandler) ListDrafts(c echo.Context) error {
	drafts, err := h.draftService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list drafts:", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to list drafts")
	}
	return c.JSON(http.StatusOK, drafts)
}

func (h *DraftHandler) DeleteDraft(c echo.Context) error {
	id := c.Param("id")
	if err := h.draftService.Delete(c.Request().Context(), id); err != nil {
		return storeError(c, h.logger, err, "Draft not found")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "deleted",
		"id":     id,
	})
}

// BatchDeleteDrafts removes every listed draft that exists
func (h *DraftHandler) BatchDeleteDrafts(c echo.Context) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return errorJSON(c, http.StatusBadRequest, "ids is required")
	}

	deleted, err := h.draftService.DeleteMany(c.Request().Context(), req.IDs)
	if err != nil {
		h.logger.Error("Failed to delete drafts:", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to delete drafts")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "deleted",
		"deleted_ids": deleted,
	})
}
