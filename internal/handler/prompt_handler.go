package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"email-agent/internal/service"
)

type PromptHandler struct {
	promptService service.PromptService
	logger        echo.Logger
}

func NewPromptHandler(promptService service.PromptService, logger echo.Logger) *PromptHandler {
	return &PromptHandler{
		promptService: promptService,
		logger:        logger,
	}
}

func (h *PromptHandler) GetPrompts(c echo.Context) error {
	prompts, err := h.promptService.GetAll(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get prompts:", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to get prompts")
	}
	return c.JSON(http.StatusOK, prompts)
}

// UpdatePrompt creates or replaces the prompt named by ?key= with ?text=
func (h *PromptHandler) UpdatePrompt(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return errorJSON(c, http.StatusBadRequest, "key is required")
	}

	status, err := h.promptService.Update(c.Request().Context(), key, c.QueryParam("text"))
	if err != nil {
		h.logger.Error("Failed to update prompt:", err)
		return errorJSON(c, http.StatusInternalServerError, "Failed to update prompt")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": status,
	})
}
