package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"email-agent/internal/model"
)

// LLMStatus is the part of the LLM client the health check reports on.
type LLMStatus interface {
	ProviderName() string
	Available() bool
}

type SystemHandler struct {
	llm       LLMStatus
	storeName string
}

func NewSystemHandler(llm LLMStatus, storeName string) *SystemHandler {
	return &SystemHandler{
		llm:       llm,
		storeName: storeName,
	}
}

// Health stays 200 while the LLM is down; the service keeps answering
// with fallbacks.
func (h *SystemHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"provider":      h.llm.ProviderName(),
		"llm_available": h.llm.Available(),
		"store":         h.storeName,
	})
}

func (h *SystemHandler) Labels(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Labels)
}
