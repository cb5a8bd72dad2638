package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"email-agent/internal/model"
	"email-agent/internal/service"
)

type AgentHandler struct {
	agentService service.AgentService
	logger       echo.Logger
}

func NewAgentHandler(agentService service.AgentService, logger echo.Logger) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		logger:       logger,
	}
}

type draftRequest struct {
	EmailID   string `json:"email_id"`
	Tone      string `json:"tone"`
	PromptKey string `json:"prompt_key"`
}

type chatRequest struct {
	EmailID   string `json:"email_id"`
	Query     string `json:"query"`
	PromptKey string `json:"prompt_key"`
}

// GenerateDraft writes a new reply for one email
func (h *AgentHandler) GenerateDraft(c echo.Context) error {
	req := draftRequest{Tone: service.DefaultDraftTone, PromptKey: model.PromptAutoReply}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.EmailID == "" {
		return errorJSON(c, http.StatusBadRequest, "email_id is required")
	}

	draft, err := h.agentService.GenerateDraft(c.Request().Context(), req.EmailID, req.Tone, req.PromptKey)
	if err != nil {
		return storeError(c, h.logger, err, "Email not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"draft": map[string]string{
			"id":       draft.ID,
			"email_id": draft.EmailID,
			"subject":  draft.Subject,
			"body":     draft.Body,
		},
	})
}

// Chat answers a question about one email or the whole inbox
func (h *AgentHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return errorJSON(c, http.StatusBadRequest, "query is required")
	}

	reply, err := h.agentService.Chat(c.Request().Context(), req.EmailID, req.Query, req.PromptKey)
	if err != nil {
		return storeError(c, h.logger, err, "Email not found")
	}

	var emailID interface{}
	if req.EmailID != "" {
		emailID = req.EmailID
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"reply": reply,
		"metadata": map[string]interface{}{
			"email_id": emailID,
		},
	})
}
