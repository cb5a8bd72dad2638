package router

import (
	"email-agent/internal/handler"
	"email-agent/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Inbox  *handler.InboxHandler
	Prompt *handler.PromptHandler
	Agent  *handler.AgentHandler
	Draft  *handler.DraftHandler
	System *handler.SystemHandler
	Events *handler.EventsHandler
}

func SetupRoutes(e *echo.Echo, h Handlers, adminToken string) {
	admin := middleware.AdminMiddleware(adminToken)

	e.GET("/health", h.System.Health)
	e.GET("/labels", h.System.Labels)
	if h.Events != nil {
		e.GET("/events", h.Events.Stream)
	}

	// Inbox
	e.GET("/inbox", h.Inbox.ListInbox)
	e.POST("/inbox/load", h.Inbox.LoadInbox)
	e.POST("/inbox/import", h.Inbox.ImportInbox, admin)
	e.DELETE("/inbox", h.Inbox.ClearInbox, admin)
	e.GET("/email/:id", h.Inbox.GetEmail)

	// Prompts
	e.GET("/prompts", h.Prompt.GetPrompts)
	e.POST("/prompts/update", h.Prompt.UpdatePrompt, admin)

	// Agent
	e.POST("/agent/draft", h.Agent.GenerateDraft)
	e.POST("/agent/chat", h.Agent.Chat)

	// Saved drafts
	e.POST("/draft/save", h.Draft.SaveDraft)
	e.GET("/draft/:id", h.Draft.GetDraft)
	e.DELETE("/draft/:id", h.Draft.DeleteDraft)
	e.GET("/drafts", h.Draft.ListDrafts)
	e.DELETE("/drafts/batch-delete", h.Draft.BatchDeleteDrafts)
}
