package service

import (
	"context"

	"email-agent/internal/model"
)

// LLMService turns email text into categories, tasks, drafts and answers.
// None of its methods fail: provider and parse problems degrade to fallbacks.
type LLMService interface {
	Categorize(ctx context.Context, emailText, customPrompt string) model.Label
	ExtractTasks(ctx context.Context, emailText, customPrompt string) []model.Task
	GenerateReply(ctx context.Context, emailText, customPrompt, tone string) model.DraftContent
	Chat(ctx context.Context, contextText, query, customPrompt string) string
}

type IngestionService interface {
	// ProcessInbox categorizes and extracts tasks for every unprocessed email,
	// or every email when reset is true. Per-email failures are reported in
	// the summary; only a store failure before the pass starts is returned.
	ProcessInbox(ctx context.Context, reset bool) (*model.IngestionSummary, error)
}

type InboxService interface {
	ListInbox(ctx context.Context) ([]*model.InboxItem, error)
	GetEmail(ctx context.Context, id string) (*model.EmailDetail, error)
	Import(ctx context.Context, source EmailSource) (int, error)
	Clear(ctx context.Context) error
}

type PromptService interface {
	GetAll(ctx context.Context) (map[string]string, error)
	// Text returns the stored prompt for key, or "" when there is none.
	Text(ctx context.Context, key string) string
	// Update returns "created" or "updated".
	Update(ctx context.Context, key, text string) (string, error)
	Seed(ctx context.Context, prompts []*model.Prompt, overwrite bool) (int, error)
}

type DraftService interface {
	Save(ctx context.Context, emailID, subject, body string) (*model.Draft, error)
	Get(ctx context.Context, id string) (*model.Draft, *model.Email, error)
	List(ctx context.Context) ([]*model.Draft, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) ([]string, error)
}

type AgentService interface {
	// GenerateDraft writes a fresh reply for one email, keeps it on the
	// email's processing result and saves it as a draft.
	GenerateDraft(ctx context.Context, emailID, tone, promptKey string) (*model.Draft, error)
	// Chat answers query about one email, or about the inbox when emailID is empty.
	Chat(ctx context.Context, emailID, query, promptKey string) (string, error)
}

// EmailSource supplies emails to import into the store.
type EmailSource interface {
	Name() string
	Fetch(ctx context.Context) ([]*model.Email, error)
}

// ProgressReporter receives per-email state changes during ingestion.
type ProgressReporter interface {
	ReportProgress(emailID string, state model.ProcessingState, detail string)
}
