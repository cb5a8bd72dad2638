package repository

import (
	"context"
	"errors"

	"email-agent/internal/model"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// EmailRepository defines the interface for email data operations
type EmailRepository interface {
	Create(ctx context.Context, email *model.Email) error
	FindByID(ctx context.Context, id string) (*model.Email, error)
	// FindAll returns emails oldest first, ties broken by insertion order.
	FindAll(ctx context.Context) ([]*model.Email, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// ProcessingTx is the view of processing results inside one unit of work.
type ProcessingTx interface {
	FindByEmailID(ctx context.Context, emailID string) (*model.ProcessingResult, error)
	Upsert(ctx context.Context, result *model.ProcessingResult) error
}

// ProcessingRepository defines the interface for processing result operations.
// There is at most one result per email.
type ProcessingRepository interface {
	FindByEmailID(ctx context.Context, emailID string) (*model.ProcessingResult, error)
	FindAll(ctx context.Context) ([]*model.ProcessingResult, error)
	ProcessedEmailIDs(ctx context.Context) (map[string]bool, error)
	DeleteAll(ctx context.Context) error
	// Transact runs fn in its own unit of work. Writes made through tx are
	// committed only if fn returns nil and does not panic.
	Transact(ctx context.Context, fn func(tx ProcessingTx) error) error
}

// PromptRepository defines the interface for prompt template operations
type PromptRepository interface {
	FindByKey(ctx context.Context, key string) (*model.Prompt, error)
	FindAll(ctx context.Context) ([]*model.Prompt, error)
	// Upsert reports whether the prompt was newly created.
	Upsert(ctx context.Context, prompt *model.Prompt) (bool, error)
}

// DraftRepository defines the interface for saved reply drafts
type DraftRepository interface {
	Create(ctx context.Context, draft *model.Draft) error
	FindByID(ctx context.Context, id string) (*model.Draft, error)
	FindAll(ctx context.Context) ([]*model.Draft, error)
	Delete(ctx context.Context, id string) error
	// DeleteMany returns the ids that existed and were removed.
	DeleteMany(ctx context.Context, ids []string) ([]string, error)
}
