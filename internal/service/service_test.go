package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"email-agent/internal/ai"
	"email-agent/internal/logger"
	"email-agent/internal/model"
	"email-agent/internal/repository"
	"email-agent/internal/repository/memory"
)

type fixture struct {
	emails     *memory.InMemoryEmailRepository
	processing *memory.InMemoryProcessingRepository
	prompts    *memory.InMemoryPromptRepository
	drafts     *memory.InMemoryDraftRepository
	logger     *logger.Logger
}

func newFixture() *fixture {
	return &fixture{
		emails:     memory.NewInMemoryEmailRepository(),
		processing: memory.NewInMemoryProcessingRepository(),
		prompts:    memory.NewInMemoryPromptRepository(),
		drafts:     memory.NewInMemoryDraftRepository(),
		logger:     logger.NewWithWriter(io.Discard),
	}
}

func (f *fixture) llm(provider ai.Provider) LLMService {
	opts := ai.DefaultClientOptions()
	opts.RateLimitRPS = 0
	return NewLLMService(ai.NewClient(provider, opts, f.logger), f.prompts, f.logger)
}

func (f *fixture) addEmail(t *testing.T, sender, subject, body string, ts time.Time) *model.Email {
	t.Helper()
	email := model.NewEmail(sender, "", subject, body, ts)
	require.NoError(t, f.emails.Create(context.Background(), email))
	return email
}

// failingProcessingRepo rejects the upsert for one email id.
type failingProcessingRepo struct {
	*memory.InMemoryProcessingRepository
	failFor string
}

func (r *failingProcessingRepo) Transact(ctx context.Context, fn func(tx repository.ProcessingTx) error) error {
	return r.InMemoryProcessingRepository.Transact(ctx, func(tx repository.ProcessingTx) error {
		return fn(&failingTx{ProcessingTx: tx, failFor: r.failFor})
	})
}

type failingTx struct {
	repository.ProcessingTx
	failFor string
}

func (tx *failingTx) Upsert(ctx context.Context, result *model.ProcessingResult) error {
	if result.EmailID == tx.failFor {
		return errors.New("disk full")
	}
	return tx.ProcessingTx.Upsert(ctx, result)
}

type recordingReporter struct {
	states map[string][]model.ProcessingState
}

func (r *recordingReporter) ReportProgress(emailID string, state model.ProcessingState, detail string) {
	if r.states == nil {
		r.states = map[string][]model.ProcessingState{}
	}
	r.states[emailID] = append(r.states[emailID], state)
}

func upsert(ctx context.Context, f *fixture, result *model.ProcessingResult) error {
	return f.processing.Transact(ctx, func(tx repository.ProcessingTx) error {
		return tx.Upsert(ctx, result)
	})
}
