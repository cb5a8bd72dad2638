package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"email-agent/internal/logger"
	"email-agent/internal/model"
	"email-agent/internal/repository"
)

const (
	DefaultDraftTone  = "friendly"
	inboxContextLimit = 10
)

type agentService struct {
	emailRepo      repository.EmailRepository
	processingRepo repository.ProcessingRepository
	draftRepo      repository.DraftRepository
	prompts        PromptService
	llm            LLMService
	logger         *logger.Logger
}

func NewAgentService(
	emailRepo repository.EmailRepository,
	processingRepo repository.ProcessingRepository,
	draftRepo repository.DraftRepository,
	prompts PromptService,
	llm LLMService,
	logger *logger.Logger,
) AgentService {
	return &agentService{
		emailRepo:      emailRepo,
		processingRepo: processingRepo,
		draftRepo:      draftRepo,
		prompts:        prompts,
		llm:            llm,
		logger:         logger,
	}
}

func (s *agentService) GenerateDraft(ctx context.Context, emailID, tone, promptKey string) (*model.Draft, error) {
	email, err := s.emailRepo.FindByID(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tone) == "" {
		tone = DefaultDraftTone
	}
	if promptKey == "" {
		promptKey = model.PromptAutoReply
	}

	content := s.llm.GenerateReply(ctx, email.Body, s.prompts.Text(ctx, promptKey), tone)
	content = WithReplySubject(content, email.Subject)

	err = s.processingRepo.Transact(ctx, func(tx repository.ProcessingTx) error {
		result, err := tx.FindByEmailID(ctx, email.ID)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrNotFound):
			// not ingested yet; the next ingestion run fills in the category
			result = model.NewProcessingResult(email.ID, "", nil)
			result.Category = nil
		default:
			return err
		}
		result.Draft = &content
		result.UpdatedAt = time.Now()
		return tx.Upsert(ctx, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store generated draft: %w", err)
	}

	draft := model.NewDraft(email.ID, content.Subject, content.Body)
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	s.logger.Info("Generated draft for email:", email.ID)
	return draft, nil
}

func (s *agentService) Chat(ctx context.Context, emailID, query, promptKey string) (string, error) {
	var contextText string
	if emailID != "" {
		email, err := s.emailRepo.FindByID(ctx, emailID)
		if err != nil {
			return "", err
		}
		contextText, err = s.emailContext(ctx, email)
		if err != nil {
			return "", err
		}
	} else {
		emails, err := s.emailRepo.FindAll(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get emails: %w", err)
		}
		contextText = inboxContext(emails)
	}

	return s.llm.Chat(ctx, contextText, query, s.prompts.Text(ctx, promptKey)), nil
}

func (s *agentService) emailContext(ctx context.Context, email *model.Email) (string, error) {
	tasks := "none"
	result, err := s.processingRepo.FindByEmailID(ctx, email.ID)
	switch {
	case err == nil:
		if data, err := json.Marshal(result.Tasks); err == nil {
			tasks = string(data)
		}
	case !errors.Is(err, repository.ErrNotFound):
		return "", fmt.Errorf("failed to get processing result: %w", err)
	}
	return fmt.Sprintf("Subject: %s\nFrom: %s\n\n%s\n\nExtracted tasks: %s", email.Subject, email.Sender, email.Body, tasks), nil
}

func inboxContext(emails []*model.Email) string {
	var b strings.Builder
	b.WriteString("Inbox summary:")
	for i, e := range emails {
		if i == inboxContextLimit {
			break
		}
		fmt.Fprintf(&b, "\n- %s (from %s)", e.Subject, e.Sender)
	}
	return b.String()
}

// WithReplySubject fills an empty subject with "Re: " plus the original one.
func WithReplySubject(content model.DraftContent, originalSubject string) model.DraftContent {
	content.Subject = strings.TrimSpace(content.Subject)
	content.Body = strings.TrimSpace(content.Body)
	if content.Subject == "" {
		content.Subject = "Re: " + originalSubject
	}
	return content
}
