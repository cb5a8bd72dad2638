package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"email-agent/internal/logger"
	"email-agent/internal/model"
	"email-agent/internal/normalize"
	"email-agent/internal/repository"
)

type ingestionService struct {
	emailRepo      repository.EmailRepository
	processingRepo repository.ProcessingRepository
	llm            LLMService
	progress       ProgressReporter
	logger         *logger.Logger
}

// NewIngestionService wires the orchestrator. progress may be nil.
func NewIngestionService(
	emailRepo repository.EmailRepository,
	processingRepo repository.ProcessingRepository,
	llm LLMService,
	progress ProgressReporter,
	logger *logger.Logger,
) IngestionService {
	return &ingestionService{
		emailRepo:      emailRepo,
		processingRepo: processingRepo,
		llm:            llm,
		progress:       progress,
		logger:         logger,
	}
}

func (s *ingestionService) ProcessInbox(ctx context.Context, reset bool) (*model.IngestionSummary, error) {
	// a pass runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	emails, err := s.emailRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load emails: %w", err)
	}

	done := map[string]bool{}
	if !reset {
		done, err = s.processingRepo.ProcessedEmailIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load processing state: %w", err)
		}
	}

	summary := &model.IngestionSummary{Status: "ok", Errors: []string{}}
	pending := 0
	for _, email := range emails {
		if !done[email.ID] {
			pending++
		}
	}
	s.logger.Infof("Ingestion: %d emails to process (reset=%t)", pending, reset)

	for _, email := range emails {
		if done[email.ID] {
			continue
		}
		if err := s.processEmail(ctx, email); err != nil {
			s.logger.With("email_id", email.ID).Error("Failed to process email:", err)
			s.report(email.ID, model.StateFailed, err.Error())
			summary.Errors = append(summary.Errors, fmt.Sprintf("email_id=%s, error=%v", email.ID, err))
			continue
		}
		summary.Processed++
	}

	s.logger.Infof("Ingestion finished: processed=%d errors=%d", summary.Processed, len(summary.Errors))
	return summary, nil
}

func (s *ingestionService) processEmail(ctx context.Context, email *model.Email) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("unexpected failure: %v", p)
		}
	}()

	log := s.logger.With("email_id", email.ID)
	s.report(email.ID, model.StatePending, "")
	text := email.PromptText()

	s.report(email.ID, model.StateCategorizing, "")
	label := s.categorize(ctx, log, text)

	s.report(email.ID, model.StateExtracting, "")
	tasks := s.extractTasks(ctx, log, text)

	err = s.processingRepo.Transact(ctx, func(tx repository.ProcessingTx) error {
		existing, err := tx.FindByEmailID(ctx, email.ID)
		switch {
		case err == nil:
			// the stored draft survives reprocessing
			existing.Category = &label
			existing.Tasks = tasks
			existing.UpdatedAt = time.Now()
			return tx.Upsert(ctx, existing)
		case errors.Is(err, repository.ErrNotFound):
			return tx.Upsert(ctx, model.NewProcessingResult(email.ID, label, tasks))
		default:
			return err
		}
	})
	if err != nil {
		return err
	}

	log.Debug("Email processed:", label, len(tasks), "tasks")
	s.report(email.ID, model.StatePersisted, string(label))
	return nil
}

func (s *ingestionService) categorize(ctx context.Context, log *logger.Logger, text string) (label model.Label) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("Categorization failed:", p)
			label = normalize.HeuristicLabel(text)
		}
	}()
	label = s.llm.Categorize(ctx, text, "")
	if !label.Valid() {
		label = normalize.HeuristicLabel(text)
	}
	return label
}

func (s *ingestionService) extractTasks(ctx context.Context, log *logger.Logger, text string) (tasks []model.Task) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("Task extraction failed:", p)
			tasks = []model.Task{}
		}
	}()
	tasks = s.llm.ExtractTasks(ctx, text, "")
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

func (s *ingestionService) report(emailID string, state model.ProcessingState, detail string) {
	if s.progress != nil {
		s.progress.ReportProgress(emailID, state, detail)
	}
}
