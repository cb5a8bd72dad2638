package service

import (
	"context"
	"errors"
	"fmt"

	"email-agent/internal/logger"
	"email-agent/internal/model"
	"email-agent/internal/repository"
)

type inboxService struct {
	emailRepo      repository.EmailRepository
	processingRepo repository.ProcessingRepository
	logger         *logger.Logger
}

func NewInboxService(emailRepo repository.EmailRepository, processingRepo repository.ProcessingRepository, logger *logger.Logger) InboxService {
	return &inboxService{
		emailRepo:      emailRepo,
		processingRepo: processingRepo,
		logger:         logger,
	}
}

func (s *inboxService) ListInbox(ctx context.Context) ([]*model.InboxItem, error) {
	emails, err := s.emailRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get emails: %w", err)
	}
	results, err := s.processingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get processing results: %w", err)
	}

	categories := make(map[string]*model.Label, len(results))
	for _, r := range results {
		categories[r.EmailID] = r.Category
	}

	items := make([]*model.InboxItem, 0, len(emails))
	for _, e := range emails {
		items = append(items, &model.InboxItem{
			ID:        e.ID,
			Sender:    e.Sender,
			Subject:   e.Subject,
			Timestamp: e.Timestamp,
			Category:  categories[e.ID],
		})
	}
	return items, nil
}

func (s *inboxService) GetEmail(ctx context.Context, id string) (*model.EmailDetail, error) {
	email, err := s.emailRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.EmailDetail{Email: email}
	processing, err := s.processingRepo.FindByEmailID(ctx, id)
	switch {
	case err == nil:
		detail.Processing = processing
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to get processing result: %w", err)
	}
	return detail, nil
}

func (s *inboxService) Import(ctx context.Context, source EmailSource) (int, error) {
	emails, err := source.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch emails from %s: %w", source.Name(), err)
	}

	imported := 0
	for _, email := range emails {
		if err := s.emailRepo.Create(ctx, email); err != nil {
			return imported, fmt.Errorf("failed to save email: %w", err)
		}
		imported++
	}
	s.logger.Infof("Imported %d emails from %s", imported, source.Name())
	return imported, nil
}

func (s *inboxService) Clear(ctx context.Context) error {
	if err := s.processingRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear processing results: %w", err)
	}
	if err := s.emailRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear emails: %w", err)
	}
	s.logger.Info("Inbox cleared")
	return nil
}
