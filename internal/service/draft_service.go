package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"email-agent/internal/logger"
	"email-agent/internal/model"
	"email-agent/internal/repository"
)

// ErrEmptyDraft is returned when saving a draft without a body.
var ErrEmptyDraft = errors.New("draft body cannot be empty")

type draftService struct {
	draftRepo repository.DraftRepository
	emailRepo repository.EmailRepository
	logger    *logger.Logger
}

func NewDraftService(draftRepo repository.DraftRepository, emailRepo repository.EmailRepository, logger *logger.Logger) DraftService {
	return &draftService{
		draftRepo: draftRepo,
		emailRepo: emailRepo,
		logger:    logger,
	}
}

func (s *draftService) Save(ctx context.Context, emailID, subject, body string) (*model.Draft, error) {
	if _, err := s.emailRepo.FindByID(ctx, emailID); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyDraft
	}

	draft := model.NewDraft(emailID, strings.TrimSpace(subject), body)
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	s.logger.Info("Saved draft:", draft.ID)
	return draft, nil
}

// Get also returns the email the draft replies to, or nil if it is gone.
func (s *draftService) Get(ctx context.Context, id string) (*model.Draft, *model.Email, error) {
	draft, err := s.draftRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	email, err := s.emailRepo.FindByID(ctx, draft.EmailID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("failed to get email: %w", err)
		}
		email = nil
	}
	return draft, email, nil
}

func (s *draftService) List(ctx context.Context) ([]*model.Draft, error) {
	drafts, err := s.draftRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

func (s *draftService) Delete(ctx context.Context, id string) error {
	if err := s.draftRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted draft:", id)
	return nil
}

func (s *draftService) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	deleted, err := s.draftRepo.DeleteMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to delete drafts: %w", err)
	}
	s.logger.Infof("Deleted %d of %d drafts", len(deleted), len(ids))
	return deleted, nil
}
