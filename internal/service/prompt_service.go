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

const (
	PromptCreated = "created"
	PromptUpdated = "updated"
)

type promptService struct {
	promptRepo repository.PromptRepository
	logger     *logger.Logger
}

func NewPromptService(promptRepo repository.PromptRepository, logger *logger.Logger) PromptService {
	return &promptService{
		promptRepo: promptRepo,
		logger:     logger,
	}
}

func (s *promptService) GetAll(ctx context.Context) (map[string]string, error) {
	prompts, err := s.promptRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get prompts: %w", err)
	}
	out := make(map[string]string, len(prompts))
	for _, p := range prompts {
		out[p.Key] = p.Text
	}
	return out, nil
}

func (s *promptService) Text(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	p, err := s.promptRepo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to load prompt", key+":", err)
		}
		return ""
	}
	return p.Text
}

func (s *promptService) Update(ctx context.Context, key, text string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("prompt key is required")
	}

	created, err := s.promptRepo.Upsert(ctx, model.NewPrompt(key, text))
	if err != nil {
		return "", fmt.Errorf("failed to save prompt: %w", err)
	}
	if created {
		s.logger.Info("Created prompt:", key)
		return PromptCreated, nil
	}
	s.logger.Info("Updated prompt:", key)
	return PromptUpdated, nil
}

// Seed stores prompts. Without overwrite, keys that already exist are left
// alone. It returns how many prompts were written.
func (s *promptService) Seed(ctx context.Context, prompts []*model.Prompt, overwrite bool) (int, error) {
	written := 0
	for _, p := range prompts {
		if !overwrite {
			if _, err := s.promptRepo.FindByKey(ctx, p.Key); err == nil {
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return written, fmt.Errorf("failed to check prompt %s: %w", p.Key, err)
			}
		}
		if _, err := s.promptRepo.Upsert(ctx, model.NewPrompt(p.Key, p.Text)); err != nil {
			return written, fmt.Errorf("failed to seed prompt %s: %w", p.Key, err)
		}
		written++
	}
	if written > 0 {
		s.logger.Infof("Seeded %d prompts", written)
	}
	return written, nil
}
