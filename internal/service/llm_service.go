package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"email-agent/internal/ai"
	"email-agent/internal/logger"
	"email-agent/internal/model"
	"email-agent/internal/normalize"
	"email-agent/internal/repository"
)

const (
	DefaultTone       = "polite"
	chatFallbackLimit = 350
)

type llmService struct {
	client     *ai.Client
	promptRepo repository.PromptRepository
	logger     *logger.Logger
}

func NewLLMService(client *ai.Client, promptRepo repository.PromptRepository, logger *logger.Logger) LLMService {
	return &llmService{
		client:     client,
		promptRepo: promptRepo,
		logger:     logger,
	}
}

func (s *llmService) Categorize(ctx context.Context, emailText, customPrompt string) model.Label {
	prompt := s.buildPrompt(ctx, model.PromptCategorization, customPrompt, emailText,
		"Reply with ONE LABEL ONLY.\n"+
			"Valid labels: Important, Newsletter, Spam, To-Do.\n\n"+
			"Email:\n"+emailText)

	resp, ok := s.client.Generate(ctx, prompt)
	label := normalize.ResolveLabel(resp, ok, emailText)
	s.logger.Debug("Categorized email as:", label)
	return label
}

func (s *llmService) ExtractTasks(ctx context.Context, emailText, customPrompt string) []model.Task {
	prompt := s.buildPrompt(ctx, model.PromptActionExtraction, customPrompt, emailText,
		"Extract tasks from the email.\n"+
			"Return STRICT JSON array.\n\n"+
			"Email:\n"+emailText)

	resp, ok := s.client.Generate(ctx, prompt)
	tasks := normalize.NormalizeTasks(normalize.FromResponse(resp, ok))
	for _, task := range tasks {
		if task.Source == model.TaskSourceLLMRaw {
			s.logger.Warn("Task extraction fell back to raw provider output")
			break
		}
	}
	return tasks
}

func (s *llmService) GenerateReply(ctx context.Context, emailText, customPrompt, tone string) model.DraftContent {
	if strings.TrimSpace(tone) == "" {
		tone = DefaultTone
	}
	prompt := s.buildPrompt(ctx, model.PromptAutoReply, customPrompt, emailText,
		fmt.Sprintf("Write a %s reply. Return JSON: {\"subject\":\"\", \"body\":\"\"}.\n\nEmail:\n%s", tone, emailText))

	resp, ok := s.client.Generate(ctx, prompt)
	return normalize.NormalizeDraft(resp, ok)
}

func (s *llmService) Chat(ctx context.Context, contextText, query, customPrompt string) string {
	var prompt string
	if customPrompt != "" {
		prompt = customPrompt + "\n" + contextText + "\n\nUser:\n" + query
	} else {
		prompt = "You are an intelligent assistant.\n" +
			"Use ONLY the email content to answer.\n\n" +
			"Email:\n" + contextText + "\n\nUser:\n" + query
	}

	resp, ok := s.client.Generate(ctx, prompt)
	if !ok {
		return ChatFallback(contextText)
	}
	return strings.TrimSpace(resp)
}

// ChatFallback is the answer given when no provider responded.
func ChatFallback(contextText string) string {
	runes := []rune(contextText)
	if len(runes) > chatFallbackLimit {
		runes = runes[:chatFallbackLimit]
	}
	return "LLM unavailable — here is a summary: " + string(runes) + "..."
}

// buildPrompt prefers the caller's prompt, then the stored one for key, each
// followed by the email. fallback is used as is.
func (s *llmService) buildPrompt(ctx context.Context, key, customPrompt, emailText, fallback string) string {
	if customPrompt != "" {
		return customPrompt + "\n\nEMAIL:\n" + emailText
	}
	if stored := s.storedPrompt(ctx, key); stored != "" {
		return stored + "\n\nEMAIL:\n" + emailText
	}
	return fallback
}

func (s *llmService) storedPrompt(ctx context.Context, key string) string {
	if s.promptRepo == nil {
		return ""
	}
	prompt, err := s.promptRepo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to load prompt", key+":", err)
		}
		return ""
	}
	return prompt.Text
}
