package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"email-agent/internal/model"
)

var defaultPromptTexts = []struct{ key, text string }{
	{model.PromptCategorization, "Read the email and categorize it into one of these: Important, To-Do, Newsletter, or Spam. " +
		"Pick the best category based only on the email. Reply with just the category."},
	{model.PromptActionExtraction, "Find what the email is asking the user to do. Write the tasks clearly and briefly.\n" +
		"Return a JSON list like this:\n" +
		"[\n  { \"task\": \"…\", \"deadline\": \"…\" }\n]\n\n" +
		"If you can't find any tasks, return []."},
	{model.PromptAutoReply, "Write a short, polite reply to the email. Be helpful and clear.\n" +
		"Return JSON:\n" +
		"{ \"subject\": \"...\", \"body\": \"...\" }"},
}

// DefaultPrompts returns the prompts a fresh store is seeded with.
func DefaultPrompts() []*model.Prompt {
	prompts := make([]*model.Prompt, 0, len(defaultPromptTexts))
	for _, p := range defaultPromptTexts {
		prompts = append(prompts, model.NewPrompt(p.key, p.text))
	}
	return prompts
}

type promptFile struct {
	Prompts []*model.Prompt `yaml:"prompts"`
}

// LoadPromptsFile reads a YAML document of the form
//
//	prompts:
//	  - key: categorization
//	    text: ...
func LoadPromptsFile(path string) ([]*model.Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	prompts := make([]*model.Prompt, 0, len(file.Prompts))
	for i, p := range file.Prompts {
		if p == nil || strings.TrimSpace(p.Key) == "" {
			return nil, fmt.Errorf("prompt %d in %s has no key", i, path)
		}
		prompts = append(prompts, model.NewPrompt(strings.TrimSpace(p.Key), p.Text))
	}
	return prompts, nil
}
