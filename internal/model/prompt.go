package model

import "time"

const (
	PromptCategorization   = "categorization"
	PromptActionExtraction = "action_extraction"
	PromptAutoReply        = "auto_reply"
)

type Prompt struct {
	Key       string    `json:"key" db:"key" yaml:"key"`
	Text      string    `json:"text" db:"text" yaml:"text"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" yaml:"-"`
}

func NewPrompt(key, text string) *Prompt {
	return &Prompt{
		Key:       key,
		Text:      text,
		UpdatedAt: time.Now(),
	}
}
