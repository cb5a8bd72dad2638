package model

import (
	"time"

	"github.com/google/uuid"
)

type Email struct {
	ID         string    `json:"id" db:"id"`
	Sender     string    `json:"sender" db:"sender"`
	Recipients string    `json:"recipients,omitempty" db:"recipients"`
	Subject    string    `json:"subject" db:"subject"`
	Body       string    `json:"body" db:"body"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func NewEmail(sender, recipients, subject, body string, timestamp time.Time) *Email {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return &Email{
		ID:         uuid.New().String(),
		Sender:     sender,
		Recipients: recipients,
		Subject:    subject,
		Body:       body,
		Timestamp:  timestamp,
		CreatedAt:  time.Now(),
	}
}

// PromptText is the body handed to the provider for every per-email call.
func (e *Email) PromptText() string {
	return "Subject: " + e.Subject + "\n\n" + e.Body
}

// InboxItem is the listing view of an email joined with its category.
type InboxItem struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
	Category  *Label    `json:"category"`
}

// EmailDetail bundles an email with whatever processing exists for it.
type EmailDetail struct {
	Email      *Email            `json:"email"`
	Processing *ProcessingResult `json:"processing"`
}
