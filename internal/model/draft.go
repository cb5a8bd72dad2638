package model

import (
	"time"

	"github.com/google/uuid"
)

// Draft is a reply the user chose to keep, independent of the generated one.
type Draft struct {
	ID        string    `json:"id" db:"id"`
	EmailID   string    `json:"email_id" db:"email_id"`
	Subject   string    `json:"subject" db:"subject"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewDraft(emailID, subject, body string) *Draft {
	return &Draft{
		ID:        uuid.New().String(),
		EmailID:   emailID,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}
}
