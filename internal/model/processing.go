package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskSource string

const (
	TaskSourceLLM    TaskSource = "llm"
	TaskSourceLLMRaw TaskSource = "llm_raw"
)

func (s TaskSource) Valid() bool {
	return s == TaskSourceLLM || s == TaskSourceLLMRaw
}

type Task struct {
	Description string     `json:"task"`
	Deadline    *string    `json:"deadline"`
	Source      TaskSource `json:"source"`
}

// DraftContent with an empty Body means nothing was generated.
type DraftContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type ProcessingResult struct {
	ID        string        `json:"id"`
	EmailID   string        `json:"email_id"`
	Category  *Label        `json:"category"`
	Tasks     []Task        `json:"tasks"`
	Draft     *DraftContent `json:"draft"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewProcessingResult(emailID string, category Label, tasks []Task) *ProcessingResult {
	if tasks == nil {
		tasks = []Task{}
	}
	return &ProcessingResult{
		ID:        uuid.New().String(),
		EmailID:   emailID,
		Category:  &category,
		Tasks:     tasks,
		UpdatedAt: time.Now(),
	}
}

// ProcessingState tracks one email through an ingestion pass.
type ProcessingState string

const (
	StatePending      ProcessingState = "pending"
	StateCategorizing ProcessingState = "categorizing"
	StateExtracting   ProcessingState = "extracting"
	StatePersisted    ProcessingState = "persisted"
	StateFailed       ProcessingState = "failed"
)

type IngestionSummary struct {
	Status    string   `json:"status"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}
