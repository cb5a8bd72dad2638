package importer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"email-agent/internal/model"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type seedEmail struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	Recipients string `json:"recipients"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Timestamp  string `json:"timestamp"`
}

// JSONSource reads a mock inbox: a JSON array of emails.
type JSONSource struct {
	path string
}

func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

func (s *JSONSource) Name() string {
	return "mock"
}

func (s *JSONSource) Fetch(ctx context.Context) ([]*model.Email, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock inbox: %w", err)
	}
	return ParseJSONInbox(data)
}

// ParseJSONInbox decodes a mock inbox document. Entries with an id keep it,
// so importing the same file twice replaces rather than duplicates.
func ParseJSONInbox(data []byte) ([]*model.Email, error) {
	var seeds []seedEmail
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse mock inbox: %w", err)
	}

	emails := make([]*model.Email, 0, len(seeds))
	for _, seed := range seeds {
		email := model.NewEmail(seed.Sender, seed.Recipients, seed.Subject, seed.Body, ParseTimestamp(seed.Timestamp))
		if id := strings.TrimSpace(seed.ID); id != "" {
			email.ID = id
		}
		emails = append(emails, email)
	}
	return emails, nil
}

// ParseTimestamp accepts RFC 3339, a bare ISO date-time or a date. Anything
// else yields the zero time, which NewEmail turns into now.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
