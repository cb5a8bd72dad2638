package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"email-agent/internal/logger"
	"email-agent/internal/model"
)

// EMLSource imports every .eml file in a directory. Files that fail to parse
// are logged and skipped.
type EMLSource struct {
	dir    string
	logger *logger.Logger
}

func NewEMLSource(dir string, logger *logger.Logger) *EMLSource {
	return &EMLSource{dir: dir, logger: logger}
}

func (s *EMLSource) Name() string {
	return "eml"
}

func (s *EMLSource) Fetch(ctx context.Context) ([]*model.Email, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read eml directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".eml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	emails := make([]*model.Email, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return emails, err
		}
		email, err := parseEMLFile(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("Skipping eml file", name+":", err)
			continue
		}
		emails = append(emails, email)
	}
	return emails, nil
}

func parseEMLFile(path string) (*model.Email, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseEML(f)
}

// ParseEML reads one RFC 5322 message. The body is the first text/plain
// part, or the first text/html part when there is no plain text.
func ParseEML(r io.Reader) (*model.Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}
	defer mr.Close()

	header := mr.Header

	subject, err := header.Subject()
	if err != nil {
		subject = header.Get("Subject")
	}

	var sender string
	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		sender = from[0].Address
	}

	var recipients []string
	if to, err := header.AddressList("To"); err == nil {
		for _, addr := range to {
			recipients = append(recipients, addr.Address)
		}
	}

	// zero time falls back to now
	date, _ := header.Date()

	var text, html string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		switch {
		case strings.HasPrefix(contentType, "text/plain") && text == "":
			text = string(body)
		case strings.HasPrefix(contentType, "text/html") && html == "":
			html = string(body)
		}
	}

	body := text
	if strings.TrimSpace(body) == "" {
		body = html
	}

	return model.NewEmail(sender, strings.Join(recipients, ", "), subject, strings.TrimSpace(body), date), nil
}
