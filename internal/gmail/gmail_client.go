package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"email-agent/internal/logger"
	"email-agent/internal/model"
)

const defaultMaxResults = 20

// Source imports the newest messages of a Gmail account using a ready
// access token. No OAuth flow happens here.
type Source struct {
	client     *gmail.Service
	maxResults int64
	logger     *logger.Logger
}

// NewSource builds a Gmail importer. Extra options are appended after the
// token source, so tests can point it at a fake endpoint.
func NewSource(ctx context.Context, accessToken string, maxResults int64, logger *logger.Logger, opts ...option.ClientOption) (*Source, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("gmail access token is not configured")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	clientOpts := append([]option.ClientOption{option.WithTokenSource(tokenSource)}, opts...)

	gmailService, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Source{
		client:     gmailService,
		maxResults: maxResults,
		logger:     logger,
	}, nil
}

func (g *Source) Name() string {
	return "gmail"
}

func (g *Source) Fetch(ctx context.Context) ([]*model.Email, error) {
	user := "me"
	list, err := g.client.Users.Messages.List(user).MaxResults(g.maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	emails := make([]*model.Email, 0, len(list.Messages))
	for _, msg := range list.Messages {
		message, err := g.client.Users.Messages.Get(user, msg.Id).Format("full").Context(ctx).Do()
		if err != nil {
			g.logger.Error("Failed to get message:", msg.Id, err)
			continue
		}
		emails = append(emails, g.toEmail(message))
	}

	g.logger.Info("Fetched", len(emails), "emails from Gmail")
	return emails, nil
}

func (g *Source) toEmail(message *gmail.Message) *model.Email {
	subject := message.Snippet
	var from, to string
	if message.Payload != nil {
		for _, header := range message.Payload.Headers {
			switch header.Name {
			case "Subject":
				subject = header.Value
			case "From":
				from = header.Value
			case "To":
				to = header.Value
			}
		}
	}

	body := g.extractBody(message.Payload)
	if body == "" {
		body = message.Snippet
	}

	receivedAt := time.UnixMilli(message.InternalDate).UTC()
	return model.NewEmail(from, to, subject, body, receivedAt)
}

// extractBody prefers text/plain anywhere in the tree and falls back to the
// first HTML part.
func (g *Source) extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if text := g.findPart(payload, "text/plain"); text != "" {
		return text
	}
	return g.findPart(payload, "text/html")
}

func (g *Source) findPart(part *gmail.MessagePart, mimeType string) string {
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		decoded, err := decodeBody(part.Body.Data)
		if err != nil {
			g.logger.Error("Failed to decode email body:", err)
			return ""
		}
		return strings.TrimSpace(decoded)
	}
	for _, child := range part.Parts {
		if body := g.findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

// Gmail bodies are URL-safe base64, with or without padding.
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return string(decoded), nil
}
