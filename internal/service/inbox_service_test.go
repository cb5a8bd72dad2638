package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"email-agent/internal/model"
	"email-agent/internal/repository"
)

type staticSource struct {
	emails []*model.Email
	err    error
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Fetch(ctx context.Context) ([]*model.Email, error) {
	return s.emails, s.err
}

func TestInboxServiceListInbox(t *testing.T) {
	// Setup
	f := newFixture()
	ctx := context.Background()
	older := f.addEmail(t, "a@example.com", "Older", "b", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := f.addEmail(t, "b@example.com", "Newer", "b", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, upsert(ctx, f, model.NewProcessingResult(older.ID, model.LabelSpam, nil)))
	svc := NewInboxService(f.emails, f.processing, f.logger)

	// Execute
	items, err := svc.ListInbox(ctx)

	// Verify
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, older.ID, items[0].ID)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, model.LabelSpam, *items[0].Category)
	assert.Equal(t, newer.ID, items[1].ID)
	assert.Nil(t, items[1].Category)
}

func TestInboxServiceGetEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	email := f.addEmail(t, "a@example.com", "Hi", "b", time.Now())
	svc := NewInboxService(f.emails, f.processing, f.logger)

	detail, err := svc.GetEmail(ctx, email.ID)
	require.NoError(t, err)
	assert.Equal(t, email.ID, detail.Email.ID)
	assert.Nil(t, detail.Processing)

	_, err = svc.GetEmail(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestInboxServiceImportAndClear(t *testing.T) {
	// Setup
	f := newFixture()
	ctx := context.Background()
	svc := NewInboxService(f.emails, f.processing, f.logger)
	source := &staticSource{emails: []*model.Email{
		model.NewEmail("a@example.com", "", "One", "b", time.Now()),
		model.NewEmail("b@example.com", "", "Two", "b", time.Now()),
	}}

	// Execute
	n, err := svc.Import(ctx, source)

	// Verify
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	count, err := f.emails.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.Clear(ctx))
	count, err = f.emails.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInboxServiceImportSourceError(t *testing.T) {
	f := newFixture()
	svc := NewInboxService(f.emails, f.processing, f.logger)

	_, err := svc.Import(context.Background(), &staticSource{err: errors.New("offline")})

	assert.ErrorContains(t, err, "offline")
}
