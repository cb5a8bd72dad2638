package memory

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

func TestEmailRepositoryOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryEmailRepository()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	late := model.NewEmail("a@x.com", "", "late", "", base.Add(time.Hour))
	first := model.NewEmail("b@x.com", "", "first", "", base)
	second := model.NewEmail("c@x.com", "", "second", "", base)
	for _, e := range []*model.Email{late, first, second} {
		require.NoError(t, repo.Create(ctx, e))
	}

	emails, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, emails, 3)
	assert.Equal(t, []string{"first", "second", "late"}, []string{emails[0].Subject, emails[1].Subject, emails[2].Subject})

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	require.NoError(t, repo.DeleteAll(ctx))
	n, _ := repo.Count(ctx)
	assert.Zero(t, n)
}

func TestProcessingTransactCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProcessingRepository()

	err := repo.Transact(ctx, func(tx repository.ProcessingTx) error {
		return tx.Upsert(ctx, model.NewProcessingResult("e1", model.LabelSpam, nil))
	})
	require.NoError(t, err)

	err = repo.Transact(ctx, func(tx repository.ProcessingTx) error {
		require.NoError(t, tx.Upsert(ctx, model.NewProcessingResult("e2", model.LabelSpam, nil)))
		found, err := tx.FindByEmailID(ctx, "e2")
		require.NoError(t, err)
		assert.Equal(t, "e2", found.EmailID)
		return errors.New("disk full")
	})
	assert.EqualError(t, err, "disk full")

	err = repo.Transact(ctx, func(tx repository.ProcessingTx) error {
		_ = tx.Upsert(ctx, model.NewProcessingResult("e3", model.LabelSpam, nil))
		panic("boom")
	})
	assert.Error(t, err)

	ids, err := repo.ProcessedEmailIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"e1": true}, ids)
}

func TestProcessedEmailIDsSkipsDraftOnlyRows(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProcessingRepository()
	draftOnly := model.NewProcessingResult("e2", "", nil)
	draftOnly.Category = nil
	draftOnly.Draft = &model.DraftContent{Subject: "Re: two", Body: "ok"}
	require.NoError(t, repo.Transact(ctx, func(tx repository.ProcessingTx) error {
		if err := tx.Upsert(ctx, model.NewProcessingResult("e1", model.LabelSpam, nil)); err != nil {
			return err
		}
		return tx.Upsert(ctx, draftOnly)
	}))

	ids, err := repo.ProcessedEmailIDs(ctx)

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"e1": true}, ids)
}

func TestProcessingResultsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProcessingRepository()
	require.NoError(t, repo.Transact(ctx, func(tx repository.ProcessingTx) error {
		return tx.Upsert(ctx, model.NewProcessingResult("e1", model.LabelToDo, []model.Task{{Description: "a", Source: model.TaskSourceLLM}}))
	}))

	got, err := repo.FindByEmailID(ctx, "e1")
	require.NoError(t, err)
	got.Tasks[0].Description = "mutated"

	again, _ := repo.FindByEmailID(ctx, "e1")
	assert.Equal(t, "a", again.Tasks[0].Description)
}

func TestPromptUpsertReportsCreation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryPromptRepository()

	created, err := repo.Upsert(ctx, model.NewPrompt("categorization", "v1"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, model.NewPrompt("categorization", "v2"))
	require.NoError(t, err)
	assert.False(t, created)

	p, err := repo.FindByKey(ctx, "categorization")
	require.NoError(t, err)
	assert.Equal(t, "v2", p.Text)

	_, err = repo.FindByKey(ctx, "auto_reply")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDraftRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryDraftRepository()
	d1 := model.NewDraft("e1", "Re: a", "one")
	d2 := model.NewDraft("e1", "Re: a", "two")
	d3 := model.NewDraft("e2", "Re: b", "three")
	for _, d := range []*model.Draft{d1, d2, d3} {
		require.NoError(t, repo.Create(ctx, d))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*model.Draft{d3, d2, d1}, all)

	require.NoError(t, repo.Delete(ctx, d2.ID))
	assert.ErrorIs(t, repo.Delete(ctx, d2.ID), repository.ErrNotFound)

	deleted, err := repo.DeleteMany(ctx, []string{d1.ID, "nope", d3.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{d1.ID, d3.ID}, deleted)

	all, _ = repo.FindAll(ctx)
	assert.Empty(t, all)
}
