package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"email-agent/internal/model"
	"email-agent/internal/repository"
)

type draftRow struct {
	ID        string `db:"id"`
	EmailID   string `db:"email_id"`
	Subject   string `db:"subject"`
	Body      string `db:"body"`
	CreatedAt dbTime `db:"created_at"`
}

func (r draftRow) toModel() *model.Draft {
	return &model.Draft{ID: r.ID, EmailID: r.EmailID, Subject: r.Subject, Body: r.Body, CreatedAt: r.CreatedAt.Time}
}

type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Create(ctx context.Context, draft *model.Draft) error {
	query := r.db.Rebind(`INSERT INTO drafts (id, email_id, subject, body, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, draft.ID, draft.EmailID, draft.Subject, draft.Body, draft.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) FindByID(ctx context.Context, id string) (*model.Draft, error) {
	var row draftRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT id, email_id, subject, body, created_at FROM drafts WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("draft %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return row.toModel(), nil
}

func (r *DraftRepository) FindAll(ctx context.Context) ([]*model.Draft, error) {
	var rows []draftRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, email_id, subject, body, created_at FROM drafts ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	drafts := make([]*model.Draft, 0, len(rows))
	for _, row := range rows {
		drafts = append(drafts, row.toModel())
	}
	return drafts, nil
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM drafts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("draft %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *DraftRepository) DeleteMany(ctx context.Context, ids []string) ([]string, error) {
	deleted := []string{}
	if len(ids) == 0 {
		return deleted, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sqlx.In(`SELECT id FROM drafts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	var existing []string
	if err := tx.SelectContext(ctx, &existing, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to look up drafts: %w", err)
	}
	if len(existing) == 0 {
		return deleted, nil
	}

	query, args, err = sqlx.In(`DELETE FROM drafts WHERE id IN (?)`, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to delete drafts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delete: %w", err)
	}

	// keep the caller's order
	found := make(map[string]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	for _, id := range ids {
		if found[id] {
			deleted = append(deleted, id)
			delete(found, id)
		}
	}
	return deleted, nil
}
